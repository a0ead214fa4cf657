package router

import (
	"github.com/gin-gonic/gin"

	accounthandler "account_backend/internal/feature/account/transport/handler"
	directoryhandler "account_backend/internal/feature/directory/transport/handler"
	platformhandler "account_backend/internal/platform/http/handler"
	jwtmw "account_backend/internal/platform/jwt"
)

// NewRouter registers every HTTP route on a new gin engine.
func NewRouter(
	accounts *accounthandler.AccountHandler,
	universities *directoryhandler.UniversityHandler,
	health *platformhandler.HealthHandler,
	tokens jwtmw.Decoder,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	r.GET("/universities", universities.List)

	account := r.Group("/account")
	{
		account.PUT("/register", accounts.Register)
		account.POST("/login", accounts.Login)
		account.DELETE("/signout", accounts.Signout)
		account.POST("/forgot/id", accounts.ForgotID)
		account.POST("/forgot/password", accounts.ForgotPassword)
		account.POST("/duplicate/:parameter", accounts.CheckDuplicate)
	}

	// bearer token required
	profile := account.Group("/profile")
	profile.Use(jwtmw.AuthRequired(tokens))
	{
		profile.GET("", accounts.GetProfile)
		profile.GET("/image", accounts.GetProfileImage)
		profile.POST("/image/update", accounts.UpdateProfileImage)
	}

	return r
}
