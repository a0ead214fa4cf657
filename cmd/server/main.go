package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"account_backend/internal/app/di"
	"account_backend/internal/app/router"
	accountadapters "account_backend/internal/feature/account/adapters"
	accounthandler "account_backend/internal/feature/account/transport/handler"
	accountusecase "account_backend/internal/feature/account/usecase"
	directoryhandler "account_backend/internal/feature/directory/transport/handler"
	directoryusecase "account_backend/internal/feature/directory/usecase"
	"account_backend/internal/platform/config"
	"account_backend/internal/platform/db"
	platformhandler "account_backend/internal/platform/http/handler"
	jwtmw "account_backend/internal/platform/jwt"
	"account_backend/internal/platform/logger"
	"account_backend/internal/platform/password"
	infraredis "account_backend/internal/platform/redis"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Log, os.Stdout)
	gin.SetMode(cfg.Server.GinMode)

	// db
	gdb, err := db.OpenDB(ctx, cfg.DB)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	sqlDB, err := gdb.DB()
	if err != nil {
		slog.Error("failed to get sql.DB", "error", err)
		os.Exit(1)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("redis unavailable; running without cache", "error", err)
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	images, err := di.NewImageStore(ctx, cfg.Images)
	if err != nil {
		slog.Error("failed to create image store", "backend", cfg.Images.Backend, "error", err)
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}
	tokens := jwtmw.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Repository
	universityRepo := di.NewUniversityRepository(rdb, gdb, cfg.Redis.CacheTTL)
	accountRepo := accountadapters.NewAccountGorm(gdb)

	// Usecase
	directoryUC := directoryusecase.NewDirectoryUsecase(universityRepo)
	accountUC := accountusecase.NewAccountUsecase(
		accountRepo,
		password.NewHasher(cfg.Auth.BcryptCost),
		tokens,
		directoryUC,
		images,
	)

	// Handler
	accountH := accounthandler.NewAccountHandler(accountUC)
	universityH := directoryhandler.NewUniversityHandler(directoryUC)
	healthH := platformhandler.NewHealthHandler(sqlDB)

	r := router.NewRouter(accountH, universityH, healthH, tokens)

	slog.Info("server starting", "addr", cfg.Server.Addr, "image_store", cfg.Images.Backend, "cache", rdb != nil)
	if err := r.Run(cfg.Server.Addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
