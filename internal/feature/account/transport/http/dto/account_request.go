// Package dto defines data transfer objects for the account feature's HTTP transport layer.
package dto

// RegisterReq is the body of PUT /account/register.
// UUUID is the university reference; empty means no affiliation.
type RegisterReq struct {
	UserID   string `json:"user_id" binding:"required,max=15"`
	Password string `json:"password" binding:"required,max=72"`
	Nickname string `json:"nickname" binding:"required,max=15"`
	Email    string `json:"email" binding:"required,email,max=50"`
	Phone    string `json:"phone" binding:"required,max=13"`
	UUUID    string `json:"u_uuid" binding:"omitempty,uuid"`
	SchoolID string `json:"s_id"`
}

// LoginForm is the OAuth2 password form of POST /account/login.
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// SignoutQuery holds the query parameters of DELETE /account/signout.
type SignoutQuery struct {
	ID       string `form:"id" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ForgotIDQuery holds the query parameters of POST /account/forgot/id.
type ForgotIDQuery struct {
	Email string `form:"email" binding:"required"`
}

// ForgotPasswordReq is the body of POST /account/forgot/password.
type ForgotPasswordReq struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required,max=72"`
}

// DuplicateQuery holds the value checked by POST /account/duplicate/:parameter.
type DuplicateQuery struct {
	Data string `form:"data" binding:"required"`
}

// UpdateImageForm holds the optional target account of POST /account/profile/image/update.
// An empty AccountID targets the token's own account; the handler parses it as a uuid.
type UpdateImageForm struct {
	AccountID string `form:"account_id"`
}
