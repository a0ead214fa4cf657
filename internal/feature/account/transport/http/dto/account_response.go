package dto

import "time"

// DateLayout formats timestamps in profile responses.
const DateLayout = "2006-01-02 15:04:05"

// Envelope is the common shape of every account response.
type Envelope struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

// LoginRes is returned by a successful login.
type LoginRes struct {
	Envelope
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ForgotIDRes carries the recovered login id.
type ForgotIDRes struct {
	Envelope
	UserID string `json:"user_id"`
}

// AccountInfo is the public profile of an account.
type AccountInfo struct {
	AUUID      string  `json:"a_uuid"`
	ID         string  `json:"id"`
	Nickname   string  `json:"nickname"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	SchoolID   string  `json:"s_id"`
	Profile    string  `json:"profile"`
	UUUID      *string `json:"u_uuid"`
	LoginDate  *string `json:"login_date"`
	SignupDate string  `json:"signup_date"`
}

// ProfileRes wraps the profile view.
type ProfileRes struct {
	Envelope
	AccountInfo AccountInfo `json:"account_info"`
}

// UpdateImageRes carries the reference now stored for the profile image.
type UpdateImageRes struct {
	Envelope
	Profile string `json:"profile"`
}
