// Package entity defines the domain entities for the account feature.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered member.
// LoginID, Nickname, Email and Phone are each unique across all accounts.
type Account struct {
	// ID is the identity key. It is assigned once at creation and never changes.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	LoginID  string `gorm:"column:login_id;size:15;not null;uniqueIndex:uq_accounts_login_id"`
	Nickname string `gorm:"size:15;not null;uniqueIndex:uq_accounts_nickname"`

	// PasswordHash is the bcrypt digest of the password. The raw password is never stored.
	PasswordHash string `gorm:"column:password_hash;size:72;not null"`

	Email string `gorm:"size:50;not null;uniqueIndex:uq_accounts_email"`
	Phone string `gorm:"size:13;not null;uniqueIndex:uq_accounts_phone"`

	// SchoolID is the free-text student number.
	SchoolID string `gorm:"column:school_id;type:text"`

	// ProfileImage is the image store reference. nil means the default image.
	ProfileImage *string `gorm:"column:profile_image;type:text"`

	// UniversityID references universities.id in the directory.
	UniversityID *uuid.UUID `gorm:"column:university_id;type:uuid;index"`

	SignupAt    time.Time  `gorm:"column:signup_at;not null"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

// TableName returns the table name for GORM.
func (Account) TableName() string {
	return "accounts"
}

// Value returns the account's value for a unique attribute.
// It returns an empty string for attributes that are not unique public attributes.
func (a *Account) Value(attr Attribute) string {
	switch attr {
	case AttributeLoginID:
		return a.LoginID
	case AttributeNickname:
		return a.Nickname
	case AttributeEmail:
		return a.Email
	case AttributePhone:
		return a.Phone
	case AttributeAccountID:
		return a.ID.String()
	default:
		return ""
	}
}

// AccountChanges describes a partial update of an account.
// Nil fields are left untouched.
type AccountChanges struct {
	PasswordHash *string
	LastLoginAt  *time.Time
	ProfileImage *string

	// ClearProfileImage resets the profile image to the default. It wins over ProfileImage.
	ClearProfileImage bool
}

// Columns returns the column/value pairs to write.
func (c AccountChanges) Columns() map[string]any {
	cols := map[string]any{}
	if c.PasswordHash != nil {
		cols["password_hash"] = *c.PasswordHash
	}
	if c.LastLoginAt != nil {
		cols["last_login_at"] = *c.LastLoginAt
	}
	if c.ClearProfileImage {
		cols["profile_image"] = nil
	} else if c.ProfileImage != nil {
		cols["profile_image"] = *c.ProfileImage
	}
	return cols
}
