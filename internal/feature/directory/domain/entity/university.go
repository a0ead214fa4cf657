// Package entity defines the domain models for the directory feature.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// University is a row of the read-only university directory.
// Accounts reference it through their affiliation.
type University struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (University) TableName() string {
	return "universities"
}
