// Package usecase implements the business logic for the account feature.
package usecase

import (
	"errors"
	"fmt"

	"account_backend/internal/feature/account/domain/entity"
)

var (
	// ErrAccountNotFound is returned when no account matches a lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrConflict is returned when a unique attribute is already taken.
	// Use errors.As with *ConflictError to learn which attribute collided.
	ErrConflict = errors.New("account already exists")

	// ErrUniversityNotFound is returned when the affiliation does not exist in the directory.
	ErrUniversityNotFound = errors.New("university not found")

	// ErrUnknownAttribute is returned when a lookup names an attribute the store does not index.
	ErrUnknownAttribute = errors.New("unknown account attribute")
)

// ConflictError reports the first unique attribute that collided.
type ConflictError struct {
	Attribute entity.Attribute
	Value     string
}

func (e *ConflictError) Error() string {
	if e.Attribute == "" {
		return ErrConflict.Error()
	}
	if e.Value == "" {
		return fmt.Sprintf("%s already exists", e.Attribute.Label())
	}
	return fmt.Sprintf("%s %s already exists", e.Value, e.Attribute.Label())
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
