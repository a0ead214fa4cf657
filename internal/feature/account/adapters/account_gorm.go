// Package adapters provides the GORM-backed account store.
package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"account_backend/internal/feature/account/domain/entity"
	"account_backend/internal/feature/account/usecase"
)

// accountGorm is the GORM implementation of usecase.AccountRepository.
// Every method runs in its own transaction on the shared pool.
type accountGorm struct {
	db *gorm.DB
	// precheck runs before every insert; the unique indexes remain the final authority.
	precheck func(tx *gorm.DB, a *entity.Account) error
}

var _ usecase.AccountRepository = (*accountGorm)(nil)

// NewAccountGorm returns an account store backed by db.
func NewAccountGorm(db *gorm.DB) *accountGorm {
	return &accountGorm{db: db, precheck: checkUniqueness}
}

// FindBy returns the account whose attr equals value.
// It returns usecase.ErrAccountNotFound when there is none.
func (r *accountGorm) FindBy(ctx context.Context, attr entity.Attribute, value string) (*entity.Account, error) {
	col, ok := attr.Column()
	if !ok {
		return nil, usecase.ErrUnknownAttribute
	}
	if attr == entity.AttributeAccountID {
		if _, err := uuid.Parse(value); err != nil {
			return nil, usecase.ErrAccountNotFound
		}
	}

	var a entity.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where(col+" = ?", value).First(&a).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// CheckUniqueness returns a *usecase.ConflictError for the first unique attribute
// of candidate that is already taken, in entity.UniquenessOrder.
func (r *accountGorm) CheckUniqueness(ctx context.Context, candidate *entity.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return checkUniqueness(tx, candidate)
	})
}

// Insert stores a new account after re-checking uniqueness in the same transaction.
// A unique index violation is reported as *usecase.ConflictError and a missing
// university as usecase.ErrUniversityNotFound.
func (r *accountGorm) Insert(ctx context.Context, a *entity.Account) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.precheck(tx, a); err != nil {
			return err
		}
		return translateWriteError(tx.Create(a).Error, a)
	})
}

// UpdateFields applies a partial update to the account with the given id.
func (r *accountGorm) UpdateFields(ctx context.Context, id uuid.UUID, changes entity.AccountChanges) error {
	cols := changes.Columns()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(cols) == 0 {
			return accountExists(tx, id)
		}
		res := tx.Model(&entity.Account{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return translateWriteError(res.Error, nil)
		}
		if res.RowsAffected == 0 {
			return usecase.ErrAccountNotFound
		}
		return nil
	})
}

// Delete removes the account with the given id.
func (r *accountGorm) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&entity.Account{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrAccountNotFound
		}
		return nil
	})
}

func checkUniqueness(tx *gorm.DB, a *entity.Account) error {
	for _, attr := range entity.UniquenessOrder {
		v := a.Value(attr)
		if v == "" {
			continue
		}
		col, _ := attr.Column()

		var n int64
		if err := tx.Model(&entity.Account{}).Where(col+" = ?", v).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &usecase.ConflictError{Attribute: attr, Value: v}
		}
	}
	return nil
}

func accountExists(tx *gorm.DB, id uuid.UUID) error {
	var n int64
	if err := tx.Model(&entity.Account{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrAccountNotFound
	}
	return nil
}
