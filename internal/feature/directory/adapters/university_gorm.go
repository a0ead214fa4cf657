// Package adapters provides the GORM implementation of the university directory.
package adapters

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"account_backend/internal/feature/directory/domain/entity"
	"account_backend/internal/feature/directory/usecase"
)

// universityGorm reads the universities table.
type universityGorm struct {
	db *gorm.DB
}

var _ usecase.UniversityRepository = (*universityGorm)(nil)

// NewUniversityRepository creates a universityGorm repository on db.
func NewUniversityRepository(db *gorm.DB) *universityGorm {
	return &universityGorm{db: db}
}

// ListAll returns every university ordered by name.
func (r *universityGorm) ListAll(ctx context.Context) ([]entity.University, error) {
	var out []entity.University
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListRefs returns only the identity keys, ordered by name.
func (r *universityGorm) ListRefs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entity.University{}).
		Order("name ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Exists reports whether a university with id is present.
func (r *universityGorm) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&entity.University{}).
		Where("id = ?", id).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
