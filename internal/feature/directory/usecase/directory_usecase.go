// Package usecase implements the read-only university directory.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"account_backend/internal/feature/directory/domain/entity"
)

// UniversityRepository abstracts the persistence layer for the university directory.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UniversityRepository interface {
	ListAll(ctx context.Context) ([]entity.University, error)
	ListRefs(ctx context.Context) ([]uuid.UUID, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// DirectoryUsecase provides the directory lookups used by handlers and the account feature.
type DirectoryUsecase struct {
	repo UniversityRepository
}

// NewDirectoryUsecase creates a new DirectoryUsecase with the given repository.
func NewDirectoryUsecase(r UniversityRepository) *DirectoryUsecase {
	return &DirectoryUsecase{repo: r}
}

// ListUniversities returns every university ordered by name.
func (u *DirectoryUsecase) ListUniversities(ctx context.Context) ([]entity.University, error) {
	return u.repo.ListAll(ctx)
}

// ListRefs returns the identity keys of every university.
func (u *DirectoryUsecase) ListRefs(ctx context.Context) ([]uuid.UUID, error) {
	return u.repo.ListRefs(ctx)
}

// Exists reports whether a university with the given identity key is registered.
func (u *DirectoryUsecase) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	return u.repo.Exists(ctx, id)
}
