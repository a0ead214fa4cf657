package di

import (
	"context"
	"fmt"

	accountusecase "account_backend/internal/feature/account/usecase"
	"account_backend/internal/platform/config"
	"account_backend/internal/platform/imagestore"
)

// NewImageStore creates the profile image store selected by cfg.Backend.
func NewImageStore(ctx context.Context, cfg config.Images) (accountusecase.ImageStore, error) {
	switch cfg.Backend {
	case "s3":
		return imagestore.NewS3Store(ctx, cfg)
	case "local", "":
		return imagestore.NewLocalStore(cfg.Dir, cfg.DefaultImage)
	default:
		return nil, fmt.Errorf("unknown IMAGE_STORE %q", cfg.Backend)
	}
}
