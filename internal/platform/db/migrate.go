package db

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"account_backend/internal/platform/db/migrations"
)

// Migrate applies the embedded SQL migrations to db.
func Migrate(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql.DB: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(gooseDialect(db.Dialector.Name())); err != nil {
		return err
	}
	return goose.UpContext(ctx, sqlDB, ".")
}

// gooseDialect maps a GORM dialector name to the goose dialect name.
func gooseDialect(name string) string {
	if name == "sqlite" {
		return "sqlite3"
	}
	return name
}
