package adapters

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"account_backend/internal/feature/account/domain/entity"
	"account_backend/internal/feature/account/usecase"
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// uniqueIndexes maps the unique index names created by the migrations to attributes.
var uniqueIndexes = map[string]entity.Attribute{
	"uq_accounts_login_id": entity.AttributeLoginID,
	"uq_accounts_nickname": entity.AttributeNickname,
	"uq_accounts_email":    entity.AttributeEmail,
	"uq_accounts_phone":    entity.AttributePhone,
}

const sqliteUniquePrefix = "UNIQUE constraint failed: accounts."

// translateWriteError maps a database constraint violation to a usecase error.
// Errors it does not recognise are returned unchanged.
func translateWriteError(err error, a *entity.Account) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return conflictFor(uniqueIndexes[pgErr.ConstraintName], a)
		case pgForeignKeyViolation:
			return usecase.ErrUniversityNotFound
		}
		return err
	}

	// SQLite reports constraints only through the message text.
	msg := err.Error()
	if i := strings.Index(msg, sqliteUniquePrefix); i >= 0 {
		col := msg[i+len(sqliteUniquePrefix):]
		if j := strings.IndexAny(col, ", "); j >= 0 {
			col = col[:j]
		}
		return conflictFor(entity.Attribute(col), a)
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return usecase.ErrUniversityNotFound
	}
	return err
}

func conflictFor(attr entity.Attribute, a *entity.Account) error {
	if !attr.IsUnique() {
		return &usecase.ConflictError{}
	}
	ce := &usecase.ConflictError{Attribute: attr}
	if a != nil {
		ce.Value = a.Value(attr)
	}
	return ce
}
