package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"socialhub/internal/socialhub/domain/entities"
)

// Коды ошибок PostgreSQL (SQLSTATE).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
)

var uniqueConstraintFields = map[string]entities.UserField{
	"users_email_key":        entities.UserFieldEmail,
	"users_username_key":     entities.UserFieldUsername,
	"users_phone_number_key": entities.UserFieldPhoneNumber,
}

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// duplicateField определяет поле по имени нарушенного UNIQUE ограничения.
func duplicateField(err error) (*entities.DuplicateFieldError, bool) {
	pgErr, ok := asPgError(err)
	if !ok || pgErr.Code != pgUniqueViolation {
		return nil, false
	}
	field, ok := uniqueConstraintFields[pgErr.ConstraintName]
	if !ok {
		return nil, false
	}
	return &entities.DuplicateFieldError{Field: field}, true
}

func isForeignKeyViolation(err error) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == pgForeignKeyViolation
}

func isCheckViolation(err error) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == pgCheckViolation
}

func isValueTooLong(err error) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == pgStringTooLong
}
