package entities

import (
	"errors"
	"fmt"
)

// Ошибки валидации.
var (
	// ErrValidation - общий признак ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")
	// ErrValueTooLong - значение не помещается в колонку хранилища.
	ErrValueTooLong = errors.New("value is too long")
)

// ValidationError указывает, какое поле не прошло проверку.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError создает ошибку валидации поля.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is позволяет errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
