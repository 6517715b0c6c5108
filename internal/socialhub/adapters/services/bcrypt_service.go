package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"socialhub/internal/socialhub/domain/services"
	svc "socialhub/internal/socialhub/ports/services"
)

const (
	errMsgFailedToGenerateHash = "failed to generate password hash"
	errMsgErrorComparingHash   = "error comparing password with hash"
	errMsgPasswordTooLong      = "password exceeds bcrypt limit"
)

// ServiceBcrypt - PasswordService на bcrypt.
type ServiceBcrypt struct {
	cost int
}

// NewBcrypt создает сервис. Стоимость вне допустимого диапазона заменяется на bcrypt.DefaultCost.
func NewBcrypt(cost int) svc.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &ServiceBcrypt{cost: cost}
}

// Hash возвращает bcrypt-хеш пароля.
func (s *ServiceBcrypt) Hash(_ context.Context, password string) (string, error) {
	if password == "" {
		return "", services.ErrInvalidPassword
	}
	if len(password) > services.MaxPasswordLength {
		return "", fmt.Errorf("%s: %w", errMsgPasswordTooLong, services.ErrInvalidPassword)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", errMsgFailedToGenerateHash, services.ErrHashingFailed, err)
	}
	return string(hashed), nil
}

// Verify сравнивает пароль с хешем. Несовпадение - это (false, nil), а не ошибка.
func (s *ServiceBcrypt) Verify(_ context.Context, password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, services.ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", errMsgErrorComparingHash, err)
	}
}
