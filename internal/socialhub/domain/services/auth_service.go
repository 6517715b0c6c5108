// Package services описывает доменные понятия аутентификации: ошибки, токены, личность.
package services

import (
	"errors"
	"time"
)

// Ошибки потока аутентификации.
var (
	ErrInvalidCredentials    = errors.New("incorrect email or password")
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")
	ErrCannotValidate        = errors.New("could not validate user")
	ErrNoTokenSupplied       = errors.New("no access token supplied")
	ErrTokenExpired          = errors.New("access token expired")
	ErrTooManyLoginAttempts  = errors.New("too many failed login attempts")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication tokens")
)

// TokenTypeBearer - значение token_type в ответе.
const TokenTypeBearer = "bearer"

// TokenPair - выданная пара токенов.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	TokenType        string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Identity - проверенная личность владельца access токена.
type Identity struct {
	ID    int64
	Email string
}

// Registration - данные регистрации.
type Registration struct {
	Email          string
	Username       string
	Password       string
	PasswordRepeat string
	PhoneNumber    string
	DateOfBirth    time.Time
}
