package services

import (
	"errors"
	"time"
)

// Ошибки кодека токенов.
var (
	ErrInvalidJWTToken    = errors.New("invalid JWT token")
	ErrExpiredJWTToken    = errors.New("JWT token has expired")
	ErrGeneratingJWTToken = errors.New("failed to generate JWT token")
	ErrMissingClaims      = errors.New("required token claims are missing")
	ErrUnknownTokenDomain = errors.New("unknown token domain")
)

// TokenDomain - пространство подписи: у access и refresh разные ключи и сроки.
type TokenDomain string

// Домены токенов.
const (
	AccessToken  TokenDomain = "access"
	RefreshToken TokenDomain = "refresh"
)

// DomainKey - ключ и срок жизни одного домена.
type DomainKey struct {
	Secret []byte
	TTL    time.Duration
}

// JWTConfig - настройки кодека.
type JWTConfig struct {
	Algorithm string
	Access    DomainKey
	Refresh   DomainKey
}

// TokenClaims - содержимое токена. Нулевой ExpiresAt означает отсутствие exp.
type TokenClaims struct {
	Subject   string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}
