package config

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// JWTConfig - ключи и сроки жизни токенов.
type JWTConfig struct {
	AccessSecret     string `env:"SECRET_KEY_ACCESS" env-required:"true"`
	RefreshSecret    string `env:"SECRET_KEY_REFRESH" env-required:"true"`
	Algorithm        string `env:"ALGORITHM" env-default:"HS256"`
	AccessTTLMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" env-default:"30"`
	RefreshTTLDays   int    `env:"REFRESH_TOKEN_EXPIRE_DAYS" env-default:"7"`
	BCryptCost       int    `env:"BCRYPT_COST" env-default:"12"`
}

// Поддерживаемые алгоритмы подписи.
var supportedAlgorithms = map[string]struct{}{
	"HS256": {},
	"HS384": {},
	"HS512": {},
}

// GetAccessTokenTTL возвращает срок жизни access токена.
func (c *JWTConfig) GetAccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

// GetRefreshTokenTTL возвращает срок жизни refresh токена.
func (c *JWTConfig) GetRefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// Validate проверяет алгоритм, сроки и стоимость bcrypt.
func (c *JWTConfig) Validate() error {
	if _, ok := supportedAlgorithms[c.Algorithm]; !ok {
		return fmt.Errorf("%w: ALGORITHM %q is not supported", ErrInvalidValue, c.Algorithm)
	}
	if c.AccessTTLMinutes <= 0 || c.RefreshTTLDays <= 0 {
		return fmt.Errorf("%w: token lifetimes must be positive", ErrInvalidValue)
	}
	if c.BCryptCost < bcrypt.MinCost || c.BCryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: BCRYPT_COST out of range", ErrInvalidValue)
	}
	return nil
}
