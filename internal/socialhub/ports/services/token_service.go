package services

import (
	"context"
	"time"

	"socialhub/internal/socialhub/domain/services"
)

// TokenService - кодек подписанных токенов.
type TokenService interface {
	Issue(ctx context.Context, claims services.TokenClaims, domain services.TokenDomain) (string, time.Time, error)

	Decode(ctx context.Context, token string, domain services.TokenDomain) (*services.TokenClaims, error)
}
