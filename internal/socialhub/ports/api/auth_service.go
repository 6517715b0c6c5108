package api

import (
	"context"

	"socialhub/internal/socialhub/domain/services"
)

// AuthUseCase - порт потока аутентификации.
type AuthUseCase interface {
	Register(ctx context.Context, input services.Registration) (*services.TokenPair, error)

	Login(ctx context.Context, email, password string) (*services.TokenPair, error)

	RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error)

	WhoAmI(ctx context.Context, accessToken string) (*services.Identity, error)
}
