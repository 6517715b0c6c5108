package services

import "context"

// LoginGuard ограничивает число неудачных попыток входа на идентификатор.
type LoginGuard interface {
	Allow(ctx context.Context, identifier string) (bool, error)

	RegisterFailure(ctx context.Context, identifier string) error

	Reset(ctx context.Context, identifier string) error
}
