package api

import (
	"context"

	"socialhub/internal/socialhub/domain/entities"
)

// IdentityResolver ищет пользователя по имени уникального поля.
type IdentityResolver interface {
	FindByField(ctx context.Context, field string, value any) (*entities.User, error)
}
