package repositories

import (
	"context"

	"socialhub/internal/socialhub/domain/entities"
)

// UserRepository - хранилище пользователей.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	// FindByField возвращает не больше двух совпадений, чтобы вызывающий
	// мог отличить "одно" от "несколько".
	FindByField(ctx context.Context, field entities.UserField, value any) ([]*entities.User, error)

	Update(ctx context.Context, user *entities.User) (*entities.User, error)

	Delete(ctx context.Context, id int64) error
}
