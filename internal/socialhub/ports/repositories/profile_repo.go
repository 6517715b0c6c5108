package repositories

import (
	"context"

	"socialhub/internal/socialhub/domain/entities"
)

// ProfileRepository - хранилище профилей соцсетей.
type ProfileRepository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]*entities.SocialProfile, error)

	Create(ctx context.Context, profile *entities.SocialProfile) (*entities.SocialProfile, error)

	GetByIDForUpdate(ctx context.Context, id int64) (*entities.SocialProfile, error)

	Update(ctx context.Context, profile *entities.SocialProfile) (*entities.SocialProfile, error)

	Delete(ctx context.Context, id, ownerID int64) (*entities.SocialProfile, error)
}
