package api

import (
	"context"

	"socialhub/internal/socialhub/domain/entities"
	"socialhub/internal/socialhub/domain/services"
)

// ProfileUseCase - операции над профилями в рамках владельца.
type ProfileUseCase interface {
	List(ctx context.Context, owner services.Identity) ([]*entities.SocialProfile, error)

	Create(ctx context.Context, owner services.Identity, input entities.SocialProfileInput) (*entities.SocialProfile, error)

	Update(ctx context.Context, owner services.Identity, profileID int64, patch entities.SocialProfilePatch) (*entities.SocialProfile, error)

	Delete(ctx context.Context, owner services.Identity, profileID int64) (*entities.SocialProfile, error)
}
