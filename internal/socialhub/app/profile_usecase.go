package app

import (
	"context"
	"errors"
	"fmt"

	"socialhub/internal/socialhub/domain/entities"
	"socialhub/internal/socialhub/domain/services"
	"socialhub/internal/socialhub/ports/api"
	"socialhub/internal/socialhub/ports/repositories"
	"socialhub/pkg/logger"

	"go.uber.org/zap"
)

const (
	methodListProfiles  = "ListProfiles"
	methodCreateProfile = "CreateProfile"
	methodUpdateProfile = "UpdateProfile"
	methodDeleteProfile = "DeleteProfile"

	msgListingProfiles   = "listing social profiles"
	msgCreatingProfile   = "creating social profile"
	msgProfileCreated    = "social profile created"
	msgUpdatingProfile   = "updating social profile"
	msgProfileUpdated    = "social profile updated"
	msgDeletingProfile   = "deleting social profile"
	msgProfileDeleted    = "social profile deleted"
	msgOwnerMismatch     = "token identity does not resolve to its owner"
	msgProfileNotOwned   = "social profile missing or owned by another user"
	msgProfileInputError = "social profile input rejected"

	msgErrListProfiles  = "failed to list social profiles"
	msgErrResolveOwner  = "failed to resolve profile owner"
	msgErrCreateProfile = "failed to create social profile"
	msgErrUpdateProfile = "failed to update social profile"
	msgErrDeleteProfile = "failed to delete social profile"

	errCtxListingProfiles  = "listing profiles"
	errCtxResolvingOwner   = "resolving owner"
	errCtxNormalizingInput = "normalizing profile input"
	errCtxCreatingProfile  = "creating profile"
	errCtxLoadingProfile   = "loading profile"
	errCtxUpdatingProfile  = "updating profile"
	errCtxDeletingProfile  = "deleting profile"
)

// ProfileUseCaseImpl реализует api.ProfileUseCase.
type ProfileUseCaseImpl struct {
	profileRepo repositories.ProfileRepository
	transactor  repositories.Transactor
	resolver    api.IdentityResolver
}

// NewProfileUseCase создает сервис профилей.
func NewProfileUseCase(
	profileRepo repositories.ProfileRepository,
	transactor repositories.Transactor,
	resolver api.IdentityResolver,
) api.ProfileUseCase {
	return &ProfileUseCaseImpl{
		profileRepo: profileRepo,
		transactor:  transactor,
		resolver:    resolver,
	}
}

// List возвращает профили владельца в порядке id.
func (p *ProfileUseCaseImpl) List(ctx context.Context, owner services.Identity) ([]*entities.SocialProfile, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListProfiles), zap.Int64("userID", owner.ID))
	log.Debug(ctx, msgListingProfiles)

	profiles, err := p.profileRepo.ListByOwner(ctx, owner.ID)
	if err != nil {
		log.Error(ctx, msgErrListProfiles, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingProfiles, err)
	}
	return profiles, nil
}

// Create добавляет профиль владельцу после повторной проверки личности.
func (p *ProfileUseCaseImpl) Create(
	ctx context.Context,
	owner services.Identity,
	input entities.SocialProfileInput,
) (*entities.SocialProfile, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreateProfile), zap.Int64("userID", owner.ID))
	log.Debug(ctx, msgCreatingProfile)

	ownerID, err := p.resolveOwner(ctx, log, owner)
	if err != nil {
		return nil, err
	}

	normalized, err := input.Normalize()
	if err != nil {
		log.Debug(ctx, msgProfileInputError, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxNormalizingInput, err)
	}

	created, err := p.profileRepo.Create(ctx, &entities.SocialProfile{
		UserID:      ownerID,
		Platform:    normalized.Platform,
		ProfileURL:  normalized.ProfileURL,
		ProfileType: normalized.ProfileType,
	})
	if err != nil {
		log.Error(ctx, msgErrCreateProfile, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingProfile, err)
	}

	log.Info(ctx, msgProfileCreated, zap.Int64("profileID", created.ID))
	return created, nil
}

// Update применяет к профилю только переданные поля.
// Чужой профиль неотличим от отсутствующего.
func (p *ProfileUseCaseImpl) Update(
	ctx context.Context,
	owner services.Identity,
	profileID int64,
	patch entities.SocialProfilePatch,
) (*entities.SocialProfile, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodUpdateProfile),
		zap.Int64("userID", owner.ID),
		zap.Int64("profileID", profileID),
	)
	log.Debug(ctx, msgUpdatingProfile)

	ownerID, err := p.resolveOwner(ctx, log, owner)
	if err != nil {
		return nil, err
	}

	var updated *entities.SocialProfile
	err = p.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := p.loadOwned(ctx, log, profileID, ownerID)
		if err != nil {
			return err
		}

		if patch.IsEmpty() {
			updated = current
			return nil
		}

		next, err := patch.Apply(*current)
		if err != nil {
			log.Debug(ctx, msgProfileInputError, zap.Error(err))
			return fmt.Errorf("%s: %w", errCtxNormalizingInput, err)
		}

		saved, err := p.profileRepo.Update(ctx, &next)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxUpdatingProfile, err)
		}
		updated = saved
		return nil
	})
	if err != nil {
		if !isClientProfileError(err) {
			log.Error(ctx, msgErrUpdateProfile, zap.Error(err))
		}
		return nil, err
	}

	log.Info(ctx, msgProfileUpdated)
	return updated, nil
}

// Delete удаляет профиль владельца и возвращает его последнее состояние.
func (p *ProfileUseCaseImpl) Delete(
	ctx context.Context,
	owner services.Identity,
	profileID int64,
) (*entities.SocialProfile, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodDeleteProfile),
		zap.Int64("userID", owner.ID),
		zap.Int64("profileID", profileID),
	)
	log.Debug(ctx, msgDeletingProfile)

	ownerID, err := p.resolveOwner(ctx, log, owner)
	if err != nil {
		return nil, err
	}

	var deleted *entities.SocialProfile
	err = p.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := p.loadOwned(ctx, log, profileID, ownerID); err != nil {
			return err
		}

		removed, err := p.profileRepo.Delete(ctx, profileID, ownerID)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxDeletingProfile, err)
		}
		deleted = removed
		return nil
	})
	if err != nil {
		if !isClientProfileError(err) {
			log.Error(ctx, msgErrDeleteProfile, zap.Error(err))
		}
		return nil, err
	}

	log.Info(ctx, msgProfileDeleted)
	return deleted, nil
}

// resolveOwner заново находит пользователя по email из токена.
// Удаленный пользователь или несовпадение id дают ErrOwnerNotFound.
func (p *ProfileUseCaseImpl) resolveOwner(ctx context.Context, log *logger.Logger, owner services.Identity) (int64, error) {
	user, err := p.resolver.FindByField(ctx, string(entities.UserFieldEmail), owner.Email)
	switch {
	case errors.Is(err, entities.ErrUserNotFound):
		log.Debug(ctx, msgOwnerMismatch)
		return 0, fmt.Errorf("%s: %w", errCtxResolvingOwner, entities.ErrOwnerNotFound)
	case err != nil:
		log.Error(ctx, msgErrResolveOwner, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", errCtxResolvingOwner, err)
	case user.ID != owner.ID:
		log.Debug(ctx, msgOwnerMismatch, zap.Int64("resolvedID", user.ID))
		return 0, fmt.Errorf("%s: %w", errCtxResolvingOwner, entities.ErrOwnerNotFound)
	}
	return user.ID, nil
}

func (p *ProfileUseCaseImpl) loadOwned(
	ctx context.Context,
	log *logger.Logger,
	profileID, ownerID int64,
) (*entities.SocialProfile, error) {
	profile, err := p.profileRepo.GetByIDForUpdate(ctx, profileID)
	if err != nil {
		if errors.Is(err, entities.ErrProfileNotFound) {
			log.Debug(ctx, msgProfileNotOwned)
		}
		return nil, fmt.Errorf("%s: %w", errCtxLoadingProfile, err)
	}
	if profile.UserID != ownerID {
		log.Debug(ctx, msgProfileNotOwned)
		return nil, fmt.Errorf("%s: %w", errCtxLoadingProfile, entities.ErrProfileNotFound)
	}
	return profile, nil
}

func isClientProfileError(err error) bool {
	return errors.Is(err, entities.ErrProfileNotFound) ||
		errors.Is(err, entities.ErrPlatformTooShort) ||
		errors.Is(err, entities.ErrInvalidProfileURL) ||
		errors.Is(err, entities.ErrInvalidProfileType) ||
		errors.Is(err, entities.ErrValueTooLong)
}
