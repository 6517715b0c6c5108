package app

import (
	"context"
	"fmt"

	"socialhub/internal/socialhub/domain/entities"
	"socialhub/internal/socialhub/ports/api"
	"socialhub/internal/socialhub/ports/repositories"
	"socialhub/pkg/logger"

	"go.uber.org/zap"
)

const (
	methodFindByField = "FindByField"

	msgResolvingIdentity = "resolving user by unique field"
	msgUnknownUserField  = "lookup by unsupported field"
	msgIdentityNotFound  = "no user matches the field"
	msgMultipleUsers     = "unique field matched more than one user"
	msgErrLookupUser     = "failed to look up user"

	errCtxParsingField   = "parsing lookup field"
	errCtxLookingUpUser  = "looking up user"
	errCtxResolvingMatch = "resolving match"
)

// IdentityResolverImpl реализует api.IdentityResolver поверх UserRepository.
type IdentityResolverImpl struct {
	userRepo repositories.UserRepository
}

// NewIdentityResolver создает резолвер личности.
func NewIdentityResolver(userRepo repositories.UserRepository) api.IdentityResolver {
	return &IdentityResolverImpl{userRepo: userRepo}
}

// FindByField ищет ровно одного пользователя по имени поля.
// Неизвестное поле - ошибка вызывающего, несколько совпадений - нарушение целостности.
func (r *IdentityResolverImpl) FindByField(ctx context.Context, field string, value any) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodFindByField), zap.String("field", field))
	log.Debug(ctx, msgResolvingIdentity)

	userField, err := entities.ParseUserField(field)
	if err != nil {
		log.Error(ctx, msgUnknownUserField, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxParsingField, err)
	}

	users, err := r.userRepo.FindByField(ctx, userField, value)
	if err != nil {
		log.Error(ctx, msgErrLookupUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxLookingUpUser, err)
	}

	switch len(users) {
	case 0:
		log.Debug(ctx, msgIdentityNotFound)
		return nil, fmt.Errorf("%s: %w", errCtxResolvingMatch, entities.ErrUserNotFound)
	case 1:
		return users[0], nil
	default:
		log.Error(ctx, msgMultipleUsers, zap.Int("matches", len(users)))
		return nil, fmt.Errorf("%s: %w", errCtxResolvingMatch, entities.ErrMultipleUsersFound)
	}
}
