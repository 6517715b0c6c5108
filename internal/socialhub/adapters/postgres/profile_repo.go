package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"socialhub/internal/socialhub/domain/entities"
	"socialhub/internal/socialhub/ports/repositories"
	"socialhub/pkg/logger"
)

const profileColumns = "id, user_id, platform, profile_url, profile_type, created_at, updated_at"

const (
	queryListProfiles = `
        SELECT ` + profileColumns + `
        FROM social_profiles
        WHERE user_id = $1
        ORDER BY id`

	queryCreateProfile = `
        INSERT INTO social_profiles (user_id, platform, profile_url, profile_type)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + profileColumns

	queryLockProfile = `
        SELECT ` + profileColumns + `
        FROM social_profiles
        WHERE id = $1
        FOR UPDATE`

	queryUpdateProfile = `
        UPDATE social_profiles
        SET platform = $3, profile_url = $4, profile_type = $5, updated_at = NOW()
        WHERE id = $1 AND user_id = $2
        RETURNING ` + profileColumns

	queryDeleteProfile = `
        DELETE FROM social_profiles
        WHERE id = $1 AND user_id = $2
        RETURNING ` + profileColumns
)

const (
	errCtxListProfiles  = "error listing social profiles"
	errCtxCreateProfile = "error creating social profile"
	errCtxLockProfile   = "error loading social profile"
	errCtxUpdateProfile = "error updating social profile"
	errCtxDeleteProfile = "error deleting social profile"
)

// ProfileRepository - repositories.ProfileRepository на PostgreSQL.
type ProfileRepository struct {
	pool PgxPoolInterface
}

// NewProfileRepository создает репозиторий профилей.
func NewProfileRepository(pool PgxPoolInterface) repositories.ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func scanProfile(row pgx.Row) (*entities.SocialProfile, error) {
	var p entities.SocialProfile
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Platform,
		&p.ProfileURL,
		&p.ProfileType,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByOwner возвращает профили владельца в порядке создания.
func (r *ProfileRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entities.SocialProfile, error) {
	log := logger.Log(ctx).With(zap.String("repository", "profile"), zap.String("method", "ListByOwner"))

	rows, err := conn(ctx, r.pool).Query(ctx, queryListProfiles, ownerID)
	if err != nil {
		log.Error(ctx, errCtxListProfiles, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListProfiles, err)
	}
	defer rows.Close()

	profiles := make([]*entities.SocialProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			log.Error(ctx, "error scanning profile row", zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxListProfiles, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, errCtxListProfiles, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListProfiles, err)
	}

	log.Debug(ctx, "profiles listed", zap.Int64("ownerID", ownerID), zap.Int("count", len(profiles)))
	return profiles, nil
}

// Create сохраняет профиль. Несуществующий владелец дает entities.ErrIntegrityViolation.
func (r *ProfileRepository) Create(ctx context.Context, profile *entities.SocialProfile) (*entities.SocialProfile, error) {
	log := logger.Log(ctx).With(zap.String("repository", "profile"), zap.String("method", "Create"))

	created, err := scanProfile(conn(ctx, r.pool).QueryRow(ctx, queryCreateProfile,
		profile.UserID,
		profile.Platform,
		profile.ProfileURL,
		profile.ProfileType,
	))
	if err != nil {
		return nil, r.writeError(ctx, log, errCtxCreateProfile, err)
	}

	log.Debug(ctx, "profile created", zap.Int64("profileID", created.ID))
	return created, nil
}

// GetByIDForUpdate читает профиль и блокирует строку до конца транзакции.
func (r *ProfileRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.SocialProfile, error) {
	log := logger.Log(ctx).With(zap.String("repository", "profile"), zap.String("method", "GetByIDForUpdate"))

	profile, err := scanProfile(conn(ctx, r.pool).QueryRow(ctx, queryLockProfile, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "profile not found", zap.Int64("profileID", id))
			return nil, entities.ErrProfileNotFound
		}
		log.Error(ctx, errCtxLockProfile, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxLockProfile, err)
	}
	return profile, nil
}

// Update сохраняет изменяемые поля профиля, если он принадлежит profile.UserID.
func (r *ProfileRepository) Update(ctx context.Context, profile *entities.SocialProfile) (*entities.SocialProfile, error) {
	log := logger.Log(ctx).With(zap.String("repository", "profile"), zap.String("method", "Update"))

	updated, err := scanProfile(conn(ctx, r.pool).QueryRow(ctx, queryUpdateProfile,
		profile.ID,
		profile.UserID,
		profile.Platform,
		profile.ProfileURL,
		profile.ProfileType,
	))
	if err != nil {
		return nil, r.writeError(ctx, log, errCtxUpdateProfile, err)
	}
	return updated, nil
}

// Delete удаляет профиль владельца и возвращает его последнее состояние.
func (r *ProfileRepository) Delete(ctx context.Context, id, ownerID int64) (*entities.SocialProfile, error) {
	log := logger.Log(ctx).With(zap.String("repository", "profile"), zap.String("method", "Delete"))

	deleted, err := scanProfile(conn(ctx, r.pool).QueryRow(ctx, queryDeleteProfile, id, ownerID))
	if err != nil {
		return nil, r.writeError(ctx, log, errCtxDeleteProfile, err)
	}

	log.Debug(ctx, "profile deleted", zap.Int64("profileID", id))
	return deleted, nil
}

func (r *ProfileRepository) writeError(ctx context.Context, log *logger.Logger, errCtx string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return entities.ErrProfileNotFound
	case isForeignKeyViolation(err):
		log.Warn(ctx, "foreign key violated", zap.Error(err))
		return fmt.Errorf("%s: %w", errCtx, entities.ErrIntegrityViolation)
	case isCheckViolation(err):
		return fmt.Errorf("%s: %w", errCtx, entities.ErrInvalidProfileType)
	case isValueTooLong(err):
		return fmt.Errorf("%s: %w", errCtx, entities.ErrValueTooLong)
	default:
		log.Error(ctx, errCtx, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtx, err)
	}
}
