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

const userColumns = "id, email, username, password_hash, phone_number, date_of_birth, created_at, updated_at"

const (
	queryCreateUser = `
        INSERT INTO users (email, username, password_hash, phone_number, date_of_birth)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + userColumns

	// %s заменяется именем колонки только из entities.UserField.Column.
	queryFindUsersByField = `
        SELECT ` + userColumns + `
        FROM users
        WHERE %s = $1
        ORDER BY id
        LIMIT 2`

	queryUpdateUser = `
        UPDATE users
        SET email = $2, username = $3, password_hash = $4, phone_number = $5,
            date_of_birth = $6, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + userColumns

	queryDeleteUser = `DELETE FROM users WHERE id = $1`
)

const (
	errCtxCreateUser      = "error creating user"
	errCtxFindUserByField = "error querying users by field"
	errCtxUpdateUser      = "error updating user"
	errCtxDeleteUser      = "error deleting user"
)

// UserRepository - repositories.UserRepository на PostgreSQL.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.PhoneNumber,
		&u.DateOfBirth,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create сохраняет пользователя. Нарушение уникальности возвращается как *entities.DuplicateFieldError.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	created, err := scanUser(conn(ctx, r.pool).QueryRow(ctx, queryCreateUser,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.PhoneNumber,
		user.DateOfBirth,
	))
	if err != nil {
		if dup, ok := duplicateField(err); ok {
			log.Debug(ctx, "unique constraint violated", zap.String("field", string(dup.Field)))
			return nil, fmt.Errorf("%s: %w", errCtxCreateUser, dup)
		}
		if isValueTooLong(err) {
			log.Debug(ctx, "value exceeds column limit", zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxCreateUser, entities.ErrValueTooLong)
		}
		log.Error(ctx, errCtxCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreateUser, err)
	}

	log.Debug(ctx, "user created", zap.Int64("userID", created.ID))
	return created, nil
}

// FindByField возвращает до двух пользователей с заданным значением поля.
func (r *UserRepository) FindByField(ctx context.Context, field entities.UserField, value any) ([]*entities.User, error) {
	log := logger.Log(ctx).With(
		zap.String("repository", "user"),
		zap.String("method", "FindByField"),
		zap.String("field", string(field)),
	)

	column, ok := field.Column()
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", errCtxFindUserByField, entities.ErrInvalidUserField, field)
	}

	rows, err := conn(ctx, r.pool).Query(ctx, fmt.Sprintf(queryFindUsersByField, column), value)
	if err != nil {
		log.Error(ctx, errCtxFindUserByField, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindUserByField, err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0, 1)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Error(ctx, "error scanning user row", zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxFindUserByField, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, errCtxFindUserByField, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindUserByField, err)
	}

	return users, nil
}

// Update перезаписывает изменяемые поля пользователя.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Update"))

	updated, err := scanUser(conn(ctx, r.pool).QueryRow(ctx, queryUpdateUser,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.PhoneNumber,
		user.DateOfBirth,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		if dup, ok := duplicateField(err); ok {
			return nil, fmt.Errorf("%s: %w", errCtxUpdateUser, dup)
		}
		if isValueTooLong(err) {
			return nil, fmt.Errorf("%s: %w", errCtxUpdateUser, entities.ErrValueTooLong)
		}
		log.Error(ctx, errCtxUpdateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdateUser, err)
	}
	return updated, nil
}

// Delete удаляет пользователя вместе с его профилями (ON DELETE CASCADE).
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Delete"))

	tag, err := conn(ctx, r.pool).Exec(ctx, queryDeleteUser, id)
	if err != nil {
		log.Error(ctx, errCtxDeleteUser, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeleteUser, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}
