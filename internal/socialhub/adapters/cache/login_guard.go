package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"socialhub/internal/socialhub/ports/services"
	"socialhub/pkg/logger"
)

const (
	loginAttemptsPrefix = "login_attempts:"

	msgGuardUnavailable = "login guard unavailable, allowing attempt"
	msgAttemptsExceeded = "login attempts exceeded"

	errCtxRegisterFailure = "failed to register login failure"
	errCtxResetAttempts   = "failed to reset login attempts"
)

// RedisLoginGuard считает неудачные входы в Redis в скользящем окне.
// Окно начинается с первой неудачи и не продлевается последующими.
// Счетчик ведется по идентификатору как есть, так же как ищется пользователь.
type RedisLoginGuard struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

// NewRedisLoginGuard создает ограничитель попыток входа.
func NewRedisLoginGuard(client redis.Cmdable, maxAttempts int64, window time.Duration) services.LoginGuard {
	return &RedisLoginGuard{client: client, maxAttempts: maxAttempts, window: window}
}

func attemptsKey(identifier string) string {
	return loginAttemptsPrefix + identifier
}

// Allow сообщает, можно ли пытаться войти. При недоступности Redis вход разрешается.
func (g *RedisLoginGuard) Allow(ctx context.Context, identifier string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", "Allow"))

	count, err := g.client.Get(ctx, attemptsKey(identifier)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return true, nil
	case err != nil:
		log.Warn(ctx, msgGuardUnavailable, zap.Error(err))
		return true, nil
	}

	if count >= g.maxAttempts {
		log.Info(ctx, msgAttemptsExceeded, zap.Int64("attempts", count))
		return false, nil
	}
	return true, nil
}

// RegisterFailure увеличивает счетчик неудач. Ключ создается вместе со сроком жизни
// в одной транзакции MULTI/EXEC, поэтому счетчик без TTL не появляется.
func (g *RedisLoginGuard) RegisterFailure(ctx context.Context, identifier string) error {
	key := attemptsKey(identifier)

	_, err := g.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, g.window)
		pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxRegisterFailure, err)
	}
	return nil
}

// Reset сбрасывает счетчик после успешного входа.
func (g *RedisLoginGuard) Reset(ctx context.Context, identifier string) error {
	if err := g.client.Del(ctx, attemptsKey(identifier)).Err(); err != nil {
		return fmt.Errorf("%s: %w", errCtxResetAttempts, err)
	}
	return nil
}

// NoopLoginGuard используется, когда ограничение выключено.
type NoopLoginGuard struct{}

// NewNoopLoginGuard возвращает ограничитель, который всегда разрешает вход.
func NewNoopLoginGuard() services.LoginGuard {
	return NoopLoginGuard{}
}

// Allow всегда разрешает.
func (NoopLoginGuard) Allow(context.Context, string) (bool, error) { return true, nil }

// RegisterFailure ничего не делает.
func (NoopLoginGuard) RegisterFailure(context.Context, string) error { return nil }

// Reset ничего не делает.
func (NoopLoginGuard) Reset(context.Context, string) error { return nil }
