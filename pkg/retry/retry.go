// Package retry повторяет операцию с экспоненциальной задержкой.
// Используется при старте, пока PostgreSQL и Redis поднимаются рядом с сервисом.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"socialhub/pkg/logger"
)

// ErrCanceled - контекст отменен во время ожидания следующей попытки.
var ErrCanceled = errors.New("retry canceled")

const (
	msgAttemptFailed = "attempt failed, retrying"
	msgSucceeded     = "operation succeeded after retries"
	msgGaveUp        = "giving up after max attempts"
)

// Policy - параметры повторов. Нулевые поля заменяются значениями Default.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Factor         float64
	// Retryable решает, стоит ли повторять. nil означает "все, кроме отмены контекста".
	Retryable func(error) bool
}

// Default - политика по умолчанию.
func Default() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		Factor:         2,
	}
}

func (p Policy) withDefaults() Policy {
	d := Default()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = d.InitialBackoff
	}
	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = p.InitialBackoff
	}
	if p.Factor < 1 {
		p.Factor = d.Factor
	}
	if p.Retryable == nil {
		p.Retryable = notCanceled
	}
	return p
}

func notCanceled(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Do вызывает op, пока она не вернет nil, неповторяемую ошибку или не кончатся попытки.
// Возвращается последняя ошибка op.
func Do(ctx context.Context, name string, policy Policy, op func(ctx context.Context) error) error {
	policy = policy.withDefaults()
	log := logger.Log(ctx).With(zap.String("operation", name))

	backoff := policy.InitialBackoff
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				log.Info(ctx, msgSucceeded, zap.Int("attempts", attempt))
			}
			return nil
		}
		if !policy.Retryable(err) {
			return err
		}
		if attempt >= policy.MaxAttempts {
			log.Warn(ctx, msgGaveUp, zap.Int("attempts", attempt), zap.Error(err))
			return err
		}

		log.Info(ctx, msgAttemptFailed,
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w after %d attempts: %w", ErrCanceled, attempt, errors.Join(ctx.Err(), err))
		}

		backoff = min(time.Duration(float64(backoff)*policy.Factor), policy.MaxBackoff)
	}
}
