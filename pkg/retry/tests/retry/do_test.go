package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/pkg/retry"
)

var errTransient = errors.New("connection refused")

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Factor:         2,
	}
}

func TestDo(t *testing.T) {
	t.Run("success - first attempt", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), "op", fastPolicy(3), func(context.Context) error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("success - after transient failures", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), "op", fastPolicy(5), func(context.Context) error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("error - attempts exhausted", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), "op", fastPolicy(4), func(context.Context) error {
			calls++
			return errTransient
		})

		require.ErrorIs(t, err, errTransient)
		assert.Equal(t, 4, calls)
	})

	t.Run("error - not retryable", func(t *testing.T) {
		permanent := errors.New("password authentication failed")
		policy := fastPolicy(5)
		policy.Retryable = func(err error) bool { return !errors.Is(err, permanent) }

		calls := 0
		err := retry.Do(context.Background(), "op", policy, func(context.Context) error {
			calls++
			return permanent
		})

		require.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("error - context canceled while waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		policy := retry.Policy{MaxAttempts: 10, InitialBackoff: time.Hour}

		err := retry.Do(ctx, "op", policy, func(context.Context) error {
			cancel()
			return errTransient
		})

		require.ErrorIs(t, err, retry.ErrCanceled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, errTransient)
	})

	t.Run("success - zero policy uses defaults", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), "op", retry.Policy{}, func(context.Context) error {
			calls++
			if calls == 1 {
				return errTransient
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}
