// Package shutdown реализует корректное завершение процесса по SIGINT/SIGTERM.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"socialhub/pkg/logger"
)

// Hook - действие, выполняемое при остановке.
type Hook func(context.Context) error

const (
	msgSignalReceived = "shutdown signal received"
	msgContextDone    = "parent context cancelled, shutting down"
	msgHookFailed     = "shutdown hook failed"
	msgHooksTimedOut  = "shutdown hooks did not finish before timeout"
	msgShutdownDone   = "shutdown hooks finished"
)

// Wait блокируется до SIGINT/SIGTERM или отмены ctx, затем параллельно
// выполняет хуки, отводя им не больше timeout.
func Wait(ctx context.Context, timeout time.Duration, hooks ...Hook) {
	log := logger.Log(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info(ctx, msgSignalReceived, zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info(ctx, msgContextDone)
	}

	hookCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var wg sync.WaitGroup
	for i, hook := range hooks {
		wg.Add(1)
		go func(idx int, fn Hook) {
			defer wg.Done()
			if err := fn(hookCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error(hookCtx, msgHookFailed, zap.Int("hook", idx), zap.Error(err))
			}
		}(i, hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(ctx, msgShutdownDone)
	case <-hookCtx.Done():
		log.Warn(ctx, msgHooksTimedOut, zap.Duration("timeout", timeout))
	}
}
