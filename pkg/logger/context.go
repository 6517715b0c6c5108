package logger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Ошибки пакета.
var (
	ErrLoggerNotFound   = errors.New("logger not found in context")
	ErrInitGlobalLogger = errors.New("failed to initialize global logger")
)

var (
	globalMu sync.RWMutex
	global   *Logger
	fallback *Logger
)

type ctxKey struct{}

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	zl, err := cfg.Build()
	if err != nil {
		zl = zap.NewNop()
	}
	fallback = &Logger{l: zl.With(zap.String("logger", "fallback"))}
}

// NewContext кладет логгер в контекст.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext достает логгер из контекста.
func FromContext(ctx context.Context) (*Logger, error) {
	if ctx == nil {
		return nil, fmt.Errorf("nil context: %w", ErrLoggerNotFound)
	}
	l, ok := ctx.Value(ctxKey{}).(*Logger)
	if !ok || l == nil {
		return nil, fmt.Errorf("context lookup: %w", ErrLoggerNotFound)
	}
	return l, nil
}

// InitGlobalLoggerWithLevel создает глобальный логгер, если он еще не задан.
func InitGlobalLoggerWithLevel(env Environment, level string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global != nil {
		return nil
	}

	l, err := NewLogger(env, level)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitGlobalLogger, err)
	}
	global = l
	return nil
}

// SetGlobalLogger заменяет глобальный логгер. nil сбрасывает его.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	global = l
	globalMu.Unlock()
}

// Log возвращает логгер из контекста, затем глобальный, затем резервный.
func Log(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
			return l
		}
	}

	globalMu.RLock()
	defer globalMu.RUnlock()
	if global != nil {
		return global
	}
	return fallback
}
