// Package logger оборачивает zap и привязывает логгер и идентификатор запроса к context.Context.
package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment определяет профиль логирования.
type Environment string

// Поддерживаемые окружения.
const (
	Development Environment = "development"
	Production  Environment = "production"
)

// RequestID - имя поля с идентификатором запроса в записях лога.
const RequestID = "request_id"

// Logger - тонкая обертка над *zap.Logger, добавляющая request_id из контекста.
type Logger struct {
	l *zap.Logger
}

// ParseEnvironment приводит строку из конфигурации к Environment.
// Неизвестные значения трактуются как production.
func ParseEnvironment(value string) Environment {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "development", "local":
		return Development
	default:
		return Production
	}
}

// NewLogger создает логгер для окружения env с уровнем level.
// Пустой или неизвестный level означает уровень окружения по умолчанию.
func NewLogger(env Environment, level string) (*Logger, error) {
	var cfg zap.Config
	if env == Development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if lvl, ok := parseLevel(level); ok {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return &Logger{l: zl}, nil
}

// NewFromZap оборачивает уже сконфигурированный *zap.Logger.
func NewFromZap(zl *zap.Logger) *Logger {
	return &Logger{l: zl}
}

func parseLevel(level string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// With возвращает дочерний логгер с дополнительными полями.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{l: l.l.With(fields...)}
}

// Debug пишет запись уровня debug.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, withRequestID(ctx, fields)...)
}

// Info пишет запись уровня info.
func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, withRequestID(ctx, fields)...)
}

// Warn пишет запись уровня warn.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, withRequestID(ctx, fields)...)
}

// Error пишет запись уровня error.
func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, withRequestID(ctx, fields)...)
}

// Fatal пишет запись и завершает процесс.
func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Fatal(msg, withRequestID(ctx, fields)...)
}

// Sync сбрасывает буферы zap.
func (l *Logger) Sync() error {
	if err := l.l.Sync(); err != nil {
		return fmt.Errorf("sync zap logger: %w", err)
	}
	return nil
}

func withRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	if id, ok := GetRequestID(ctx); ok {
		return append(fields, zap.String(RequestID, id))
	}
	return fields
}
