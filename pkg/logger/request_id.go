package logger

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// NewRequestIDContext сохраняет идентификатор запроса в контексте.
// Пустой id заменяется сгенерированным.
func NewRequestIDContext(ctx context.Context, id string) context.Context {
	if id == "" {
		id = GenerateRequestID()
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID возвращает идентификатор запроса, если он есть.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// GenerateRequestID возвращает новый UUID v4.
func GenerateRequestID() string {
	return uuid.NewString()
}
