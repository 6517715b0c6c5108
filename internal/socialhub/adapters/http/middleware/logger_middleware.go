package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"socialhub/internal/socialhub/adapters/http/response"
	"socialhub/pkg/logger"
)

// Сообщения журнала запросов.
const (
	LogRequestStarted   = "request started"
	LogRequestCompleted = "request completed"
	LogRequestFailed    = "request failed"
)

// NewLoggerMiddleware пишет в журнал начало и итог каждого запроса.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		start := time.Now()

		log := logger.Log(requestCtx).With(
			zap.String("path", ctx.Path()),
			zap.String("http_method", ctx.Method()),
			zap.String("ip", ctx.IP()),
		)
		log.Debug(requestCtx, LogRequestStarted)

		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			status, _ = response.Classify(err)
		}

		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}

		if err != nil {
			log.Warn(requestCtx, LogRequestFailed, append(fields, zap.Error(err))...)
			return fmt.Errorf("request processing error: %w", err)
		}

		log.Info(requestCtx, LogRequestCompleted, fields...)
		return nil
	}
}
