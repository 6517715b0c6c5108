package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"socialhub/internal/socialhub/adapters/http/response"
	"socialhub/pkg/logger"
)

// NewRecoveryMiddleware перехватывает панику обработчика и отвечает 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		requestCtx := ctx.Context()

		defer func() {
			if r := recover(); r != nil {
				log := logger.Log(requestCtx)
				log.Error(requestCtx, "server panic",
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)
				err = response.Detail(ctx, http.StatusInternalServerError, response.DetailInternal)
			}
		}()

		return ctx.Next()
	}
}
