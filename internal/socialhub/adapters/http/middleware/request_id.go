// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"socialhub/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware берет идентификатор из заголовка или генерирует новый,
// кладет его в контекст запроса и возвращает клиенту.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		id := ctx.Get(HeaderRequestID)
		if id == "" {
			id = logger.GenerateRequestID()
		}

		ctx.SetContext(logger.NewRequestIDContext(ctx.Context(), id))
		ctx.Set(HeaderRequestID, id)

		return ctx.Next()
	}
}
