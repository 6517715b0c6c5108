// Package system содержит служебные обработчики: приветствие и проверку готовности.
package system

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"socialhub/internal/socialhub/adapters/http/response"
	"socialhub/pkg/logger"
)

const (
	healthCheckTimeout = 2 * time.Second

	ProjectName   = "SocialHub"
	ProjectAuthor = "Kornev Stepan"
	ProjectRepo   = "https://github.com/stepkacorporation/SocialHub.git"

	DetailDatabaseUnavailable = "database unavailable"
	LogHealthCheckFailed      = "health check failed"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler содержит служебные обработчики.
type Handler struct {
	db Pinger
}

// NewHandler создает служебный обработчик. db может быть nil.
func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

// Welcome возвращает сведения о проекте.
func (h *Handler) Welcome(ctx fiber.Ctx) error {
	if err := ctx.JSON(fiber.Map{
		"project": ProjectName,
		"author":  ProjectAuthor,
		"GitHub":  ProjectRepo,
	}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Health отвечает 200, если база данных доступна, иначе 503.
func (h *Handler) Health(ctx fiber.Ctx) error {
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.db.Ping(pingCtx); err != nil {
			logger.Log(pingCtx).Warn(pingCtx, LogHealthCheckFailed, zap.Error(err))
			return response.Detail(ctx, http.StatusServiceUnavailable, DetailDatabaseUnavailable)
		}
	}

	if err := ctx.JSON(fiber.Map{"status": "ok"}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
