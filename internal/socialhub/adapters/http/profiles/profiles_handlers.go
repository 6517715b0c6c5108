// Package profiles содержит HTTP обработчики профилей соцсетей текущего пользователя.
package profiles

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"socialhub/internal/socialhub/adapters/http/dto"
	"socialhub/internal/socialhub/adapters/http/middleware"
	"socialhub/internal/socialhub/adapters/http/response"
	"socialhub/internal/socialhub/domain/entities"
	"socialhub/internal/socialhub/ports/api"
	"socialhub/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerList   = "profiles handler: list"
	LogHandlerCreate = "profiles handler: create"
	LogHandlerUpdate = "profiles handler: update"
	LogHandlerDelete = "profiles handler: delete"

	ErrorInvalidRequest  = "invalid request"
	ErrorRequestFailed   = "request failed"
	ErrorMissingIdentity = "identity missing in request context"
	DetailInvalidID      = "Profile id must be a positive integer"

	// ParamProfileID - имя параметра маршрута.
	ParamProfileID = "profile_id"
)

// Handler содержит HTTP обработчики профилей.
type Handler struct {
	profiles api.ProfileUseCase
}

// NewHandler создает обработчик профилей.
func NewHandler(profiles api.ProfileUseCase) *Handler {
	return &Handler{profiles: profiles}
}

// List возвращает все профили текущего пользователя.
func (h *Handler) List(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerList)

	owner, ok := middleware.IdentityFrom(ctx)
	if !ok {
		return missingIdentity(ctx, log)
	}

	items, err := h.profiles.List(requestCtx, owner)
	if err != nil {
		return response.Error(ctx, err)
	}

	return send(ctx, http.StatusOK, dto.NewProfileListResponse(items))
}

// Create добавляет профиль текущему пользователю.
func (h *Handler) Create(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreate)

	owner, ok := middleware.IdentityFrom(ctx)
	if !ok {
		return missingIdentity(ctx, log)
	}

	var req dto.CreateProfileRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	created, err := h.profiles.Create(requestCtx, owner, req.ToInput())
	if err != nil {
		log.Debug(requestCtx, ErrorRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	return send(ctx, http.StatusCreated, dto.NewProfileResponse(created))
}

// Update меняет переданные поля профиля.
func (h *Handler) Update(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdate)

	owner, ok := middleware.IdentityFrom(ctx)
	if !ok {
		return missingIdentity(ctx, log)
	}

	profileID, valid := parseProfileID(ctx)
	if !valid {
		return response.Error(ctx, entities.NewValidationError(ParamProfileID, DetailInvalidID))
	}

	var req dto.UpdateProfileRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	updated, err := h.profiles.Update(requestCtx, owner, profileID, req.ToPatch())
	if err != nil {
		log.Debug(requestCtx, ErrorRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	return send(ctx, http.StatusOK, dto.NewProfileResponse(updated))
}

// Delete удаляет профиль и возвращает его последнее состояние.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDelete)

	owner, ok := middleware.IdentityFrom(ctx)
	if !ok {
		return missingIdentity(ctx, log)
	}

	profileID, valid := parseProfileID(ctx)
	if !valid {
		return response.Error(ctx, entities.NewValidationError(ParamProfileID, DetailInvalidID))
	}

	deleted, err := h.profiles.Delete(requestCtx, owner, profileID)
	if err != nil {
		log.Debug(requestCtx, ErrorRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	return send(ctx, http.StatusOK, dto.NewProfileResponse(deleted))
}

// missingIdentity отвечает 500: маршрут зарегистрирован без auth middleware.
func missingIdentity(ctx fiber.Ctx, log *logger.Logger) error {
	log.Error(ctx.Context(), ErrorMissingIdentity)
	return response.Detail(ctx, http.StatusInternalServerError, response.DetailInternal)
}

func parseProfileID(ctx fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Params(ParamProfileID), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func send(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
