// Package auth содержит HTTP обработчики регистрации, входа и проверки токенов.
package auth

import (
	"fmt"
	"net/http"

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
	LogHandlerRegister      = "auth handler: register"
	LogHandlerLogin         = "auth handler: login"
	LogHandlerRefreshTokens = "auth handler: refresh tokens" // #nosec G101 - not a credential
	LogHandlerMe            = "auth handler: me"

	ErrorInvalidRequest    = "invalid request"
	ErrorRequestFailed     = "request failed"
	ErrorMissingIdentity   = "identity missing in request context"
	DetailRefreshRequired  = "Refresh token is required"
	DetailInvalidBirthDate = "Date of birth must be in YYYY-MM-DD format"
)

// Handler содержит HTTP обработчики для авторизации.
type Handler struct {
	authUseCase api.AuthUseCase
}

// NewHandler создает новый экземпляр обработчика авторизации.
func NewHandler(authUseCase api.AuthUseCase) *Handler {
	return &Handler{authUseCase: authUseCase}
}

// Register регистрирует пользователя и сразу выдает пару токенов.
func (h *Handler) Register(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	registration, err := req.ToRegistration()
	if err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return response.Error(ctx, entities.NewValidationError("date_of_birth", DetailInvalidBirthDate))
	}

	pair, err := h.authUseCase.Register(requestCtx, registration)
	if err != nil {
		log.Debug(requestCtx, ErrorRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.Status(http.StatusCreated).JSON(dto.NewTokenResponse(pair)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Login принимает JSON или форму OAuth2 password, где username - это email.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return response.Error(ctx, err)
	}

	pair, err := h.authUseCase.Login(requestCtx, req.Username, req.Password)
	if err != nil {
		log.Debug(requestCtx, ErrorRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewTokenResponse(pair)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// RefreshTokens выдает новую пару по refresh токену из query ?token= или тела.
func (h *Handler) RefreshTokens(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRefreshTokens)

	token := ctx.Query(dto.RefreshQueryParam)
	if token == "" && len(ctx.Body()) > 0 {
		var req dto.RefreshRequest
		if err := ctx.Bind().JSON(&req); err != nil {
			log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
			return response.Error(ctx, err)
		}
		token = req.RefreshToken
	}
	if token == "" {
		return response.Error(ctx, entities.NewValidationError(dto.RefreshQueryParam, DetailRefreshRequired))
	}

	pair, err := h.authUseCase.RefreshTokens(requestCtx, token)
	if err != nil {
		log.Debug(requestCtx, ErrorRequestFailed, zap.Error(err))
		return response.Error(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.NewTokenResponse(pair)); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Me возвращает id и email владельца access токена.
func (h *Handler) Me(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerMe)

	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		log.Error(requestCtx, ErrorMissingIdentity)
		return response.Detail(ctx, http.StatusInternalServerError, response.DetailInternal)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.UserResponse{ID: identity.ID, Email: identity.Email}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}
