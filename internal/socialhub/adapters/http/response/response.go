// Package response приводит ошибки приложения к HTTP ответам вида {"detail": "..."}.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"socialhub/internal/socialhub/domain/entities"
	"socialhub/internal/socialhub/domain/services"
	"socialhub/pkg/logger"
)

// Тексты ответов клиенту.
const (
	DetailInvalidCredentials = "Incorrect email or password"
	DetailCannotValidate     = "Could not validate user"
	DetailNoTokenSupplied    = "No access token supplied"
	DetailTokenExpired       = "Token expired!"
	DetailInvalidToken       = "Invalid token"
	DetailProfileNotFound    = "Profile not found"
	DetailUserNotFound       = "User not found"
	DetailIntegrity          = "Integrity constraint violated"
	DetailTooManyAttempts    = "Too many failed login attempts, try again later"
	DetailNotAuthenticated   = "Not authenticated"
	DetailInternal           = "Internal Server Error"
)

// DetailInvalidProfileType перечисляет допустимые типы профиля.
var DetailInvalidProfileType = "Invalid profile type. Valid options are: " + strings.Join(entities.ProfileTypes, ", ")

const msgUnhandledError = "unhandled error"

// ErrorBody - тело ответа с ошибкой.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Classify возвращает HTTP статус и текст для ошибки.
func Classify(err error) (int, string) {
	var (
		validationErr *entities.ValidationError
		duplicateErr  *entities.DuplicateFieldError
		fieldErrs     validator.ValidationErrors
		fiberErr      *fiber.Error
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, validationErr.Message
	case errors.As(err, &fieldErrs):
		return http.StatusUnprocessableEntity, describeFieldErrors(fieldErrs)
	case errors.Is(err, entities.ErrInvalidProfileType):
		return http.StatusUnprocessableEntity, DetailInvalidProfileType
	case errors.Is(err, entities.ErrPlatformTooShort):
		return http.StatusUnprocessableEntity, capitalize(entities.ErrPlatformTooShort.Error())
	case errors.Is(err, entities.ErrInvalidProfileURL):
		return http.StatusUnprocessableEntity, capitalize(entities.ErrInvalidProfileURL.Error())
	case errors.Is(err, entities.ErrValueTooLong):
		return http.StatusUnprocessableEntity, capitalize(entities.ErrValueTooLong.Error())
	case errors.As(err, &duplicateErr):
		return http.StatusBadRequest, duplicateErr.Detail()
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusBadRequest, DetailInvalidCredentials
	case errors.Is(err, services.ErrCannotValidate):
		return http.StatusUnauthorized, DetailCannotValidate
	case errors.Is(err, services.ErrNoTokenSupplied):
		return http.StatusBadRequest, DetailNoTokenSupplied
	case errors.Is(err, services.ErrTokenExpired):
		return http.StatusForbidden, DetailTokenExpired
	case errors.Is(err, services.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, DetailInvalidToken
	case errors.Is(err, services.ErrTooManyLoginAttempts):
		return http.StatusTooManyRequests, DetailTooManyAttempts
	case errors.Is(err, entities.ErrProfileNotFound):
		return http.StatusNotFound, DetailProfileNotFound
	case errors.Is(err, entities.ErrOwnerNotFound):
		return http.StatusNotFound, DetailUserNotFound
	case errors.Is(err, entities.ErrIntegrityViolation):
		return http.StatusConflict, DetailIntegrity
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	default:
		return http.StatusInternalServerError, DetailInternal
	}
}

// Error пишет ответ для err. Ошибки 5xx логируются целиком, клиент видит общий текст.
func Error(c fiber.Ctx, err error) error {
	status, detail := Classify(err)
	if status >= http.StatusInternalServerError {
		ctx := c.Context()
		logger.Log(ctx).Error(ctx, msgUnhandledError, zap.Error(err), zap.String("path", c.Path()))
	}
	if status == http.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return Detail(c, status, detail)
}

// Detail пишет {"detail": detail} со статусом status.
func Detail(c fiber.Ctx, status int, detail string) error {
	if err := c.Status(status).JSON(ErrorBody{Detail: detail}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ErrorHandler - fiber.ErrorHandler для ошибок, которые обработчики вернули наверх.
func ErrorHandler(c fiber.Ctx, err error) error {
	return Error(c, err)
}

func describeFieldErrors(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "invalid request"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: field required", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s: expected date in format %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s: failed on %q validation", fe.Field(), fe.Tag())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
