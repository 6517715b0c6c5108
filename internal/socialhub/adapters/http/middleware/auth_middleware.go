package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"socialhub/internal/socialhub/adapters/http/response"
	"socialhub/internal/socialhub/domain/services"
	"socialhub/internal/socialhub/ports/api"
	"socialhub/pkg/logger"
)

const (
	identityLocalKey = "identity"
	bearerScheme     = "bearer"

	LogAuthMiddleware   = "auth middleware"
	LogNoAuthHeader     = "no bearer credentials provided"
	LogTokenRejected    = "access token rejected"
	LogIdentityVerified = "identity verified"
)

// NewAuthMiddleware проверяет Bearer токен через WhoAmI и сохраняет личность в Locals.
func NewAuthMiddleware(auth api.AuthUseCase) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		token, ok := bearerToken(ctx.Get(fiber.HeaderAuthorization))
		if !ok {
			log.Debug(requestCtx, LogNoAuthHeader)
			ctx.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return response.Detail(ctx, http.StatusUnauthorized, response.DetailNotAuthenticated)
		}

		identity, err := auth.WhoAmI(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, LogTokenRejected, zap.Error(err))
			return response.Error(ctx, err)
		}

		log.Debug(requestCtx, LogIdentityVerified, zap.Int64("userID", identity.ID))
		ctx.Locals(identityLocalKey, *identity)
		return ctx.Next()
	}
}

// IdentityFrom возвращает личность, сохраненную NewAuthMiddleware.
func IdentityFrom(ctx fiber.Ctx) (services.Identity, bool) {
	identity, ok := ctx.Locals(identityLocalKey).(services.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
