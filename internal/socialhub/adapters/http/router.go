// Package http собирает HTTP сервер SocialHub на fiber.
package http

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socialhub/internal/socialhub/adapters/http/auth"
	"socialhub/internal/socialhub/adapters/http/middleware"
	"socialhub/internal/socialhub/adapters/http/profiles"
	"socialhub/internal/socialhub/adapters/http/response"
	"socialhub/internal/socialhub/adapters/http/system"
	"socialhub/internal/socialhub/adapters/http/validation"
	"socialhub/internal/socialhub/config"
	"socialhub/internal/socialhub/ports/api"
)

// DetailRouteNotFound - ответ для неизвестных маршрутов.
const DetailRouteNotFound = "Not Found"

// Dependencies - все, что нужно маршрутам.
type Dependencies struct {
	Auth     api.AuthUseCase
	Profiles api.ProfileUseCase
	DB       system.Pinger

	// Metrics и Gatherer необязательны: без них /metrics не регистрируется.
	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer
}

// NewApp создает fiber приложение с валидатором и обработчиком ошибок.
func NewApp(cfg *config.HTTPConfig) *fiber.App {
	fc := fiber.Config{
		AppName:         "socialhub",
		StructValidator: validation.New(),
		ErrorHandler:    response.ErrorHandler,
	}
	if cfg != nil {
		fc.ReadTimeout = cfg.ReadTimeout
		fc.WriteTimeout = cfg.WriteTimeout
		fc.IdleTimeout = cfg.IdleTimeout
		fc.BodyLimit = cfg.BodyLimit
	}
	return fiber.New(fc)
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, deps Dependencies) {
	systemHandler := system.NewHandler(deps.DB)
	authHandler := auth.NewHandler(deps.Auth)
	profilesHandler := profiles.NewHandler(deps.Profiles)
	requireAuth := middleware.NewAuthMiddleware(deps.Auth)

	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Handler())
	}

	app.Get("/", systemHandler.Welcome)
	app.Get("/health", systemHandler.Health)
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshTokens)
	authRoutes.Get("/me", authHandler.Me, requireAuth)

	profileRoutes := app.Group("/social_profiles", requireAuth)
	profileRoutes.Get("/", profilesHandler.List)
	profileRoutes.Post("/create", profilesHandler.Create)
	profileRoutes.Put("/:"+profiles.ParamProfileID, profilesHandler.Update)
	profileRoutes.Delete("/:"+profiles.ParamProfileID, profilesHandler.Delete)

	app.Use(func(c fiber.Ctx) error {
		return response.Detail(c, http.StatusNotFound, DetailRouteNotFound)
	})
}
