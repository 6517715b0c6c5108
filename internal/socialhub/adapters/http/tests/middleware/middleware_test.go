package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "socialhub/internal/socialhub/adapters/http"
	"socialhub/internal/socialhub/adapters/http/middleware"
	"socialhub/internal/socialhub/domain/services"
	"socialhub/pkg/logger"
)

// stubAuth принимает только токен "good".
type stubAuth struct{}

func (stubAuth) Register(context.Context, services.Registration) (*services.TokenPair, error) {
	return nil, services.ErrTokenGenerationFailed
}

func (stubAuth) Login(context.Context, string, string) (*services.TokenPair, error) {
	return nil, services.ErrInvalidCredentials
}

func (stubAuth) RefreshTokens(context.Context, string) (*services.TokenPair, error) {
	return nil, services.ErrInvalidRefreshToken
}

func (stubAuth) WhoAmI(_ context.Context, token string) (*services.Identity, error) {
	if token != "good" {
		return nil, services.ErrCannotValidate
	}
	return &services.Identity{ID: 42, Email: "jane@example.com"}, nil
}

func perform(t *testing.T, app *fiber.App, method, target string, headers ...string) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(raw)
}

func TestRequestIDMiddleware(t *testing.T) {
	app := httpapi.NewApp(nil)
	app.Use(middleware.NewRequestIDMiddleware())
	app.Get("/echo", func(ctx fiber.Ctx) error {
		id, _ := logger.GetRequestID(ctx.Context())
		return ctx.SendString(id)
	})

	t.Run("success - incoming id is kept", func(t *testing.T) {
		resp, body := perform(t, app, http.MethodGet, "/echo", middleware.HeaderRequestID, "req-123")

		assert.Equal(t, "req-123", resp.Header.Get(middleware.HeaderRequestID))
		assert.Equal(t, "req-123", body)
	})

	t.Run("success - id generated when absent", func(t *testing.T) {
		resp, body := perform(t, app, http.MethodGet, "/echo")

		generated := resp.Header.Get(middleware.HeaderRequestID)
		assert.Len(t, generated, 36)
		assert.Equal(t, generated, body)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	app := httpapi.NewApp(nil)
	app.Use(middleware.NewRecoveryMiddleware())
	app.Get("/panic", func(fiber.Ctx) error {
		panic("boom")
	})

	resp, body := perform(t, app, http.MethodGet, "/panic")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"detail": "Internal Server Error"}`, body)
}

func TestAuthMiddleware(t *testing.T) {
	app := httpapi.NewApp(nil)
	app.Get("/private", func(ctx fiber.Ctx) error {
		identity, ok := middleware.IdentityFrom(ctx)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return ctx.SendString(identity.Email)
	}, middleware.NewAuthMiddleware(stubAuth{}))

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success - bearer accepted",
			header:         "Bearer good",
			expectedStatus: http.StatusOK,
			expectedBody:   "jane@example.com",
		},
		{
			name:           "success - scheme is case insensitive",
			header:         "bearer good",
			expectedStatus: http.StatusOK,
			expectedBody:   "jane@example.com",
		},
		{
			name:           "error - empty header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"detail":"Not authenticated"}`,
		},
		{
			name:           "error - empty token",
			header:         "Bearer   ",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"detail":"Not authenticated"}`,
		},
		{
			name:           "error - rejected token",
			header:         "Bearer bad",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"detail":"Could not validate user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []string
			if tt.header != "" {
				headers = []string{fiber.HeaderAuthorization, tt.header}
			}

			resp, body := perform(t, app, http.MethodGet, "/private", headers...)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedBody, body)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate))
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := middleware.NewMetrics(reg)
	require.NoError(t, err)

	app := httpapi.NewApp(nil)
	httpapi.SetupRouter(app, httpapi.Dependencies{
		Auth:     stubAuth{},
		Metrics:  metrics,
		Gatherer: reg,
	})

	perform(t, app, http.MethodGet, "/")
	perform(t, app, http.MethodGet, "/")
	perform(t, app, http.MethodGet, "/auth/me", fiber.HeaderAuthorization, "Bearer bad")

	t.Run("success - requests counted by route", func(t *testing.T) {
		expected := `
# HELP socialhub_http_requests_total Total number of HTTP requests
# TYPE socialhub_http_requests_total counter
socialhub_http_requests_total{method="GET",path="/",status="200"} 2
socialhub_http_requests_total{method="GET",path="/auth/me",status="401"} 1
`
		assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "socialhub_http_requests_total"))
	})

	t.Run("success - in flight gauge returns to zero", func(t *testing.T) {
		assert.Equal(t, 1, testutil.CollectAndCount(reg, "socialhub_http_requests_in_flight"))
		assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP socialhub_http_requests_in_flight Number of HTTP requests being served
# TYPE socialhub_http_requests_in_flight gauge
socialhub_http_requests_in_flight 0
`), "socialhub_http_requests_in_flight"))
	})

	t.Run("success - metrics endpoint exposed", func(t *testing.T) {
		resp, body := perform(t, app, http.MethodGet, "/metrics")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "socialhub_http_request_duration_seconds")
	})

	t.Run("error - double registration", func(t *testing.T) {
		_, err := middleware.NewMetrics(reg)
		assert.Error(t, err)
	})
}
