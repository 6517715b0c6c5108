package flow_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"socialhub/internal/socialhub/adapters/cache"
	httpapi "socialhub/internal/socialhub/adapters/http"
	adapterservices "socialhub/internal/socialhub/adapters/services"
	"socialhub/internal/socialhub/app"
	"socialhub/internal/socialhub/domain/services"
)

const (
	accessTTL   = 30 * time.Minute
	refreshTTL  = 7 * 24 * time.Hour
	maxAttempts = 3
)

type env struct {
	app   *fiber.App
	store *memoryStore
	clock *clock
}

func newEnv(t *testing.T) *env {
	t.Helper()

	clk := &clock{now: time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)}
	factory, err := adapterservices.NewServiceFactory(services.JWTConfig{
		Algorithm: "HS256",
		Access:    services.DomainKey{Secret: []byte("access-secret"), TTL: accessTTL},
		Refresh:   services.DomainKey{Secret: []byte("refresh-secret"), TTL: refreshTTL},
	}, bcrypt.MinCost, adapterservices.WithClock(clk.Now))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := newMemoryStore()
	users := memoryUsers{s: store}
	resolver := app.NewIdentityResolver(users)

	authUseCase := app.NewAuthUseCase(
		users,
		store,
		resolver,
		factory.PasswordService(),
		factory.TokenService(),
		cache.NewRedisLoginGuard(client, maxAttempts, time.Minute),
		app.WithAuthClock(clk.Now),
	)
	profileUseCase := app.NewProfileUseCase(memoryProfiles{s: store}, store, resolver)

	fiberApp := httpapi.NewApp(nil)
	httpapi.SetupRouter(fiberApp, httpapi.Dependencies{
		Auth:     authUseCase,
		Profiles: profileUseCase,
	})

	return &env{app: fiberApp, store: store, clock: clk}
}

func (e *env) call(t *testing.T, method, target, contentType, body, token string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp.StatusCode, raw
}

func (e *env) register(t *testing.T, email, username, phone string) map[string]any {
	t.Helper()

	body := `{"email": "` + email + `", "username": "` + username + `", "password": "Str0ng!Pass",
		"password_repeat": "Str0ng!Pass", "phone_number": "` + phone + `", "date_of_birth": "1990-01-01"}`
	status, raw := e.call(t, http.MethodPost, "/auth/register", fiber.MIMEApplicationJSON, body, "")
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode(t, raw)
}

func (e *env) login(t *testing.T, email, password string) (int, map[string]any) {
	t.Helper()

	form := url.Values{"username": {email}, "password": {password}}.Encode()
	status, raw := e.call(t, http.MethodPost, "/auth/login", fiber.MIMEApplicationForm, form, "")
	return status, decode(t, raw)
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func decodeList(t *testing.T, raw []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestProfileLifecycle(t *testing.T) {
	e := newEnv(t)

	e.register(t, "john@example.com", "johndoe", "+12345678901")

	status, tokens := e.login(t, "john@example.com", "Str0ng!Pass")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bearer", tokens["token_type"])
	access := tokens["access_token"].(string)

	status, raw := e.call(t, http.MethodGet, "/auth/me", "", "", access)
	require.Equal(t, http.StatusOK, status)
	me := decode(t, raw)
	assert.Equal(t, "john@example.com", me["email"])

	status, raw = e.call(t, http.MethodPost, "/social_profiles/create", fiber.MIMEApplicationJSON,
		`{"platform": "  linkedIn ", "profile_url": "https://linkedin.com/in/john", "profile_type": " Group "}`, access)
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := decode(t, raw)
	assert.Equal(t, "LinkedIn", created["platform"])
	assert.Equal(t, "group", created["profile_type"])
	profileID := int64(created["id"].(float64))

	status, raw = e.call(t, http.MethodPost, "/social_profiles/create", fiber.MIMEApplicationJSON,
		`{"platform": "github", "profile_url": "https://github.com/john", "profile_type": "personal"}`, access)
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = e.call(t, http.MethodGet, "/social_profiles", "", "", access)
	require.Equal(t, http.StatusOK, status)
	listed := decodeList(t, raw)
	require.Len(t, listed, 2)
	assert.Equal(t, "LinkedIn", listed[0]["platform"])
	assert.Equal(t, "Github", listed[1]["platform"])

	target := "/social_profiles/" + strconv.FormatInt(profileID, 10)

	status, raw = e.call(t, http.MethodPut, target, fiber.MIMEApplicationJSON, `{"profile_type": "Professional"}`, access)
	require.Equal(t, http.StatusOK, status, string(raw))
	updated := decode(t, raw)
	assert.Equal(t, "professional", updated["profile_type"])
	assert.Equal(t, "LinkedIn", updated["platform"])

	status, raw = e.call(t, http.MethodPut, target, fiber.MIMEApplicationJSON, `{}`, access)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, updated, decode(t, raw))

	status, raw = e.call(t, http.MethodPut, target, fiber.MIMEApplicationJSON, `{"profile_type": "celebrity"}`, access)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, decode(t, raw)["detail"], "Invalid profile type")

	status, raw = e.call(t, http.MethodDelete, target, "", "", access)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, updated, decode(t, raw))

	status, _ = e.call(t, http.MethodDelete, target, "", "", access)
	assert.Equal(t, http.StatusNotFound, status)

	status, raw = e.call(t, http.MethodGet, "/social_profiles", "", "", access)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeList(t, raw), 1)
}

func TestForeignProfileIsHidden(t *testing.T) {
	e := newEnv(t)

	owner := e.register(t, "john@example.com", "johndoe", "+12345678901")
	intruder := e.register(t, "jane@example.com", "janedoe", "+12345678902")

	status, raw := e.call(t, http.MethodPost, "/social_profiles/create", fiber.MIMEApplicationJSON,
		`{"platform": "GitHub", "profile_url": "https://github.com/john", "profile_type": "personal"}`,
		owner["access_token"].(string))
	require.Equal(t, http.StatusCreated, status)
	target := "/social_profiles/" + strconv.FormatInt(int64(decode(t, raw)["id"].(float64)), 10)

	intruderToken := intruder["access_token"].(string)

	status, raw = e.call(t, http.MethodPut, target, fiber.MIMEApplicationJSON, `{"platform": "Hacked"}`, intruderToken)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Profile not found", decode(t, raw)["detail"])

	status, _ = e.call(t, http.MethodDelete, target, "", "", intruderToken)
	assert.Equal(t, http.StatusNotFound, status)

	status, raw = e.call(t, http.MethodGet, "/social_profiles", "", "", intruderToken)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestRegistrationConflicts(t *testing.T) {
	e := newEnv(t)
	e.register(t, "john@example.com", "johndoe", "+12345678901")

	tests := []struct {
		name           string
		email          string
		username       string
		phone          string
		expectedDetail string
	}{
		{"email taken", "john@example.com", "johnny", "+19999999999", "Email already registered"},
		{"username taken", "other@example.com", "johndoe", "+19999999999", "Username already registered"},
		{"phone taken", "other@example.com", "johnny", "+12345678901", "Phone number already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"email": "` + tt.email + `", "username": "` + tt.username + `", "password": "Str0ng!Pass",
				"password_repeat": "Str0ng!Pass", "phone_number": "` + tt.phone + `", "date_of_birth": "1990-01-01"}`

			status, raw := e.call(t, http.MethodPost, "/auth/register", fiber.MIMEApplicationJSON, body, "")

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.expectedDetail, decode(t, raw)["detail"])
		})
	}
}

func TestLoginThrottle(t *testing.T) {
	e := newEnv(t)
	e.register(t, "john@example.com", "johndoe", "+12345678901")

	for range maxAttempts {
		status, body := e.login(t, "john@example.com", "Wr0ng!Pass")
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Incorrect email or password", body["detail"])
	}

	status, _ := e.login(t, "john@example.com", "Str0ng!Pass")
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestTokenExpiry(t *testing.T) {
	e := newEnv(t)
	tokens := e.register(t, "john@example.com", "johndoe", "+12345678901")
	access := tokens["access_token"].(string)
	refresh := tokens["refresh_token"].(string)

	e.clock.Advance(accessTTL + time.Second)

	status, raw := e.call(t, http.MethodGet, "/auth/me", "", "", access)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Token expired!", decode(t, raw)["detail"])

	status, raw = e.call(t, http.MethodPost, "/auth/refresh?token="+url.QueryEscape(refresh), "", "", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	renewed := decode(t, raw)

	status, _ = e.call(t, http.MethodGet, "/auth/me", "", "", renewed["access_token"].(string))
	assert.Equal(t, http.StatusOK, status)

	status, _ = e.call(t, http.MethodPost, "/auth/refresh", fiber.MIMEApplicationJSON,
		`{"refresh_token": "`+access+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	e.clock.Advance(refreshTTL)

	status, raw = e.call(t, http.MethodPost, "/auth/refresh?token="+url.QueryEscape(refresh), "", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", decode(t, raw)["detail"])
}

func TestDeletedOwner(t *testing.T) {
	e := newEnv(t)
	tokens := e.register(t, "john@example.com", "johndoe", "+12345678901")

	require.NoError(t, memoryUsers{s: e.store}.Delete(context.Background(), 1))

	status, raw := e.call(t, http.MethodPost, "/social_profiles/create", fiber.MIMEApplicationJSON,
		`{"platform": "GitHub", "profile_url": "https://github.com/john", "profile_type": "personal"}`,
		tokens["access_token"].(string))

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", decode(t, raw)["detail"])
}
