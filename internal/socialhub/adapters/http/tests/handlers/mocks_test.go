package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpapi "socialhub/internal/socialhub/adapters/http"
	"socialhub/internal/socialhub/domain/entities"
	"socialhub/internal/socialhub/domain/services"
)

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) Register(ctx context.Context, input services.Registration) (*services.TokenPair, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *mockAuthUseCase) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *mockAuthUseCase) RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *mockAuthUseCase) WhoAmI(ctx context.Context, accessToken string) (*services.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Identity), args.Error(1)
}

type mockProfileUseCase struct {
	mock.Mock
}

func (m *mockProfileUseCase) List(ctx context.Context, owner services.Identity) ([]*entities.SocialProfile, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SocialProfile), args.Error(1)
}

func (m *mockProfileUseCase) Create(
	ctx context.Context,
	owner services.Identity,
	input entities.SocialProfileInput,
) (*entities.SocialProfile, error) {
	args := m.Called(ctx, owner, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SocialProfile), args.Error(1)
}

func (m *mockProfileUseCase) Update(
	ctx context.Context,
	owner services.Identity,
	profileID int64,
	patch entities.SocialProfilePatch,
) (*entities.SocialProfile, error) {
	args := m.Called(ctx, owner, profileID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SocialProfile), args.Error(1)
}

func (m *mockProfileUseCase) Delete(ctx context.Context, owner services.Identity, profileID int64) (*entities.SocialProfile, error) {
	args := m.Called(ctx, owner, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SocialProfile), args.Error(1)
}

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

const validAccessToken = "valid-access-token"

var testIdentity = services.Identity{ID: 1, Email: "john@example.com"}

type testServer struct {
	app      *fiber.App
	auth     *mockAuthUseCase
	profiles *mockProfileUseCase
	db       *mockPinger
}

func newTestServer() *testServer {
	s := &testServer{
		app:      httpapi.NewApp(nil),
		auth:     new(mockAuthUseCase),
		profiles: new(mockProfileUseCase),
		db:       new(mockPinger),
	}
	httpapi.SetupRouter(s.app, httpapi.Dependencies{
		Auth:     s.auth,
		Profiles: s.profiles,
		DB:       s.db,
	})
	return s
}

// authorized разрешает validAccessToken.
func (s *testServer) authorized() {
	s.auth.On("WhoAmI", mock.Anything, validAccessToken).Return(&testIdentity, nil)
}

func (s *testServer) do(t *testing.T, method, target, contentType, body string, headers ...string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, raw
}

func object(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func bearer(token string) []string {
	return []string{fiber.HeaderAuthorization, "Bearer " + token}
}
