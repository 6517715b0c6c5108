package authusecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"socialhub/internal/socialhub/domain/entities"
	"socialhub/internal/socialhub/domain/services"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByField(ctx context.Context, field entities.UserField, value any) ([]*entities.User, error) {
	args := m.Called(ctx, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockIdentityResolver struct {
	mock.Mock
}

func (m *mockIdentityResolver) FindByField(ctx context.Context, field string, value any) (*entities.User, error) {
	args := m.Called(ctx, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	return args.Bool(0), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) Issue(ctx context.Context, claims services.TokenClaims, domain services.TokenDomain) (string, time.Time, error) {
	args := m.Called(ctx, claims, domain)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) Decode(ctx context.Context, token string, domain services.TokenDomain) (*services.TokenClaims, error) {
	args := m.Called(ctx, token, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenClaims), args.Error(1)
}

type mockLoginGuard struct {
	mock.Mock
}

func (m *mockLoginGuard) Allow(ctx context.Context, identifier string) (bool, error) {
	args := m.Called(ctx, identifier)
	return args.Bool(0), args.Error(1)
}

func (m *mockLoginGuard) RegisterFailure(ctx context.Context, identifier string) error {
	return m.Called(ctx, identifier).Error(0)
}

func (m *mockLoginGuard) Reset(ctx context.Context, identifier string) error {
	return m.Called(ctx, identifier).Error(0)
}

// fakeTransactor выполняет fn без настоящей транзакции и запоминает результат.
type fakeTransactor struct {
	calls   int
	lastErr error
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	f.lastErr = fn(ctx)
	return f.lastErr
}
