package profileusecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"socialhub/internal/socialhub/domain/entities"
)

type mockProfileRepository struct {
	mock.Mock
}

func (m *mockProfileRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entities.SocialProfile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SocialProfile), args.Error(1)
}

func (m *mockProfileRepository) Create(ctx context.Context, profile *entities.SocialProfile) (*entities.SocialProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SocialProfile), args.Error(1)
}

func (m *mockProfileRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.SocialProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SocialProfile), args.Error(1)
}

func (m *mockProfileRepository) Update(ctx context.Context, profile *entities.SocialProfile) (*entities.SocialProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SocialProfile), args.Error(1)
}

func (m *mockProfileRepository) Delete(ctx context.Context, id, ownerID int64) (*entities.SocialProfile, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SocialProfile), args.Error(1)
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

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}
