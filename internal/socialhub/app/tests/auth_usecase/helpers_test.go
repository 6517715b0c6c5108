package authusecase_test

import (
	"time"

	"github.com/stretchr/testify/mock"

	"socialhub/internal/socialhub/app"
	"socialhub/internal/socialhub/domain/services"
	"socialhub/internal/socialhub/ports/api"
)

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

type deps struct {
	userRepo    *mockUserRepository
	resolver    *mockIdentityResolver
	passwordSvc *mockPasswordService
	tokenSvc    *mockTokenService
	guard       *mockLoginGuard
	tx          *fakeTransactor
}

func newDeps() *deps {
	return &deps{
		userRepo:    new(mockUserRepository),
		resolver:    new(mockIdentityResolver),
		passwordSvc: new(mockPasswordService),
		tokenSvc:    new(mockTokenService),
		guard:       new(mockLoginGuard),
		tx:          &fakeTransactor{},
	}
}

func (d *deps) useCase() api.AuthUseCase {
	return app.NewAuthUseCase(
		d.userRepo,
		d.tx,
		d.resolver,
		d.passwordSvc,
		d.tokenSvc,
		d.guard,
		app.WithAuthClock(func() time.Time { return fixedNow }),
	)
}

func (d *deps) assertExpectations(t mock.TestingT) {
	d.userRepo.AssertExpectations(t)
	d.resolver.AssertExpectations(t)
	d.passwordSvc.AssertExpectations(t)
	d.tokenSvc.AssertExpectations(t)
	d.guard.AssertExpectations(t)
}

func validRegistration() services.Registration {
	return services.Registration{
		Email:          "john@example.com",
		Username:       "johndoe",
		Password:       "Str0ng!Pass",
		PasswordRepeat: "Str0ng!Pass",
		PhoneNumber:    "+12345678901",
		DateOfBirth:    time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func expectTokenPair(d *deps, userID int64, email string) {
	claims := services.TokenClaims{Subject: email, UserID: userID}
	d.tokenSvc.On("Issue", mock.Anything, claims, services.AccessToken).
		Return("access-token", fixedNow.Add(30*time.Minute), nil).Once()
	d.tokenSvc.On("Issue", mock.Anything, claims, services.RefreshToken).
		Return("refresh-token", fixedNow.Add(7*24*time.Hour), nil).Once()
}

func newUseCaseWithoutGuard(d *deps) api.AuthUseCase {
	return app.NewAuthUseCase(d.userRepo, d.tx, d.resolver, d.passwordSvc, d.tokenSvc, nil,
		app.WithAuthClock(func() time.Time { return fixedNow }))
}
