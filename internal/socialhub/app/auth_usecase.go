// Package app содержит сценарии SocialHub: аутентификацию, поиск личности и работу с профилями.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialhub/internal/socialhub/domain/entities"
	"socialhub/internal/socialhub/domain/services"
	"socialhub/internal/socialhub/ports/api"
	"socialhub/internal/socialhub/ports/repositories"
	svc "socialhub/internal/socialhub/ports/services"
	"socialhub/pkg/logger"

	"go.uber.org/zap"
)

const (
	methodRegister       = "Register"
	methodLogin          = "Login"
	methodRefreshTokens  = "RefreshTokens"
	methodWhoAmI         = "WhoAmI"
	methodGenerateTokens = "generateTokenPair"

	msgStartRegistration   = "starting user registration"
	msgRegistrationInvalid = "registration data rejected"
	msgFieldTaken          = "unique field already registered"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginThrottled      = "login attempt throttled"
	msgLoginNonExistent    = "login attempt with non-existent email"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"
	msgRefreshingTokens    = "refreshing tokens"
	msgRefreshRejected     = "refresh token rejected"
	msgTokensRefreshed     = "tokens refreshed successfully"
	msgValidatingAccess    = "validating access token"
	msgAccessInvalid       = "access token invalid"
	msgAccessExpired       = "access token expired"
	msgAccessIncomplete    = "access token lacks subject or id"
	msgAccessNoExpiry      = "access token has no expiry"
	msgTokenPairGenerated  = "token pair generated successfully"

	msgErrHashPassword        = "failed to hash password"
	msgErrRegisterTx          = "registration transaction failed"
	msgErrFindingUser         = "error finding user by email"
	msgErrVerifyingPassword   = "error verifying password"
	msgErrGuard               = "login guard error"
	msgErrGenerateTokens      = "failed to generate tokens"
	msgErrGenerateAccessToken = "failed to generate access token"
	msgErrGenerateRefresh     = "failed to generate refresh token"

	errCtxValidatingRegistration = "validating registration"
	errCtxHashingPassword        = "hashing password"
	errCtxCheckingField          = "checking existing %s"
	errCtxCreatingUser           = "creating user"
	errCtxRegistering            = "registering user"
	errCtxGeneratingTokens       = "generating tokens"
	errCtxInvalidCredentials     = "invalid credentials"
	errCtxFindingUser            = "finding user"
	errCtxThrottled              = "login throttled"
	errCtxDecodingRefresh        = "decoding refresh token"
	errCtxDecodingAccess         = "decoding access token"
	errCtxCheckingClaims         = "checking access token claims"
	errCtxGeneratingAccessToken  = "generating access token"
	errCtxGeneratingRefreshToken = "generating refresh token"
)

// Порядок проверки уникальных полей при регистрации: первое совпадение побеждает.
var registrationUniqueFields = []entities.UserField{
	entities.UserFieldEmail,
	entities.UserFieldUsername,
	entities.UserFieldPhoneNumber,
}

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	transactor  repositories.Transactor
	resolver    api.IdentityResolver
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
	loginGuard  svc.LoginGuard
	now         func() time.Time
}

// AuthOption настраивает AuthUseCaseImpl.
type AuthOption func(*AuthUseCaseImpl)

// WithAuthClock подменяет источник времени для проверки даты рождения и срока токена.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(a *AuthUseCaseImpl) {
		a.now = now
	}
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
// nil loginGuard означает отсутствие ограничения попыток.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	transactor repositories.Transactor,
	resolver api.IdentityResolver,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
	loginGuard svc.LoginGuard,
	opts ...AuthOption,
) api.AuthUseCase {
	a := &AuthUseCaseImpl{
		userRepo:    userRepo,
		transactor:  transactor,
		resolver:    resolver,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		loginGuard:  loginGuard,
		now:         time.Now,
	}
	if a.loginGuard == nil {
		a.loginGuard = noopGuard{}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register проверяет данные, создает пользователя в одной транзакции и выдает пару токенов.
func (a *AuthUseCaseImpl) Register(ctx context.Context, input services.Registration) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", input.Email))
	log.Debug(ctx, msgStartRegistration)

	if err := ValidateRegistration(input, a.now()); err != nil {
		log.Debug(ctx, msgRegistrationInvalid, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingRegistration, err)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, input.Password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	var created *entities.User
	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		values := map[entities.UserField]string{
			entities.UserFieldEmail:       input.Email,
			entities.UserFieldUsername:    input.Username,
			entities.UserFieldPhoneNumber: input.PhoneNumber,
		}
		for _, field := range registrationUniqueFields {
			if err := a.ensureFieldFree(ctx, field, values[field]); err != nil {
				return err
			}
		}

		user, err := a.userRepo.Create(ctx, &entities.User{
			Email:        input.Email,
			Username:     input.Username,
			PasswordHash: hashedPassword,
			PhoneNumber:  input.PhoneNumber,
			DateOfBirth:  input.DateOfBirth,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxCreatingUser, err)
		}
		created = user
		return nil
	})
	if err != nil {
		var dup *entities.DuplicateFieldError
		switch {
		case errors.As(err, &dup):
			log.Debug(ctx, msgFieldTaken, zap.String("field", string(dup.Field)))
		case errors.Is(err, entities.ErrValueTooLong):
			log.Debug(ctx, msgErrRegisterTx, zap.Error(err))
		default:
			log.Error(ctx, msgErrRegisterTx, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxRegistering, err)
	}

	log.Info(ctx, msgUserRegistered, zap.Int64("userID", created.ID))

	tokenPair, err := a.generateTokenPair(ctx, created)
	if err != nil {
		log.Error(ctx, msgErrGenerateTokens, zap.Error(err), zap.Int64("userID", created.ID))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}
	return tokenPair, nil
}

func (a *AuthUseCaseImpl) ensureFieldFree(ctx context.Context, field entities.UserField, value string) error {
	_, err := a.resolver.FindByField(ctx, string(field), value)
	switch {
	case errors.Is(err, entities.ErrUserNotFound):
		return nil
	case err == nil, errors.Is(err, entities.ErrMultipleUsersFound):
		return &entities.DuplicateFieldError{Field: field}
	default:
		return fmt.Errorf(errCtxCheckingField+": %w", field, err)
	}
}

// Login аутентифицирует пользователя по email и паролю.
// Неизвестный email и неверный пароль неразличимы для клиента.
func (a *AuthUseCaseImpl) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	allowed, err := a.loginGuard.Allow(ctx, email)
	if err != nil {
		log.Warn(ctx, msgErrGuard, zap.Error(err))
	} else if !allowed {
		log.Info(ctx, msgLoginThrottled)
		return nil, fmt.Errorf("%s: %w", errCtxThrottled, services.ErrTooManyLoginAttempts)
	}

	user, err := a.resolver.FindByField(ctx, string(entities.UserFieldEmail), email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			a.registerFailure(ctx, log, email)
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	// Ошибка проверки (пустой ввод, поврежденный хеш) считается неверным паролем.
	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Warn(ctx, msgErrVerifyingPassword, zap.Error(err), zap.Int64("userID", user.ID))
		valid = false
	}
	if !valid {
		log.Debug(ctx, msgInvalidPasswordAuth, zap.Int64("userID", user.ID))
		a.registerFailure(ctx, log, email)
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	if err := a.loginGuard.Reset(ctx, email); err != nil {
		log.Warn(ctx, msgErrGuard, zap.Error(err))
	}

	log.Info(ctx, msgUserLoggedIn, zap.Int64("userID", user.ID))

	tokenPair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrGenerateTokens, zap.Error(err), zap.Int64("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}
	return tokenPair, nil
}

func (a *AuthUseCaseImpl) registerFailure(ctx context.Context, log *logger.Logger, email string) {
	if err := a.loginGuard.RegisterFailure(ctx, email); err != nil {
		log.Warn(ctx, msgErrGuard, zap.Error(err))
	}
}

// RefreshTokens выдает новую пару по refresh токену. Список отзыва не ведется.
// Любая ошибка декодирования, включая истечение срока, дает ErrInvalidRefreshToken.
func (a *AuthUseCaseImpl) RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefreshTokens))
	log.Debug(ctx, msgRefreshingTokens)

	claims, err := a.tokenSvc.Decode(ctx, refreshToken, services.RefreshToken)
	if err != nil {
		log.Debug(ctx, msgRefreshRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxDecodingRefresh, services.ErrInvalidRefreshToken)
	}
	if claims.Subject == "" || claims.UserID == 0 {
		log.Debug(ctx, msgRefreshRejected)
		return nil, fmt.Errorf("%s: %w", errCtxDecodingRefresh, services.ErrInvalidRefreshToken)
	}

	tokenPair, err := a.generateTokenPair(ctx, &entities.User{ID: claims.UserID, Email: claims.Subject})
	if err != nil {
		log.Error(ctx, msgErrGenerateTokens, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	log.Info(ctx, msgTokensRefreshed, zap.Int64("userID", claims.UserID))
	return tokenPair, nil
}

// WhoAmI проверяет access токен и возвращает личность его владельца.
func (a *AuthUseCaseImpl) WhoAmI(ctx context.Context, accessToken string) (*services.Identity, error) {
	log := logger.Log(ctx).With(zap.String("method", methodWhoAmI))
	log.Debug(ctx, msgValidatingAccess)

	claims, err := a.tokenSvc.Decode(ctx, accessToken, services.AccessToken)
	switch {
	case errors.Is(err, services.ErrExpiredJWTToken):
		log.Debug(ctx, msgAccessExpired)
		return nil, fmt.Errorf("%s: %w", errCtxDecodingAccess, services.ErrTokenExpired)
	case err != nil:
		log.Debug(ctx, msgAccessInvalid, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxDecodingAccess, services.ErrCannotValidate)
	}

	switch {
	case claims.Subject == "" || claims.UserID == 0:
		log.Debug(ctx, msgAccessIncomplete)
		return nil, fmt.Errorf("%s: %w", errCtxCheckingClaims, services.ErrCannotValidate)
	case claims.ExpiresAt.IsZero():
		log.Debug(ctx, msgAccessNoExpiry)
		return nil, fmt.Errorf("%s: %w", errCtxCheckingClaims, services.ErrNoTokenSupplied)
	case !claims.ExpiresAt.After(a.now()):
		log.Debug(ctx, msgAccessExpired)
		return nil, fmt.Errorf("%s: %w", errCtxCheckingClaims, services.ErrTokenExpired)
	}

	return &services.Identity{ID: claims.UserID, Email: claims.Subject}, nil
}

func (a *AuthUseCaseImpl) generateTokenPair(ctx context.Context, user *entities.User) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateTokens),
		zap.Int64("userID", user.ID),
	)

	claims := services.TokenClaims{Subject: user.Email, UserID: user.ID}

	accessToken, accessExpires, err := a.tokenSvc.Issue(ctx, claims, services.AccessToken)
	if err != nil {
		log.Error(ctx, msgErrGenerateAccessToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxGeneratingAccessToken, services.ErrTokenGenerationFailed, err)
	}

	refreshToken, refreshExpires, err := a.tokenSvc.Issue(ctx, claims, services.RefreshToken)
	if err != nil {
		log.Error(ctx, msgErrGenerateRefresh, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxGeneratingRefreshToken, services.ErrTokenGenerationFailed, err)
	}

	log.Debug(ctx, msgTokenPairGenerated)

	return &services.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        services.TokenTypeBearer,
		AccessExpiresAt:  accessExpires,
		RefreshExpiresAt: refreshExpires,
	}, nil
}

type noopGuard struct{}

func (noopGuard) Allow(context.Context, string) (bool, error)   { return true, nil }
func (noopGuard) RegisterFailure(context.Context, string) error { return nil }
func (noopGuard) Reset(context.Context, string) error           { return nil }
