package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"socialhub/internal/socialhub/domain/services"
	svc "socialhub/internal/socialhub/ports/services"
	"socialhub/pkg/logger"
)

const (
	methodIssue  = "Issue"
	methodDecode = "Decode"

	msgIssuingToken   = "issuing token"
	msgTokenIssued    = "token issued"
	msgDecodingToken  = "decoding token"
	msgTokenDecoded   = "token decoded"
	msgTokenExpired   = "token has expired"
	msgTokenMalformed = "token rejected"

	errCtxIssue    = "issuing token"
	errCtxDecode   = "decoding token"
	errCtxNewCodec = "creating token codec"
	errEmptySecret = "empty secret key"
	errUnknownAlgo = "unsupported signing algorithm"
	errEmptyClaims = "subject and id are required"
	errNonPositive = "token lifetime must be positive"
)

// Claims - представление TokenClaims в формате библиотеки JWT.
// Subject содержит email, id - числовой идентификатор пользователя.
type Claims struct {
	UserID int64 `json:"id,omitempty"`
	jwt.RegisteredClaims
}

// ServiceJWT подписывает и проверяет токены двух доменов: access и refresh.
type ServiceJWT struct {
	method *jwt.SigningMethodHMAC
	keys   map[services.TokenDomain]services.DomainKey
	now    func() time.Time
}

// JWTOption настраивает ServiceJWT.
type JWTOption func(*ServiceJWT)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) JWTOption {
	return func(s *ServiceJWT) {
		s.now = now
	}
}

// NewJWT создает кодек. Пустой алгоритм означает HS256.
func NewJWT(cfg services.JWTConfig, opts ...JWTOption) (svc.TokenService, error) {
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%s: %s %q", errCtxNewCodec, errUnknownAlgo, alg)
	}

	keys := map[services.TokenDomain]services.DomainKey{
		services.AccessToken:  cfg.Access,
		services.RefreshToken: cfg.Refresh,
	}
	for domain, key := range keys {
		if len(key.Secret) == 0 {
			return nil, fmt.Errorf("%s: %s for %s tokens", errCtxNewCodec, errEmptySecret, domain)
		}
		if key.TTL <= 0 {
			return nil, fmt.Errorf("%s: %s for %s tokens", errCtxNewCodec, errNonPositive, domain)
		}
	}

	s := &ServiceJWT{method: method, keys: keys, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue подписывает claims ключом домена. ExpiresAt и IssuedAt во входных claims игнорируются.
func (s *ServiceJWT) Issue(ctx context.Context, claims services.TokenClaims, domain services.TokenDomain) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodIssue),
		zap.String("domain", string(domain)),
		zap.Int64("userID", claims.UserID),
	)
	log.Debug(ctx, msgIssuingToken)

	key, ok := s.keys[domain]
	if !ok {
		return "", time.Time{}, fmt.Errorf("%s: %w: %q", errCtxIssue, services.ErrUnknownTokenDomain, domain)
	}

	if claims.Subject == "" || claims.UserID == 0 {
		log.Warn(ctx, errEmptyClaims)
		return "", time.Time{}, fmt.Errorf("%s: %w", errCtxIssue, services.ErrMissingClaims)
	}

	now := s.now()
	expiresAt := jwt.NewNumericDate(now.Add(key.TTL))

	token := jwt.NewWithClaims(s.method, Claims{
		UserID: claims.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: expiresAt,
		},
	})

	signed, err := token.SignedString(key.Secret)
	if err != nil {
		log.Error(ctx, "error signing token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxIssue, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenIssued, zap.Time("expiresAt", expiresAt.Time))
	return signed, expiresAt.Time, nil
}

// Decode проверяет подпись и срок действия токена.
// Истекший токен с верной подписью дает ErrExpiredJWTToken, все остальное - ErrInvalidJWTToken.
// Наличие sub, id и exp здесь не требуется, это решает вызывающий.
func (s *ServiceJWT) Decode(ctx context.Context, tokenString string, domain services.TokenDomain) (*services.TokenClaims, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodDecode),
		zap.String("domain", string(domain)),
	)
	log.Debug(ctx, msgDecodingToken)

	key, ok := s.keys[domain]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", errCtxDecode, services.ErrUnknownTokenDomain, domain)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	var parsed Claims
	token, err := parser.ParseWithClaims(tokenString, &parsed, func(*jwt.Token) (any, error) {
		return key.Secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		log.Debug(ctx, msgTokenExpired)
		return nil, fmt.Errorf("%s: %w", errCtxDecode, services.ErrExpiredJWTToken)
	case err != nil:
		log.Debug(ctx, msgTokenMalformed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxDecode, services.ErrInvalidJWTToken, err)
	case !token.Valid:
		log.Debug(ctx, msgTokenMalformed)
		return nil, fmt.Errorf("%s: %w", errCtxDecode, services.ErrInvalidJWTToken)
	}

	out := &services.TokenClaims{
		Subject: parsed.Subject,
		UserID:  parsed.UserID,
	}
	if parsed.IssuedAt != nil {
		out.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time
	}

	log.Debug(ctx, msgTokenDecoded, zap.Int64("userID", out.UserID))
	return out, nil
}
