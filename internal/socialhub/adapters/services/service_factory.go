// Package services содержит адаптеры для паролей и токенов: bcrypt и JWT.
package services

import (
	"fmt"

	"socialhub/internal/socialhub/domain/services"
	svc "socialhub/internal/socialhub/ports/services"
)

// ServiceFactory собирает сервисы аутентификации.
type ServiceFactory struct {
	passwordService svc.PasswordService
	tokenService    svc.TokenService
}

// NewServiceFactory создает bcrypt и JWT сервисы.
func NewServiceFactory(jwtCfg services.JWTConfig, bcryptCost int, opts ...JWTOption) (*ServiceFactory, error) {
	tokenService, err := NewJWT(jwtCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("service factory: %w", err)
	}

	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost),
		tokenService:    tokenService,
	}, nil
}

// PasswordService возвращает сервис паролей.
func (f *ServiceFactory) PasswordService() svc.PasswordService {
	return f.passwordService
}

// TokenService возвращает кодек токенов.
func (f *ServiceFactory) TokenService() svc.TokenService {
	return f.tokenService
}
