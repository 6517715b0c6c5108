// Package dto содержит объекты передачи данных HTTP API.
package dto

import (
	"time"

	"socialhub/internal/socialhub/domain/services"
)

// DateLayout - формат даты рождения в запросах.
const DateLayout = "2006-01-02"

// RegisterRequest содержит данные для регистрации пользователя.
// Правила содержимого полей проверяются в сценарии регистрации.
type RegisterRequest struct {
	Email          string `json:"email" validate:"required"`
	Username       string `json:"username" validate:"required"`
	Password       string `json:"password" validate:"required"`
	PasswordRepeat string `json:"password_repeat" validate:"required"`
	PhoneNumber    string `json:"phone_number" validate:"required"`
	DateOfBirth    string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

// ToRegistration переводит запрос в доменную структуру.
func (r RegisterRequest) ToRegistration() (services.Registration, error) {
	dob, err := time.Parse(DateLayout, r.DateOfBirth)
	if err != nil {
		return services.Registration{}, err
	}
	return services.Registration{
		Email:          r.Email,
		Username:       r.Username,
		Password:       r.Password,
		PasswordRepeat: r.PasswordRepeat,
		PhoneNumber:    r.PhoneNumber,
		DateOfBirth:    dob,
	}, nil
}

// LoginRequest - вход по JSON или форме OAuth2 password: username содержит email.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RefreshQueryParam - query параметр с refresh токеном.
const RefreshQueryParam = "token"

// RefreshRequest - тело запроса обновления, если токен не передан в query.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse содержит пару токенов.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// NewTokenResponse строит ответ из пары токенов.
func NewTokenResponse(pair *services.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	}
}

// UserResponse - ответ /auth/me.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}
