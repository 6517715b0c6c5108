// Package entities содержит сущности и ошибки предметной области SocialHub.
package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Ошибки домена пользователя.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUserField   = errors.New("unknown user lookup field")
	ErrMultipleUsersFound = errors.New("multiple users match a unique field")
)

// User - зарегистрированный пользователь.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	PhoneNumber  string
	DateOfBirth  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserField - поле, по которому пользователь ищется однозначно.
type UserField string

// Допустимые поля поиска.
const (
	UserFieldID          UserField = "id"
	UserFieldEmail       UserField = "email"
	UserFieldUsername    UserField = "username"
	UserFieldPhoneNumber UserField = "phone_number"
)

var userFieldColumns = map[UserField]string{
	UserFieldID:          "id",
	UserFieldEmail:       "email",
	UserFieldUsername:    "username",
	UserFieldPhoneNumber: "phone_number",
}

// ParseUserField превращает внешнее имя поля в UserField.
func ParseUserField(name string) (UserField, error) {
	f := UserField(name)
	if _, ok := userFieldColumns[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidUserField, name)
	}
	return f, nil
}

// Column возвращает имя колонки в таблице users.
func (f UserField) Column() (string, bool) {
	col, ok := userFieldColumns[f]
	return col, ok
}

// DuplicateFieldError - нарушение уникальности при регистрации.
type DuplicateFieldError struct {
	Field UserField
}

func (e *DuplicateFieldError) Error() string {
	return strings.ReplaceAll(string(e.Field), "_", " ") + " already registered"
}

// Detail - сообщение для клиента: "Phone number already registered".
func (e *DuplicateFieldError) Detail() string {
	msg := e.Error()
	return strings.ToUpper(msg[:1]) + msg[1:]
}
