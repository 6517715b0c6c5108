package services

import "errors"

// Ошибки работы с паролями.
var (
	ErrHashingFailed   = errors.New("failed to hash password")
	ErrInvalidPassword = errors.New("invalid password")
)

// Ограничения пароля. Верхняя граница совпадает с пределом bcrypt.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// PasswordSpecialChars - набор спецсимволов, из которых нужен хотя бы один.
const PasswordSpecialChars = `!@#$%^&*()-_=+[]{}|;:,.<>?/`
