package app

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"socialhub/internal/socialhub/domain/entities"
	"socialhub/internal/socialhub/domain/services"
)

const (
	usernameMinLength = 5
	usernameMaxLength = 20
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
	phoneRegex    = regexp.MustCompile(`^\+\d{10,15}$`)
)

// emailValidator проверяет адреса по правилам тега email из validator.
var emailValidator = validator.New()

// registrationChecks выполняются строго в этом порядке, первая ошибка возвращается.
var registrationChecks = []func(services.Registration, time.Time) error{
	func(r services.Registration, _ time.Time) error { return validateEmail(r.Email) },
	func(r services.Registration, _ time.Time) error { return validateUsername(r.Username) },
	func(r services.Registration, _ time.Time) error { return validatePassword(r.Password) },
	func(r services.Registration, _ time.Time) error { return validatePhoneNumber(r.PhoneNumber) },
	func(r services.Registration, now time.Time) error { return validateDateOfBirth(r.DateOfBirth, now) },
	func(r services.Registration, _ time.Time) error { return validatePasswordsMatch(r.Password, r.PasswordRepeat) },
}

// ValidateRegistration проверяет данные регистрации и возвращает *entities.ValidationError.
func ValidateRegistration(r services.Registration, now time.Time) error {
	for _, check := range registrationChecks {
		if err := check(r, now); err != nil {
			return err
		}
	}
	return nil
}

func validateEmail(email string) error {
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return entities.NewValidationError("email", "value is not a valid email address")
	}
	return nil
}

func validateUsername(username string) error {
	if n := len(username); n < usernameMinLength || n > usernameMaxLength {
		return entities.NewValidationError("username",
			fmt.Sprintf("Username must be between %d and %d characters long", usernameMinLength, usernameMaxLength))
	}
	if !usernameRegex.MatchString(username) {
		return entities.NewValidationError("username",
			"Username must start with a lowercase letter and contain only lowercase letters and digits")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < services.MinPasswordLength {
		return entities.NewValidationError("password",
			fmt.Sprintf("Password must be at least %d characters long", services.MinPasswordLength))
	}
	if len(password) > services.MaxPasswordLength {
		return entities.NewValidationError("password",
			fmt.Sprintf("Password must not exceed %d characters", services.MaxPasswordLength))
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(services.PasswordSpecialChars, r):
			special = true
		}
	}

	switch {
	case !upper:
		return entities.NewValidationError("password", "Password must contain at least one uppercase letter")
	case !lower:
		return entities.NewValidationError("password", "Password must contain at least one lowercase letter")
	case !digit:
		return entities.NewValidationError("password", "Password must contain at least one digit")
	case !special:
		return entities.NewValidationError("password", "Password must contain at least one special character")
	}
	return nil
}

func validatePhoneNumber(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return entities.NewValidationError("phone_number", "Phone number must be '+' followed by 10 to 15 digits")
	}
	return nil
}

func validateDateOfBirth(dob, now time.Time) error {
	if dob.IsZero() {
		return entities.NewValidationError("date_of_birth", "Date of birth is required")
	}
	if dob.After(now) {
		return entities.NewValidationError("date_of_birth", "Date of birth cannot be in the future")
	}
	return nil
}

func validatePasswordsMatch(password, repeat string) error {
	if password != repeat {
		return entities.NewValidationError("password_repeat", "Passwords do not match")
	}
	return nil
}
