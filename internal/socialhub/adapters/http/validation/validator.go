// Package validation подключает go-playground/validator к привязке запросов fiber.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StructValidator реализует fiber.StructValidator.
// В ошибках поля называются по json или form тегу.
type StructValidator struct {
	validate *validator.Validate
}

// New создает валидатор с именами полей из тегов.
func New() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form", "query"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	return &StructValidator{validate: v}
}

// Validate проверяет структуру по тегам validate.
func (s *StructValidator) Validate(out any) error {
	return s.validate.Struct(out)
}
