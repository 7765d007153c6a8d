// Package validation provides the shared struct validator for request and message bodies.

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// Instance returns the shared validator. Field names in errors are taken from json tags.
func Instance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validateInst = v
	})
	return validateInst
}

// Struct validates s with the shared validator.
func Struct(s interface{}) error {
	return Instance().Struct(s)
}

// Details flattens validation errors into a field to message map.
func Details(err error) map[string]string {
	details := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		details["body"] = err.Error()
		return details
	}
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = fmt.Sprintf("Field '%s' failed validation: %s", fieldErr.Field(), fieldErr.Tag())
	}
	return details
}
