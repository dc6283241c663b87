// Package validation provides custom validators for the application
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	logLevels = []string{"debug", "info", "warn", "error"}
	ginModes  = []string{"debug", "release", "test"}
)

// New returns a validator with all custom rules registered
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "loglevel", oneOfFold(logLevels))
	mustRegister(v, "ginmode", oneOfFold(ginModes))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// oneOfFold accepts any of the given values, ignoring case
func oneOfFold(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		for _, a := range allowed {
			if strings.EqualFold(value, a) {
				return true
			}
		}
		return false
	}
}
