package config

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	spiderIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// validatorInstance configures and returns the shared validator instance
// used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("spider_id", func(fl validator.FieldLevel) bool {
			return spiderIDPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})
	return validateInst
}

// GetValidator returns the configured validator instance for use outside
// the config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}
