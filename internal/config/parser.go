package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "github.com/spidercore/engine/internal/errors"
)

// ParseSpiderConfig loads a SpiderConfig document from disk, validates it,
// and returns the resulting value.
func ParseSpiderConfig(path string) (*SpiderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewLoadError(path, err)
	}

	var cfg SpiderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.NewConfigurationError("(yaml)", err.Error())
	}

	if err := ValidateSpiderConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateSpiderConfig runs struct-tag validation over a SpiderConfig and
// translates the first failure into a ConfigurationError.
func ValidateSpiderConfig(cfg *SpiderConfig) error {
	if err := validatorInstance().Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return apperrors.NewConfigurationError(fe.Namespace(), fe.Tag())
		}
		return apperrors.NewConfigurationError("(unknown)", err.Error())
	}
	return nil
}
