package config

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	shelferrors "github.com/alexisbeaulieu97/shelf/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		_ = v.RegisterValidation("log_level", func(fl validator.FieldLevel) bool {
			_, err := zerolog.ParseLevel(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			id := fl.Field().String()
			return id != shop.CategoryAll && shop.IsKnownCategory(id)
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns the shared validator with shelf's custom tags
// registered (log_level, category).
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// ValidateConfig checks cfg and returns a *errors.ValidationError naming the
// first offending field.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return shelferrors.NewValidationError("config", "configuration is nil", nil)
	}
	cfg.Preferences.Redis.Enabled = cfg.Preferences.Backend == "redis"
	return ValidateStruct(cfg)
}

// ValidateStruct validates any struct with the shared validator.
func ValidateStruct(v interface{}) error {
	if err := validatorInstance().Struct(v); err != nil {
		return ConvertValidationError(err, "")
	}
	return nil
}
