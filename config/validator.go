package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance returns the shared validator with the package rules
// registered.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		// descending accepts integer slices sorted strictly high to low.
		_ = v.RegisterValidation("descending", func(fl validator.FieldLevel) bool {
			field := fl.Field()
			if field.Kind() != reflect.Slice {
				return false
			}
			for i := 1; i < field.Len(); i++ {
				if field.Index(i).Int() >= field.Index(i-1).Int() {
					return false
				}
			}
			return true
		})

		validateInst = v
	})
	return validateInst
}

// Validate checks struct tags and every preset style map.
func (c *Config) Validate() error {
	if c == nil {
		return &ValidationError{Message: "config is nil"}
	}
	if err := validatorInstance().Struct(c); err != nil {
		return convertValidationError(err)
	}
	for _, name := range c.PresetNames() {
		if name == "" {
			return &ValidationError{Field: "presets", Message: "preset name is required"}
		}
		if err := c.Presets[name].Styles.Validate(); err != nil {
			return &ValidationError{Field: "presets." + name, Message: err.Error(), Err: err}
		}
	}
	return nil
}

func convertValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return &ValidationError{Message: err.Error(), Err: err}
	}
	first := validationErrs[0]
	return &ValidationError{
		Field:   first.Namespace(),
		Message: fmt.Sprintf("%s failed validation for tag '%s'", first.Field(), first.Tag()),
		Err:     err,
	}
}
