package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/limbo/discipline/internal/error_values"
	"github.com/limbo/discipline/pkg/entity"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

const clockTimeLayout = "15:04"

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		// "YYYY-MM-DD" that is a real calendar day
		validate.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(entity.DateLayout, fl.Field().String())
			return err == nil
		})
		// "HH:mm", 24h
		validate.RegisterValidation("clock_time", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(clockTimeLayout, fl.Field().String())
			return err == nil
		})
	})
}

// validateRequest runs struct validation and folds field errors into one
// ErrValidation.
func validateRequest(req any) error {
	InitValidator()
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		joined := errorvalues.ErrValidation
		for _, fieldErr := range validationErrors {
			joined = errors.Join(joined, fmt.Errorf("field %s failed on %q", fieldErr.Field(), fieldErr.Tag()))
		}
		return joined
	}
	return fmt.Errorf("%w: %s", errorvalues.ErrValidation, err.Error())
}

// ParseDate checks a "YYYY-MM-DD" string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", errorvalues.ErrValidation, date)
	}
	return t, nil
}

func storeError(err error) error {
	return fmt.Errorf("%w: %w", errorvalues.ErrStore, err)
}
