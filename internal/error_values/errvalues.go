package errorvalues

import "errors"

var (
	ErrUserNotFound        = errors.New("user doesn't exists")
	ErrWrongOwner          = errors.New("entity belongs to another user")
	ErrTaskNotFound        = errors.New("task doesn't exist")
	ErrLogNotFound         = errors.New("log doesn't exist")
	ErrDefinitionNotFound  = errors.New("referenced definition doesn't exist")
	ErrPerformanceNotFound = errors.New("daily performance doesn't exist")
	ErrWaterIntakeNotFound = errors.New("water intake doesn't exist")
	ErrUnknownLogKind      = errors.New("unknown log kind")

	ErrValidation       = errors.New("validation error")
	ErrInvalidDateRange = errors.New("invalid date range")

	// Wraps every repository failure surfaced from services
	ErrStore = errors.New("store error")
)

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrLogNotFound) ||
		errors.Is(err, ErrDefinitionNotFound) ||
		errors.Is(err, ErrPerformanceNotFound) ||
		errors.Is(err, ErrWaterIntakeNotFound) ||
		errors.Is(err, ErrWrongOwner)
}
