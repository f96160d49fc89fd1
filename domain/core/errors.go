package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrReportNotFound = fmt.Errorf("%w: report", ErrNotFound)

	// Validation errors
	ErrInvalidInput        = errors.New("invalid input")
	ErrIntensityOutOfRange = fmt.Errorf("%w: intensity outside [0,1]", ErrInvalidInput)
	ErrUnknownDimension    = fmt.Errorf("%w: unknown dimension", ErrInvalidInput)
	ErrEmptyRecord         = fmt.Errorf("%w: record has no measurements", ErrInvalidInput)

	// Analysis errors
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Determinism errors
	ErrFingerprintMismatch = errors.New("fingerprint mismatch")
)

// InsufficientDataError reports that an analyzer received fewer observations
// than its stated floor. It unwraps to ErrInsufficientData so callers can
// treat the whole family as a benign, expected condition.
type InsufficientDataError struct {
	Analyzer string
	Needed   int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %v: need %d observations, got %d", e.Analyzer, ErrInsufficientData, e.Needed, e.Got)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// NewInsufficientDataError builds the typed low-data error for an analyzer
func NewInsufficientDataError(analyzer string, needed, got int) error {
	return &InsufficientDataError{Analyzer: analyzer, Needed: needed, Got: got}
}

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
