package fitdna

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrReferenceMissing - no reference entry for the exact (age, gender, item) triple.
	// Deliberately no interpolation or nearest-age fallback; callers decide
	// whether a missing entry is fatal or tolerable.
	ErrReferenceMissing = errors.New("reference entry missing")

	// ErrDegenerateReference - reference entry has a non-positive standard
	// deviation, a z-score cannot be computed from it.
	ErrDegenerateReference = errors.New("degenerate reference entry")

	ErrInvalidInput   = errors.New("invalid input")
	ErrResultNotFound = errors.New("fitdna result not found")
	ErrNoCohortData   = errors.New("no cohort data")
)

// InsufficientAxisDataError - a required axis ended up with zero usable
// measurement items after skipping the ones without a usable reference entry.
type InsufficientAxisDataError struct {
	Axis          Axis
	AcceptedItems []string
}

func (e *InsufficientAxisDataError) Error() string {
	return fmt.Sprintf(
		"at least one %s measurement is required among: %s",
		e.Axis, strings.Join(e.AcceptedItems, ", "),
	)
}

func NewInsufficientAxisDataError(axis Axis, acceptedItems []string) *InsufficientAxisDataError {
	return &InsufficientAxisDataError{
		Axis:          axis,
		AcceptedItems: acceptedItems,
	}
}
