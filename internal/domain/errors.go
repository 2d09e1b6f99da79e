package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrActionOnExpired       = errors.New("action on expired reservation")
	ErrConflictDetected      = errors.New("conflicting accepted reservation exists")
	ErrEmptySelection        = errors.New("empty selection")
	ErrPolicyOutOfBounds     = errors.New("pricing policy multiplier out of bounds")
	ErrDependentActionFailed = errors.New("dependent action failed")

	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStaleReservation   = errors.New("reservation changed since it was read")
	ErrInvalidDateRange   = errors.New("check-in must be before check-out")
	ErrExclusiveAmenity   = errors.New("amenity conflicts with an exclusive counterpart")
	ErrSuggestionExpired  = errors.New("suggestion request not found or expired")
	ErrListingUnavailable = errors.New("listing is not available for booking")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
)

// ActionStep names one observable step of a compound action.
type ActionStep string

const (
	StepStatusChange ActionStep = "status_change"
	StepNotification ActionStep = "notification"
)

// ActionError reports which step of a compound action failed. A failure in any
// step after StepStatusChange leaves the status change in place.
type ActionError struct {
	Step ActionStep
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Is makes every non status step match ErrDependentActionFailed.
func (e *ActionError) Is(target error) bool {
	return target == ErrDependentActionFailed && e.Step != StepStatusChange
}

// FailedStep returns the step carried by err, if any.
func FailedStep(err error) (ActionStep, bool) {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Step, true
	}
	return "", false
}
