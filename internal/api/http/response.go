package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// badRequestError marks malformed or invalid input.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

// statusFor maps a service error onto an HTTP status and a stable code.
func statusFor(err error) (int, string) {
	var br *badRequestError
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrInvalidMonth):
		return http.StatusBadRequest, "invalid_month"
	case errors.Is(err, errNoActor):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrConflictDetected):
		return http.StatusConflict, "conflict_detected"
	case errors.Is(err, domain.ErrStaleReservation):
		return http.StatusConflict, "stale_reservation"
	case errors.Is(err, domain.ErrActionOnExpired):
		return http.StatusGone, "action_on_expired"
	case errors.Is(err, domain.ErrSuggestionExpired):
		return http.StatusGone, "suggestion_expired"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, "invalid_transition"
	case errors.Is(err, domain.ErrEmptySelection):
		return http.StatusUnprocessableEntity, "empty_selection"
	case errors.Is(err, domain.ErrPolicyOutOfBounds):
		return http.StatusUnprocessableEntity, "policy_out_of_bounds"
	case errors.Is(err, domain.ErrInvalidDateRange):
		return http.StatusUnprocessableEntity, "invalid_date_range"
	case errors.Is(err, domain.ErrExclusiveAmenity):
		return http.StatusUnprocessableEntity, "exclusive_amenity"
	case errors.Is(err, domain.ErrListingUnavailable):
		return http.StatusUnprocessableEntity, "listing_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Unhandled service error", "error", err)
		msg = "internal error"
	}
	writeMessage(w, status, code, msg)
}

func writeMessage(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// partialFailure reports whether err only concerns a step after the status
// change, in which case the response still carries the updated reservation.
func partialFailure(err error) ([]string, bool) {
	if !errors.Is(err, domain.ErrDependentActionFailed) {
		return nil, false
	}
	step, _ := domain.FailedStep(err)
	return []string{fmt.Sprintf("%s: %v", step, errors.Unwrap(err))}, true
}
