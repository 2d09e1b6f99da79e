package service

import (
	"context"
	"errors"
	"strconv"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/lifecycle"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/metrics"
	"staybook-backend/internal/repository"
)

// transitioner runs one lifecycle action: decide, persist, then notify.
// It is shared by the reservation and suggestion services.
type transitioner struct {
	resRepo  repository.ReservationRepository
	machine  *lifecycle.Machine
	notifier Notifier
	metrics  *metrics.ReservationMetrics
}

// apply persists the transition the machine allows for req. A failed write is
// reported as a status_change ActionError so callers can tell it apart from a
// failed notification.
func (t *transitioner) apply(ctx context.Context, r *domain.Reservation, req lifecycle.Request, existing []domain.Reservation) (*domain.Reservation, error) {
	logger.EnterMethod("transitioner.apply", "reservationID", r.ID, "action", req.Action, "actorID", req.Actor.UserID)

	next, err := t.machine.Next(*r, req, existing)
	if err != nil {
		t.metrics.ObserveTransition(string(req.Action), outcomeOf(err))
		logger.ExitMethodWithError("transitioner.apply", err, "reservationID", r.ID)
		return nil, err
	}

	updated, err := t.resRepo.UpdateStatus(ctx, r.ID, next.From, next.To, req.Actor.UserID, next.Patch)
	if err != nil {
		t.metrics.ObserveTransition(string(req.Action), outcomeOf(err))
		logger.ExitMethodWithError("transitioner.apply", err, "reservationID", r.ID, "step", domain.StepStatusChange)
		return nil, &domain.ActionError{Step: domain.StepStatusChange, Err: err}
	}

	t.metrics.ObserveTransition(string(req.Action), "ok")
	logger.InfoContext(ctx, "Reservation status changed", "reservationID", r.ID, "from", next.From, "to", next.To, "actorID", req.Actor.UserID)
	logger.ExitMethod("transitioner.apply", "reservationID", r.ID, "status", updated.Status)
	return updated, nil
}

// notify runs the dependent notification step. The status change it follows
// is never undone.
func (t *transitioner) notify(ctx context.Context, kind domain.NotificationKind, targets []int32, attrs map[string]string) error {
	if len(targets) == 0 {
		return nil
	}
	if err := t.notifier.Notify(ctx, kind, targets, attrs); err != nil {
		t.metrics.ObserveDependentFailure(string(domain.StepNotification))
		logger.WarnContext(ctx, "Dependent notification failed", "kind", kind, "targets", targets, "error", err)
		return &domain.ActionError{Step: domain.StepNotification, Err: err}
	}
	return nil
}

func reservationAttrs(r *domain.Reservation) map[string]string {
	attrs := map[string]string{
		"reservation_id": strconv.Itoa(int(r.ID)),
		"property_id":    strconv.Itoa(int(r.PropertyID)),
		"check_in":       r.CheckIn.Format(domain.DateLayout),
		"check_out":      r.CheckOut.Format(domain.DateLayout),
		"status":         string(r.Status),
	}
	if r.AlternatePropertyID != nil {
		attrs["alternate_property_id"] = strconv.Itoa(int(*r.AlternatePropertyID))
	}
	return attrs
}

// outcomeOf classifies err for the transitions metric.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrActionOnExpired):
		return "expired"
	case errors.Is(err, domain.ErrConflictDetected):
		return "conflict"
	case errors.Is(err, domain.ErrEmptySelection):
		return "empty_selection"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrStaleReservation):
		return "stale"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	}
	return "error"
}

// otherParties returns the owner and requester of r, minus the actor.
func otherParties(r *domain.Reservation, actorID int32) []int32 {
	var ids []int32
	for _, id := range []int32{r.OwnerID, r.RequesterID} {
		if id != actorID && (len(ids) == 0 || ids[0] != id) {
			ids = append(ids, id)
		}
	}
	return ids
}
