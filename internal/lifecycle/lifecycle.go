// Package lifecycle computes legal reservation status transitions. It never
// writes anything: callers persist the returned Transition.
package lifecycle

import (
	"fmt"

	"staybook-backend/internal/availability"
	"staybook-backend/internal/clock"
	"staybook-backend/internal/domain"
)

type Action string

const (
	ActionAccept         Action = "ACCEPT"
	ActionReject         Action = "REJECT"
	ActionConfirmPayment Action = "CONFIRM_PAYMENT"
	ActionSuggest        Action = "SUGGEST"
	ActionNotify         Action = "NOTIFY"
	ActionCancel         Action = "CANCEL"
)

// Request describes an attempted action and the data its guard needs.
type Request struct {
	Action              Action
	Actor               domain.Actor
	TransactionID       string
	AlternatePropertyID int32
	OperatorIDs         []int32
}

// Transition is the intended mutation for the store to persist.
type Transition struct {
	Action Action
	From   domain.ReservationStatus
	To     domain.ReservationStatus
	Patch  domain.StatusPatch
}

type rule struct {
	from  domain.ReservationStatus
	to    domain.ReservationStatus
	guard func(r domain.Reservation, req Request, existing []domain.Reservation) error
}

var rules = map[Action][]rule{
	ActionAccept: {
		{from: domain.ReservationStatusPending, to: domain.ReservationStatusAccepted, guard: guardAccept},
	},
	ActionReject: {
		{from: domain.ReservationStatusPending, to: domain.ReservationStatusRejected, guard: guardOwnerOrStaff},
	},
	ActionConfirmPayment: {
		{from: domain.ReservationStatusAccepted, to: domain.ReservationStatusPaid, guard: guardPayment},
	},
	ActionSuggest: {
		{from: domain.ReservationStatusRejected, to: domain.ReservationStatusSuggested, guard: guardSuggest},
	},
	ActionNotify: {
		{from: domain.ReservationStatusRejected, to: domain.ReservationStatusPublished, guard: guardNotify},
	},
	ActionCancel: {
		{from: domain.ReservationStatusPending, to: domain.ReservationStatusCanceled, guard: guardRequesterOrStaff},
		{from: domain.ReservationStatusAccepted, to: domain.ReservationStatusCanceled, guard: guardRequesterOrStaff},
	},
}

type Machine struct {
	clock clock.Clock
}

func NewMachine(c clock.Clock) *Machine {
	return &Machine{clock: c}
}

// Next validates req against r and returns the transition to persist. Expiry
// is checked before anything else, whatever the action. existing should hold
// the latest committed reservations of the same property; it is only read for
// Accept.
func (m *Machine) Next(r domain.Reservation, req Request, existing []domain.Reservation) (Transition, error) {
	now := m.clock.Now()
	if r.IsExpired(now) {
		return Transition{}, fmt.Errorf("%w: reservation %d blocked until %s", domain.ErrActionOnExpired, r.ID, r.BlockUntil.Format("2006-01-02 15:04"))
	}

	candidates, ok := rules[req.Action]
	if !ok {
		return Transition{}, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidTransition, req.Action)
	}
	for _, rl := range candidates {
		if rl.from != r.Status {
			continue
		}
		if err := rl.guard(r, req, existing); err != nil {
			return Transition{}, err
		}
		t := Transition{Action: req.Action, From: rl.from, To: rl.to, Patch: domain.StatusPatch{UpdatedOn: now}}
		switch req.Action {
		case ActionSuggest:
			alt := req.AlternatePropertyID
			t.Patch.AlternatePropertyID = &alt
		case ActionConfirmPayment:
			t.Patch.TransactionID = req.TransactionID
		}
		return t, nil
	}
	return Transition{}, fmt.Errorf("%w: cannot %s a %s reservation", domain.ErrInvalidTransition, req.Action, r.Status)
}

// AvailableActions lists the actions actor could attempt right now, ignoring
// selection-dependent guards. Used to drive action menus.
func (m *Machine) AvailableActions(r domain.Reservation, actor domain.Actor) []Action {
	if r.IsExpired(m.clock.Now()) {
		return nil
	}
	order := []Action{ActionAccept, ActionReject, ActionConfirmPayment, ActionSuggest, ActionNotify, ActionCancel}
	var out []Action
	for _, a := range order {
		for _, rl := range rules[a] {
			if rl.from != r.Status {
				continue
			}
			if a == ActionConfirmPayment || authorized(a, r, actor) {
				out = append(out, a)
			}
		}
	}
	return out
}

func authorized(a Action, r domain.Reservation, actor domain.Actor) bool {
	if a == ActionCancel {
		return actor.UserID == r.RequesterID || actor.Role.IsStaff()
	}
	return actor.UserID == r.OwnerID || actor.Role.IsStaff()
}

func guardOwnerOrStaff(r domain.Reservation, req Request, _ []domain.Reservation) error {
	if req.Actor.UserID != r.OwnerID && !req.Actor.Role.IsStaff() {
		return fmt.Errorf("%w: user %d does not own property %d", domain.ErrUnauthorized, req.Actor.UserID, r.PropertyID)
	}
	return nil
}

func guardRequesterOrStaff(r domain.Reservation, req Request, _ []domain.Reservation) error {
	if req.Actor.UserID != r.RequesterID && !req.Actor.Role.IsStaff() {
		return fmt.Errorf("%w: user %d did not request reservation %d", domain.ErrUnauthorized, req.Actor.UserID, r.ID)
	}
	return nil
}

func guardAccept(r domain.Reservation, req Request, existing []domain.Reservation) error {
	if err := guardOwnerOrStaff(r, req, existing); err != nil {
		return err
	}
	if availability.HasConflict(r, existing) {
		return fmt.Errorf("%w: property %d is already booked between %s and %s", domain.ErrConflictDetected,
			r.PropertyID, r.CheckIn.Format(domain.DateLayout), r.CheckOut.Format(domain.DateLayout))
	}
	return nil
}

func guardPayment(_ domain.Reservation, req Request, _ []domain.Reservation) error {
	if req.TransactionID == "" {
		return fmt.Errorf("%w: payment confirmation carries no transaction id", domain.ErrInvalidTransition)
	}
	return nil
}

func guardSuggest(r domain.Reservation, req Request, existing []domain.Reservation) error {
	if err := guardOwnerOrStaff(r, req, existing); err != nil {
		return err
	}
	if req.AlternatePropertyID == 0 {
		return fmt.Errorf("%w: no alternate property chosen", domain.ErrEmptySelection)
	}
	if req.AlternatePropertyID == r.PropertyID {
		return fmt.Errorf("%w: alternate property must differ from the rejected one", domain.ErrInvalidTransition)
	}
	return nil
}

func guardNotify(r domain.Reservation, req Request, existing []domain.Reservation) error {
	if err := guardOwnerOrStaff(r, req, existing); err != nil {
		return err
	}
	if len(req.OperatorIDs) == 0 {
		return fmt.Errorf("%w: no operators chosen", domain.ErrEmptySelection)
	}
	return nil
}
