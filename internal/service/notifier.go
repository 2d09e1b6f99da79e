package service

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository"
)

type template struct {
	title   string
	message func(attrs map[string]string) string
}

var templates = map[domain.NotificationKind]template{
	domain.NotificationReservationRequested: {"New Reservation Request", func(a map[string]string) string {
		return fmt.Sprintf("A stay at property #%s from %s to %s is waiting for your answer", a["property_id"], a["check_in"], a["check_out"])
	}},
	domain.NotificationBookingAccepted: {"Booking Accepted", func(a map[string]string) string {
		return fmt.Sprintf("Your reservation #%s from %s to %s was accepted", a["reservation_id"], a["check_in"], a["check_out"])
	}},
	domain.NotificationBookingRejected: {"Booking Rejected", func(a map[string]string) string {
		return fmt.Sprintf("Your reservation #%s could not be accepted", a["reservation_id"])
	}},
	domain.NotificationAlternateSuggested: {"Alternate Property Suggested", func(a map[string]string) string {
		return fmt.Sprintf("Property #%s is suggested instead of your rejected reservation #%s", a["alternate_property_id"], a["reservation_id"])
	}},
	domain.NotificationReservationPublished: {"Reservation Needs a Home", func(a map[string]string) string {
		return fmt.Sprintf("Reservation #%s from %s to %s was published for operators", a["reservation_id"], a["check_in"], a["check_out"])
	}},
	domain.NotificationPaymentConfirmed: {"Payment Confirmed", func(a map[string]string) string {
		return fmt.Sprintf("Payment %s for reservation #%s was confirmed", a["transaction_id"], a["reservation_id"])
	}},
	domain.NotificationReservationCanceled: {"Reservation Canceled", func(a map[string]string) string {
		return fmt.Sprintf("Reservation #%s from %s to %s was canceled", a["reservation_id"], a["check_in"], a["check_out"])
	}},
	domain.NotificationActionReminder: {"Reservation Awaiting Action", func(a map[string]string) string {
		return fmt.Sprintf("Reservation #%s expires at %s unless you accept or reject it", a["reservation_id"], a["block_until"])
	}},
}

type notifier struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	emailSvc EmailService
}

// NewNotifier stores an inbox entry for every target and mails a copy.
// emailSvc may be nil to skip mail.
func NewNotifier(noteRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc EmailService) Notifier {
	return &notifier{noteRepo: noteRepo, userRepo: userRepo, emailSvc: emailSvc}
}

func (n *notifier) Notify(ctx context.Context, kind domain.NotificationKind, targetIDs []int32, attrs map[string]string) error {
	logger.EnterMethod("notifier.Notify", "kind", kind, "targets", len(targetIDs))

	tpl, ok := templates[kind]
	if !ok {
		err := fmt.Errorf("unknown notification kind %q", kind)
		logger.ExitMethodWithError("notifier.Notify", err)
		return err
	}

	shared := maps.Clone(attrs)
	if shared == nil {
		shared = map[string]string{}
	}
	shared["type"] = string(kind)
	shared["correlation_id"] = uuid.NewString()
	message := tpl.message(shared)

	var errs []error
	for _, id := range targetIDs {
		note := &domain.Notification{
			UserID:     id,
			Kind:       kind,
			Title:      tpl.title,
			Message:    message,
			Attributes: maps.Clone(shared),
		}
		if err := n.noteRepo.Create(ctx, note); err != nil {
			errs = append(errs, fmt.Errorf("inbox for user %d: %w", id, err))
			continue
		}
		if n.emailSvc == nil {
			continue
		}
		user, err := n.userRepo.GetByID(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("email for user %d: %w", id, err))
			continue
		}
		if err := n.emailSvc.Send(ctx, user.Email, user.Name, tpl.title, message); err != nil {
			errs = append(errs, fmt.Errorf("email for user %d: %w", id, err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		logger.ExitMethodWithError("notifier.Notify", err, "kind", kind, "failed", len(errs))
	} else {
		logger.ExitMethod("notifier.Notify", "kind", kind, "correlationID", shared["correlation_id"])
	}
	return err
}
