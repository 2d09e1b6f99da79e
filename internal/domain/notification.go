package domain

type NotificationKind string

const (
	NotificationReservationRequested NotificationKind = "RESERVATION_REQUESTED"
	NotificationBookingAccepted      NotificationKind = "BOOKING_ACCEPTED"
	NotificationBookingRejected      NotificationKind = "BOOKING_REJECTED"
	NotificationAlternateSuggested   NotificationKind = "ALTERNATE_SUGGESTED"
	NotificationReservationPublished NotificationKind = "RESERVATION_PUBLISHED"
	NotificationPaymentConfirmed     NotificationKind = "PAYMENT_CONFIRMED"
	NotificationReservationCanceled  NotificationKind = "RESERVATION_CANCELED"
	NotificationActionReminder       NotificationKind = "ACTION_REMINDER"
)

type Notification struct {
	ID         int32             `json:"id"`
	UserID     int32             `json:"user_id"`
	Kind       NotificationKind  `json:"kind"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  string            `json:"created_on"`
}
