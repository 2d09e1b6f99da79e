package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusAccepted  ReservationStatus = "ACCEPTED"
	ReservationStatusRejected  ReservationStatus = "REJECTED"
	ReservationStatusSuggested ReservationStatus = "SUGGESTED"
	ReservationStatusPublished ReservationStatus = "PUBLISHED"
	ReservationStatusPaid      ReservationStatus = "PAID"
	ReservationStatusCanceled  ReservationStatus = "CANCELED"
	// ReservationStatusExpired is only ever computed at read time, never stored.
	ReservationStatusExpired ReservationStatus = "EXPIRED"
)

// DateLayout is the day-granular layout used for day membership and API dates.
const DateLayout = "2006-01-02"

// DateRange is a half-open [CheckIn, CheckOut) interval.
type DateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

func (r DateRange) Valid() bool {
	return r.CheckIn.Before(r.CheckOut)
}

type Reservation struct {
	ID          int32     `json:"id"`
	PropertyID  int32     `json:"property_id"`
	OwnerID     int32     `json:"owner_id"` // snapshot of the listing owner at creation time
	RequesterID int32     `json:"requester_id"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	CreatedOn   time.Time `json:"created_on"`
	// BlockUntil is the deadline for the owner to act on a pending reservation.
	BlockUntil          time.Time         `json:"block_until"`
	TotalPrice          float64           `json:"total_price"`
	RequestNote         string            `json:"request_note"`
	Status              ReservationStatus `json:"status"`
	AlternatePropertyID *int32            `json:"alternate_property_id,omitempty"`
	TransactionID       string            `json:"transaction_id,omitempty"`
	UpdatedBy           *int32            `json:"updated_by,omitempty"`
	UpdatedOn           time.Time         `json:"updated_on"`
}

func (r Reservation) Range() DateRange {
	return DateRange{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}

// StatusPatch carries the fields written together with a status change.
// UpdatedOn is the decision time taken from the service clock.
type StatusPatch struct {
	AlternatePropertyID *int32
	TransactionID       string
	UpdatedOn           time.Time
}

// SuggestionRequest lives only for the duration of the reject follow-up dialog.
type SuggestionRequest struct {
	ID                  string    `json:"id"`
	ReservationID       int32     `json:"reservation_id"`
	RequesterID         int32     `json:"requester_id"`
	RejectedBy          int32     `json:"rejected_by"`
	AlternatePropertyID *int32    `json:"alternate_property_id,omitempty"`
	OperatorIDs         []int32   `json:"operator_ids,omitempty"`
	CreatedOn           time.Time `json:"created_on"`
}

// IsExpired reports whether a pending reservation is past its block-until instant.
func (r Reservation) IsExpired(now time.Time) bool {
	return r.Status == ReservationStatusPending && now.After(r.BlockUntil)
}

// EffectiveStatus is the status every read path should show. Expiry is derived
// here and never persisted.
func (r Reservation) EffectiveStatus(now time.Time) ReservationStatus {
	if r.IsExpired(now) {
		return ReservationStatusExpired
	}
	return r.Status
}
