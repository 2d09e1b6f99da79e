package domain

import "time"

type ListingStatus string

const (
	ListingStatusPending     ListingStatus = "PENDING"
	ListingStatusAvailable   ListingStatus = "AVAILABLE"
	ListingStatusUnavailable ListingStatus = "UNAVAILABLE"
)

type ListingKind string

const (
	ListingKindProperty ListingKind = "PROPERTY"
	ListingKindVehicle  ListingKind = "VEHICLE"
)

// Listing is a bookable property or vehicle. The multipliers are factors applied
// to BaseRate, never alternate prices.
type Listing struct {
	ID                     int32         `json:"id"`
	OwnerID                int32         `json:"owner_id"`
	Kind                   ListingKind   `json:"kind"`
	Title                  string        `json:"title"`
	Address                string        `json:"address"`
	BaseRate               float64       `json:"base_rate"`
	WeekendMultiplier      float64       `json:"weekend_multiplier"`
	SpecialEventMultiplier float64       `json:"special_event_multiplier"`
	SpecialEventStart      *time.Time    `json:"special_event_start,omitempty"`
	SpecialEventEnd        *time.Time    `json:"special_event_end,omitempty"`
	EarlyBirdMultiplier    float64       `json:"early_bird_multiplier"`
	LastMinuteMultiplier   float64       `json:"last_minute_multiplier"`
	Amenities              []string      `json:"amenities"`
	Status                 ListingStatus `json:"status"`
	CreatedOn              time.Time     `json:"created_on"`
}

// ListingScope narrows which listings an actor may offer as alternates.
type ListingScope struct {
	ActorID int32
	Role    UserRole
}
