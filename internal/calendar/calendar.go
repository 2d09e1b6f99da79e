// Package calendar projects reservations onto calendar days for display.
package calendar

import (
	"time"

	"staybook-backend/internal/availability"
	"staybook-backend/internal/domain"
)

// Day is the read model of one calendar day.
type Day struct {
	Date           string         `json:"date"`
	ReservationIDs []int32        `json:"reservation_ids"`
	Counts         map[string]int `json:"counts"`
	Total          int            `json:"total"`
}

// Month groups the days of one calendar month.
type Month struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Days    []Day      `json:"days"`
	Busiest string     `json:"busiest,omitempty"`
	// AcceptedNights is only filled for a single-property view.
	AcceptedNights []string `json:"accepted_nights,omitempty"`
}

// BuildRange projects every day from first to last, both inclusive.
func BuildRange(first, last time.Time, reservations []domain.Reservation, now time.Time) []Day {
	first = truncateDay(first)
	last = truncateDay(last)
	var days []Day
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		onDay := availability.OnDay(d, reservations)
		ids := make([]int32, 0, len(onDay))
		for _, r := range onDay {
			ids = append(ids, r.ID)
		}
		days = append(days, Day{
			Date:           d.Format(domain.DateLayout),
			ReservationIDs: ids,
			Counts:         availability.StatusCounts(onDay, now),
			Total:          len(onDay),
		})
	}
	return days
}

// BuildMonth projects a whole month and marks its busiest day (earliest wins
// a tie; empty when the month has no reservations).
func BuildMonth(year int, month time.Month, reservations []domain.Reservation, now time.Time) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	m := Month{Year: year, Month: month, Days: BuildRange(first, last, reservations, now)}

	best := 0
	for _, d := range m.Days {
		if d.Total > best {
			best = d.Total
			m.Busiest = d.Date
		}
	}
	return m
}

// ForProperty keeps the reservations of one property; zero keeps all.
func ForProperty(reservations []domain.Reservation, propertyID int32) []domain.Reservation {
	if propertyID == 0 {
		return reservations
	}
	var out []domain.Reservation
	for _, r := range reservations {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
