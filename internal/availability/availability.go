// Package availability answers overlap and per-day occupancy questions over a
// set of reservations. Every function is total: empty input gives empty output.
package availability

import (
	"sort"
	"strings"
	"time"

	"staybook-backend/internal/domain"
)

// BucketPickup collects any status whose text mentions a pickup or handoff.
const BucketPickup = "Pickup"

var pickupTokens = []string{"pickup", "pick_up", "pick-up", "handoff", "hand_off", "hand-off"}

// Overlaps uses half-open semantics: a check-out on day N and a check-in on
// day N do not overlap.
func Overlaps(a, b domain.DateRange) bool {
	return a.CheckIn.Before(b.CheckOut) && b.CheckIn.Before(a.CheckOut)
}

// HasConflict reports whether an accepted reservation on the candidate's
// property overlaps it. Pending holds never conflict.
func HasConflict(candidate domain.Reservation, existing []domain.Reservation) bool {
	for i := range existing {
		if isConflictSource(candidate, existing[i]) {
			return true
		}
	}
	return false
}

// Conflicts returns every reservation that would block candidate.
func Conflicts(candidate domain.Reservation, existing []domain.Reservation) []domain.Reservation {
	var out []domain.Reservation
	for i := range existing {
		if isConflictSource(candidate, existing[i]) {
			out = append(out, existing[i])
		}
	}
	return out
}

func isConflictSource(candidate, other domain.Reservation) bool {
	if other.ID != 0 && other.ID == candidate.ID {
		return false
	}
	if other.PropertyID != candidate.PropertyID {
		return false
	}
	if other.Status != domain.ReservationStatusAccepted {
		return false
	}
	return Overlaps(candidate.Range(), other.Range())
}

// DayMembership reports whether day falls within the reservation, inclusive of
// both the check-in and check-out days. Comparison is on formatted dates so
// the time of day is discarded.
func DayMembership(day time.Time, r domain.Reservation) bool {
	d := day.Format(domain.DateLayout)
	return d >= r.CheckIn.Format(domain.DateLayout) && d <= r.CheckOut.Format(domain.DateLayout)
}

// OnDay returns the reservations that include day.
func OnDay(day time.Time, reservations []domain.Reservation) []domain.Reservation {
	var out []domain.Reservation
	for i := range reservations {
		if DayMembership(day, reservations[i]) {
			out = append(out, reservations[i])
		}
	}
	return out
}

// BucketFor maps a status to its counting bucket.
func BucketFor(status domain.ReservationStatus) string {
	lower := strings.ToLower(string(status))
	for _, tok := range pickupTokens {
		if strings.Contains(lower, tok) {
			return BucketPickup
		}
	}
	return string(status)
}

// StatusCounts buckets the reservations of a single day by effective status.
func StatusCounts(dayReservations []domain.Reservation, now time.Time) map[string]int {
	counts := make(map[string]int)
	for i := range dayReservations {
		counts[BucketFor(dayReservations[i].EffectiveStatus(now))]++
	}
	return counts
}

// AcceptedNights returns the sorted distinct nights of a property already
// covered by accepted reservations between from and to (half-open).
func AcceptedNights(propertyID int32, from, to time.Time, reservations []domain.Reservation) []string {
	seen := make(map[string]struct{})
	window := domain.DateRange{CheckIn: from, CheckOut: to}
	for _, r := range reservations {
		if r.PropertyID != propertyID || r.Status != domain.ReservationStatusAccepted {
			continue
		}
		if !Overlaps(window, r.Range()) {
			continue
		}
		for n := r.CheckIn; n.Before(r.CheckOut); n = n.AddDate(0, 0, 1) {
			if n.Before(from) || !n.Before(to) {
				continue
			}
			seen[n.Format(domain.DateLayout)] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
