package pricing

import (
	"fmt"
	"math"
	"time"

	"staybook-backend/internal/domain"
)

const (
	MinWeekendMultiplier  = 1.0
	MaxWeekendMultiplier  = 2.0
	MinDiscountMultiplier = 0.1
	MaxDiscountMultiplier = 1.0

	// EarlyBirdLeadDays and LastMinuteLeadDays are inclusive thresholds.
	EarlyBirdLeadDays  = 30
	LastMinuteLeadDays = 7

	day = 24 * time.Hour
)

// Tier identifies which rate multiplier applied to a single night
type Tier string

const (
	TierStandard     Tier = "STANDARD"
	TierWeekend      Tier = "WEEKEND"
	TierSpecialEvent Tier = "SPECIAL_EVENT"
)

// LeadTier identifies the lead-time discount applied to the whole stay
type LeadTier string

const (
	LeadTierNone       LeadTier = "NONE"
	LeadTierEarlyBird  LeadTier = "EARLY_BIRD"
	LeadTierLastMinute LeadTier = "LAST_MINUTE"
)

// Policy holds the rate modifiers of a listing. Construct it with NewPolicy so
// the bounds are checked once; Calculate trusts them.
type Policy struct {
	WeekendMultiplier      float64
	SpecialEventMultiplier float64
	// SpecialEvent is an inclusive day range; nil disables the special-event tier.
	SpecialEvent         *domain.DateRange
	EarlyBirdMultiplier  float64
	LastMinuteMultiplier float64
}

// NightRate is the price of one night of a stay
type NightRate struct {
	Date       string  `json:"date"`
	Tier       Tier    `json:"tier"`
	Multiplier float64 `json:"multiplier"`
	Amount     float64 `json:"amount"`
}

// Quote is the full price breakdown of a stay
type Quote struct {
	BaseRate           float64     `json:"base_rate"`
	Nights             int         `json:"nights"`
	LeadDays           int         `json:"lead_days"`
	NightRates         []NightRate `json:"night_rates"`
	MultiplierSum      float64     `json:"multiplier_sum"`
	BaseTotal          float64     `json:"base_total"`
	LeadTier           LeadTier    `json:"lead_tier"`
	LeadTimeMultiplier float64     `json:"lead_time_multiplier"`
	FinalTotal         float64     `json:"final_total"`
}

// NewPolicy validates the multiplier bounds and returns the policy
func NewPolicy(p Policy) (Policy, error) {
	if p.WeekendMultiplier < MinWeekendMultiplier || p.WeekendMultiplier > MaxWeekendMultiplier {
		return Policy{}, fmt.Errorf("%w: weekend multiplier %.2f not in [%.1f, %.1f]",
			domain.ErrPolicyOutOfBounds, p.WeekendMultiplier, MinWeekendMultiplier, MaxWeekendMultiplier)
	}
	if err := checkDiscount("early-bird", p.EarlyBirdMultiplier); err != nil {
		return Policy{}, err
	}
	if err := checkDiscount("last-minute", p.LastMinuteMultiplier); err != nil {
		return Policy{}, err
	}
	if p.SpecialEvent != nil {
		if p.SpecialEventMultiplier <= 0 {
			return Policy{}, fmt.Errorf("%w: special event multiplier must be positive", domain.ErrPolicyOutOfBounds)
		}
		if p.SpecialEvent.CheckOut.Before(p.SpecialEvent.CheckIn) {
			return Policy{}, fmt.Errorf("%w: special event range ends before it starts", domain.ErrPolicyOutOfBounds)
		}
	}
	return p, nil
}

func checkDiscount(name string, v float64) error {
	if v < MinDiscountMultiplier || v > MaxDiscountMultiplier {
		return fmt.Errorf("%w: %s multiplier %.2f not in [%.1f, %.1f]",
			domain.ErrPolicyOutOfBounds, name, v, MinDiscountMultiplier, MaxDiscountMultiplier)
	}
	return nil
}

// PolicyFromListing builds and validates the policy stored on a listing
func PolicyFromListing(l *domain.Listing) (Policy, error) {
	p := Policy{
		WeekendMultiplier:      l.WeekendMultiplier,
		SpecialEventMultiplier: l.SpecialEventMultiplier,
		EarlyBirdMultiplier:    l.EarlyBirdMultiplier,
		LastMinuteMultiplier:   l.LastMinuteMultiplier,
	}
	if l.SpecialEventStart != nil && l.SpecialEventEnd != nil {
		p.SpecialEvent = &domain.DateRange{CheckIn: *l.SpecialEventStart, CheckOut: *l.SpecialEventEnd}
	}
	return NewPolicy(p)
}

// NightsBetween returns the number of started days between check-in and check-out
func NightsBetween(stay domain.DateRange) int {
	return int(math.Ceil(float64(stay.CheckOut.Sub(stay.CheckIn)) / float64(day)))
}

// LeadDays returns the whole days between booking creation and check-in
func LeadDays(checkIn, bookedAt time.Time) int {
	return int(math.Floor(float64(checkIn.Sub(bookedAt)) / float64(day)))
}

// Calculate prices a stay. Each night picks its tier independently (special
// event, then weekend, then standard); the lead-time discount is applied once
// to the summed total.
func Calculate(baseRate float64, stay domain.DateRange, bookedAt time.Time, p Policy) (Quote, error) {
	if baseRate < 0 {
		return Quote{}, fmt.Errorf("base rate must not be negative")
	}
	nights := NightsBetween(stay)
	if nights < 1 {
		return Quote{}, domain.ErrInvalidDateRange
	}

	q := Quote{
		BaseRate:   baseRate,
		Nights:     nights,
		LeadDays:   LeadDays(stay.CheckIn, bookedAt),
		NightRates: make([]NightRate, 0, nights),
	}

	for i := 0; i < nights; i++ {
		night := stay.CheckIn.AddDate(0, 0, i)
		tier, m := nightTier(night, p)
		q.MultiplierSum += m
		q.NightRates = append(q.NightRates, NightRate{
			Date:       night.Format(domain.DateLayout),
			Tier:       tier,
			Multiplier: m,
			Amount:     baseRate * m,
		})
	}
	q.BaseTotal = baseRate * q.MultiplierSum

	q.LeadTier, q.LeadTimeMultiplier = leadTier(q.LeadDays, p)
	q.FinalTotal = q.BaseTotal * q.LeadTimeMultiplier
	return q, nil
}

func nightTier(night time.Time, p Policy) (Tier, float64) {
	if p.SpecialEvent != nil && withinDays(night, *p.SpecialEvent) {
		return TierSpecialEvent, p.SpecialEventMultiplier
	}
	switch night.Weekday() {
	case time.Saturday, time.Sunday:
		return TierWeekend, p.WeekendMultiplier
	}
	return TierStandard, 1.0
}

func leadTier(leadDays int, p Policy) (LeadTier, float64) {
	switch {
	case leadDays >= EarlyBirdLeadDays:
		return LeadTierEarlyBird, p.EarlyBirdMultiplier
	case leadDays <= LastMinuteLeadDays:
		return LeadTierLastMinute, p.LastMinuteMultiplier
	}
	return LeadTierNone, 1.0
}

// withinDays compares at day granularity, inclusive on both ends.
func withinDays(t time.Time, r domain.DateRange) bool {
	d := t.Format(domain.DateLayout)
	return d >= r.CheckIn.Format(domain.DateLayout) && d <= r.CheckOut.Format(domain.DateLayout)
}

// RoundForDisplay rounds an amount to two decimals
func RoundForDisplay(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rounded returns a copy of the quote with every amount rounded for display.
// Only presentation code should call it.
func (q Quote) Rounded() Quote {
	out := q
	out.NightRates = make([]NightRate, len(q.NightRates))
	for i, n := range q.NightRates {
		n.Amount = RoundForDisplay(n.Amount)
		out.NightRates[i] = n
	}
	out.BaseTotal = RoundForDisplay(q.BaseTotal)
	out.FinalTotal = RoundForDisplay(q.FinalTotal)
	return out
}
