package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/lifecycle"
	"staybook-backend/internal/service"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type createReservationRequest struct {
	PropertyID  int32  `json:"property_id" validate:"required,gt=0"`
	CheckIn     string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut    string `json:"check_out" validate:"required,datetime=2006-01-02"`
	RequestNote string `json:"request_note" validate:"max=1000"`
}

type confirmPaymentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required,max=128"`
}

type suggestPropertyRequest struct {
	PropertyID int32 `json:"property_id"`
}

type notifyOperatorsRequest struct {
	OperatorIDs []int32 `json:"operator_ids" validate:"dive,gt=0"`
	SelectAll   bool    `json:"select_all"`
}

type pricingRequest struct {
	BaseRate               float64 `json:"base_rate" validate:"gt=0"`
	WeekendMultiplier      float64 `json:"weekend_multiplier" validate:"gte=0"`
	SpecialEventMultiplier float64 `json:"special_event_multiplier" validate:"gte=0"`
	SpecialEventStart      string  `json:"special_event_start" validate:"required_with=SpecialEventEnd"`
	SpecialEventEnd        string  `json:"special_event_end" validate:"required_with=SpecialEventStart"`
	EarlyBirdMultiplier    float64 `json:"early_bird_multiplier" validate:"gte=0"`
	LastMinuteMultiplier   float64 `json:"last_minute_multiplier" validate:"gte=0"`
}

type createListingRequest struct {
	Kind      string   `json:"kind" validate:"omitempty,oneof=PROPERTY VEHICLE"`
	Title     string   `json:"title" validate:"required,max=200"`
	Address   string   `json:"address" validate:"required,max=500"`
	Amenities []string `json:"amenities" validate:"dive,required"`
	Status    string   `json:"status" validate:"omitempty,oneof=PENDING AVAILABLE UNAVAILABLE"`
	pricingRequest
}

type toggleAmenityRequest struct {
	Amenity string `json:"amenity" validate:"required,max=64"`
}

type reservationResponse struct {
	Reservation       *domain.Reservation       `json:"reservation"`
	Actions           []lifecycle.Action        `json:"actions,omitempty"`
	SuggestionRequest *domain.SuggestionRequest `json:"suggestion_request,omitempty"`
	Warnings          []string                  `json:"warnings,omitempty"`
}

type notificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	TotalCount    int32                 `json:"total_count"`
}

func decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("malformed request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return badRequest("invalid request: %v", err)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, badRequest("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func pathID(r *http.Request, name string) (int32, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || v <= 0 {
		return 0, badRequest("invalid %s", name)
	}
	return int32(v), nil
}

func queryInt32(r *http.Request, name string) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, badRequest("invalid %s", name)
	}
	return int32(v), nil
}

func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, badRequest("invalid %s", name)
	}
	return &v, nil
}

func (p pricingRequest) toInput() (service.PricingInput, error) {
	start, err := optionalDate(p.SpecialEventStart)
	if err != nil {
		return service.PricingInput{}, err
	}
	end, err := optionalDate(p.SpecialEventEnd)
	if err != nil {
		return service.PricingInput{}, err
	}
	return service.PricingInput{
		BaseRate:               p.BaseRate,
		WeekendMultiplier:      p.WeekendMultiplier,
		SpecialEventMultiplier: p.SpecialEventMultiplier,
		SpecialEventStart:      start,
		SpecialEventEnd:        end,
		EarlyBirdMultiplier:    p.EarlyBirdMultiplier,
		LastMinuteMultiplier:   p.LastMinuteMultiplier,
	}, nil
}
