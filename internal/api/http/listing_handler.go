package http

import (
	"net/http"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/service"
)

type ListingHandler struct {
	listingSvc  service.ListingService
	calendarSvc service.CalendarService
}

func NewListingHandler(listingSvc service.ListingService, calendarSvc service.CalendarService) *ListingHandler {
	return &ListingHandler{listingSvc: listingSvc, calendarSvc: calendarSvc}
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req createListingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	pricing, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}
	l := &domain.Listing{
		Kind:                   domain.ListingKind(req.Kind),
		Title:                  req.Title,
		Address:                req.Address,
		BaseRate:               pricing.BaseRate,
		WeekendMultiplier:      pricing.WeekendMultiplier,
		SpecialEventMultiplier: pricing.SpecialEventMultiplier,
		SpecialEventStart:      pricing.SpecialEventStart,
		SpecialEventEnd:        pricing.SpecialEventEnd,
		EarlyBirdMultiplier:    pricing.EarlyBirdMultiplier,
		LastMinuteMultiplier:   pricing.LastMinuteMultiplier,
		Amenities:              req.Amenities,
		Status:                 domain.ListingStatus(req.Status),
	}
	if err := h.listingSvc.CreateListing(r.Context(), actor, l); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	listings, err := h.listingSvc.ListMyListings(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	l, err := h.listingSvc.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListingHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req pricingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}
	l, err := h.listingSvc.UpdatePricing(r.Context(), actor, id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListingHandler) ToggleAmenity(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req toggleAmenityRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	l, err := h.listingSvc.ToggleAmenity(r.Context(), actor, id, req.Amenity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// Calendar returns the month view. Missing year or month fall back to the
// current month; property_id narrows it to one listing.
func (h *ListingHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	propertyID, err := queryInt32(r, "property_id")
	if err != nil {
		writeError(w, err)
		return
	}
	year, err := queryInt32(r, "year")
	if err != nil {
		writeError(w, err)
		return
	}
	month, err := queryInt32(r, "month")
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := h.calendarSvc.GetMonth(r.Context(), actor, propertyID, int(year), time.Month(month))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *ListingHandler) target(w http.ResponseWriter, r *http.Request) (domain.Actor, int32, bool) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return domain.Actor{}, 0, false
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return domain.Actor{}, 0, false
	}
	return actor, id, true
}
