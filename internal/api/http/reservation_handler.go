package http

import (
	"net/http"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/service"
)

type ReservationHandler struct {
	reservationSvc service.ReservationService
}

func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req createReservationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		writeError(w, err)
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.reservationSvc.CreateReservation(r.Context(), actor, service.CreateReservationInput{
		PropertyID:  req.PropertyID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		RequestNote: req.RequestNote,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservationResponse{Reservation: res})
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
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
	filter := service.ReservationFilter{
		Scope:      service.ReservationScope(r.URL.Query().Get("scope")),
		PropertyID: propertyID,
		Status:     domain.ReservationStatus(r.URL.Query().Get("status")),
	}
	list, err := h.reservationSvc.ListReservations(r.Context(), actor, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": list})
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	res, actions, err := h.reservationSvc.GetReservation(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationResponse{Reservation: res, Actions: actions})
}

func (h *ReservationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	res, err := h.reservationSvc.AcceptReservation(r.Context(), actor, id)
	writeTransition(w, res, err)
}

func (h *ReservationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	res, req, err := h.reservationSvc.RejectReservation(r.Context(), actor, id)
	warnings, partial := partialFailure(err)
	if err != nil && (!partial || res == nil) {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationResponse{Reservation: res, SuggestionRequest: req, Warnings: warnings})
}

func (h *ReservationHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req confirmPaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.reservationSvc.ConfirmPayment(r.Context(), actor, id, req.TransactionID)
	writeTransition(w, res, err)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	res, err := h.reservationSvc.CancelReservation(r.Context(), actor, id)
	writeTransition(w, res, err)
}

// Quote previews the price of a stay. Amounts are rounded for display only.
func (h *ReservationHandler) Quote(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	checkIn, err := parseDate(r.URL.Query().Get("check_in"))
	if err != nil {
		writeError(w, err)
		return
	}
	checkOut, err := parseDate(r.URL.Query().Get("check_out"))
	if err != nil {
		writeError(w, err)
		return
	}
	q, err := h.reservationSvc.QuoteStay(r.Context(), propertyID, domain.DateRange{CheckIn: checkIn, CheckOut: checkOut})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q.Rounded())
}

func (h *ReservationHandler) target(w http.ResponseWriter, r *http.Request) (domain.Actor, int32, bool) {
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

// writeTransition answers a lifecycle action. A failed notification after a
// kept status change is a 200 carrying the reservation and a warning.
func writeTransition(w http.ResponseWriter, res *domain.Reservation, err error) {
	if warnings, partial := partialFailure(err); partial && res != nil {
		writeJSON(w, http.StatusOK, reservationResponse{Reservation: res, Warnings: warnings})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationResponse{Reservation: res})
}
