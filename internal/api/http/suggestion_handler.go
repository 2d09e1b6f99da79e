package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/service"
	"staybook-backend/internal/suggestion"
)

type SuggestionHandler struct {
	suggestionSvc service.SuggestionService
}

func NewSuggestionHandler(suggestionSvc service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionSvc: suggestionSvc}
}

func (h *SuggestionHandler) Open(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	reservationID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := h.suggestionSvc.OpenRequest(r.Context(), actor, reservationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *SuggestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, requestID, ok := h.target(w, r)
	if !ok {
		return
	}
	req, err := h.suggestionSvc.GetRequest(r.Context(), actor, requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// Candidates lists alternate properties. q matches address text; min_price and
// max_price are inclusive bounds on the base rate.
func (h *SuggestionHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	actor, requestID, ok := h.target(w, r)
	if !ok {
		return
	}
	minPrice, err := queryFloat(r, "min_price")
	if err != nil {
		writeError(w, err)
		return
	}
	maxPrice, err := queryFloat(r, "max_price")
	if err != nil {
		writeError(w, err)
		return
	}
	filter := suggestion.CandidateFilter{
		Query:    r.URL.Query().Get("q"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}
	listings, err := h.suggestionSvc.ListCandidates(r.Context(), actor, requestID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": listings})
}

func (h *SuggestionHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	actor, requestID, ok := h.target(w, r)
	if !ok {
		return
	}
	var req suggestPropertyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.suggestionSvc.SuggestProperty(r.Context(), actor, requestID, req.PropertyID)
	writeTransition(w, res, err)
}

func (h *SuggestionHandler) Notify(w http.ResponseWriter, r *http.Request) {
	actor, requestID, ok := h.target(w, r)
	if !ok {
		return
	}
	var req notifyOperatorsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.suggestionSvc.NotifyOperators(r.Context(), actor, requestID, req.OperatorIDs, req.SelectAll)
	writeTransition(w, res, err)
}

func (h *SuggestionHandler) Operators(w http.ResponseWriter, r *http.Request) {
	operators, err := h.suggestionSvc.ListOperators(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"operators": operators})
}

func (h *SuggestionHandler) target(w http.ResponseWriter, r *http.Request) (domain.Actor, string, bool) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return domain.Actor{}, "", false
	}
	return actor, mux.Vars(r)["requestId"], true
}
