package suggestion

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"staybook-backend/internal/domain"
)

// Registry keeps SuggestionRequests between the reject and the chosen
// follow-up. Requests are never persisted.
type Registry struct {
	mu       sync.Mutex
	requests map[string]*domain.SuggestionRequest
}

func NewRegistry() *Registry {
	return &Registry{requests: make(map[string]*domain.SuggestionRequest)}
}

// Open registers a new request for a rejected reservation.
func (r *Registry) Open(reservation domain.Reservation, rejectedBy int32, now time.Time) *domain.SuggestionRequest {
	req := &domain.SuggestionRequest{
		ID:            uuid.NewString(),
		ReservationID: reservation.ID,
		RequesterID:   reservation.RequesterID,
		RejectedBy:    rejectedBy,
		CreatedOn:     now,
	}
	r.mu.Lock()
	r.requests[req.ID] = req
	r.mu.Unlock()
	return req
}

// Get returns a copy of the request.
func (r *Registry) Get(id string) (domain.SuggestionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return domain.SuggestionRequest{}, domain.ErrSuggestionExpired
	}
	return *req, nil
}

// Complete records the applied selection and closes the request. It returns
// the final request, or false when it was already closed or purged.
func (r *Registry) Complete(id string, alternatePropertyID *int32, operatorIDs []int32) (domain.SuggestionRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return domain.SuggestionRequest{}, false
	}
	delete(r.requests, id)
	req.AlternatePropertyID = alternatePropertyID
	req.OperatorIDs = append([]int32(nil), operatorIDs...)
	return *req, true
}

// Discard closes the request without a selection.
func (r *Registry) Discard(id string) {
	r.mu.Lock()
	delete(r.requests, id)
	r.mu.Unlock()
}

// Purge drops requests created before cutoff and returns how many went.
func (r *Registry) Purge(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, req := range r.requests {
		if req.CreatedOn.Before(cutoff) {
			delete(r.requests, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}
