// Package suggestion holds the selection rules of the reject follow-up
// dialog: candidate filtering, operator selection and the transient request
// registry.
package suggestion

import (
	"fmt"
	"strings"

	"staybook-backend/internal/domain"
)

// CandidateFilter narrows alternate properties. Nil bounds are open; set
// bounds are inclusive.
type CandidateFilter struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
}

func (f CandidateFilter) matches(l domain.Listing) bool {
	if q := strings.TrimSpace(f.Query); q != "" {
		if !strings.Contains(strings.ToLower(l.Address), strings.ToLower(q)) {
			return false
		}
	}
	if f.MinPrice != nil && l.BaseRate < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.BaseRate > *f.MaxPrice {
		return false
	}
	return true
}

// FilterCandidates drops the originating property and anything the filter
// rejects, keeping input order.
func FilterCandidates(candidates []domain.Listing, originPropertyID int32, f CandidateFilter) []domain.Listing {
	out := make([]domain.Listing, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == originPropertyID {
			continue
		}
		if f.matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// PickCandidate returns the chosen alternate from the offered list.
func PickCandidate(candidates []domain.Listing, propertyID int32) (*domain.Listing, error) {
	if propertyID == 0 {
		return nil, fmt.Errorf("%w: no alternate property chosen", domain.ErrEmptySelection)
	}
	for i := range candidates {
		if candidates[i].ID == propertyID {
			return &candidates[i], nil
		}
	}
	return nil, fmt.Errorf("%w: property %d is not an offered alternate", domain.ErrNotFound, propertyID)
}

// ResolveOperators turns a multi-select (optionally select-all) into the
// operator ids to notify. An empty result is a validation error.
func ResolveOperators(operators []domain.User, selected []int32, selectAll bool) ([]int32, error) {
	known := make(map[int32]bool, len(operators))
	for _, op := range operators {
		known[op.ID] = true
	}

	var ids []int32
	if selectAll {
		for _, op := range operators {
			ids = append(ids, op.ID)
		}
	} else {
		seen := make(map[int32]bool, len(selected))
		for _, id := range selected {
			if seen[id] {
				continue
			}
			if !known[id] {
				return nil, fmt.Errorf("%w: user %d is not an operator", domain.ErrNotFound, id)
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no operators chosen", domain.ErrEmptySelection)
	}
	return ids, nil
}
