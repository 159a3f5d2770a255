package domain

import (
	"sort"
	"strings"
)

// Filters expresses the predicates of the map listing.
//
// ShowEvaluated/ShowUnevaluated select on "has any approved review": both true
// keeps everything, exactly one restricts, both false yields nothing.
type Filters struct {
	HasWater        bool
	HasBathroom     bool
	HasPower        bool
	ShowEvaluated   bool
	ShowUnevaluated bool
	Query           string
}

// DefaultFilters mirrors the listing's initial state: evaluated establishments only.
func DefaultFilters() Filters {
	return Filters{ShowEvaluated: true}
}

// Filter returns the establishments that satisfy every active predicate, in input order.
func Filter(list []EnrichedEstablishment, f Filters) []EnrichedEstablishment {
	result := make([]EnrichedEstablishment, 0, len(list))
	if !f.ShowEvaluated && !f.ShowUnevaluated {
		return result
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	for _, e := range list {
		if f.matches(e, query) {
			result = append(result, e)
		}
	}
	return result
}

// FilterWithSelection is the detail-view variant of Filter: the establishment
// identified by selectedID is appended even when it fails the active filters.
func FilterWithSelection(list []EnrichedEstablishment, f Filters, selectedID string) []EnrichedEstablishment {
	result := Filter(list, f)
	selectedID = strings.TrimSpace(selectedID)
	if selectedID == "" {
		return result
	}
	for _, e := range result {
		if e.ID == selectedID {
			return result
		}
	}
	for _, e := range list {
		if e.ID == selectedID {
			return append(result, e)
		}
	}
	return result
}

func (f Filters) matches(e EnrichedEstablishment, query string) bool {
	evaluated := e.ReviewsCount > 0
	if f.ShowEvaluated != f.ShowUnevaluated {
		if f.ShowEvaluated && !evaluated {
			return false
		}
		if f.ShowUnevaluated && evaluated {
			return false
		}
	}
	if f.HasWater && !e.Amenities.HasWater {
		return false
	}
	if f.HasBathroom && !e.Amenities.HasBathroom {
		return false
	}
	if f.HasPower && !e.Amenities.HasPower {
		return false
	}
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), query) ||
		strings.Contains(strings.ToLower(e.Address), query)
}

// Suggest returns up to limit establishments whose name contains query.
func Suggest(list []EnrichedEstablishment, query string, limit int) []EnrichedEstablishment {
	query = strings.ToLower(strings.TrimSpace(query))
	result := make([]EnrichedEstablishment, 0)
	if query == "" {
		return result
	}
	for _, e := range list {
		if limit > 0 && len(result) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(e.Name), query) {
			result = append(result, e)
		}
	}
	return result
}

// Rank sorts a copy of list ascending by score (worst first). Unscored
// establishments sink to the bottom; ties fall back to CreatedAt then ID.
// A positive limit truncates the result.
func Rank(list []EnrichedEstablishment, limit int) []EnrichedEstablishment {
	ranked := append([]EnrichedEstablishment(nil), list...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch {
		case a.FinalScore == nil && b.FinalScore != nil:
			return false
		case a.FinalScore != nil && b.FinalScore == nil:
			return true
		case a.FinalScore != nil && *a.FinalScore != *b.FinalScore:
			return *a.FinalScore < *b.FinalScore
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
