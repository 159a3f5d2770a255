package domain

// Aggregate folds approved reviews into one EnrichedEstablishment per establishment.
//
// Output order equals input order and every establishment appears exactly once.
// Unapproved reviews and reviews whose establishment id matches nothing in the
// input (orphans, deleted establishments) contribute to no aggregate.
func Aggregate(establishments []Establishment, reviews []Review) []EnrichedEstablishment {
	known := make(map[string]struct{}, len(establishments))
	for _, e := range establishments {
		known[e.ID] = struct{}{}
	}

	sums := make(map[string]float64, len(establishments))
	counts := make(map[string]int, len(establishments))
	for _, r := range reviews {
		if !r.Approved || r.EstablishmentID == "" {
			continue
		}
		if _, ok := known[r.EstablishmentID]; !ok {
			continue
		}
		sums[r.EstablishmentID] += ComputeScore(r)
		counts[r.EstablishmentID]++
	}

	result := make([]EnrichedEstablishment, 0, len(establishments))
	for _, e := range establishments {
		enriched := EnrichedEstablishment{Establishment: e, ReviewsCount: counts[e.ID]}
		if n := counts[e.ID]; n > 0 {
			avg := sums[e.ID] / float64(n)
			enriched.FinalScore = &avg
		}
		result = append(result, enriched)
	}
	return result
}
