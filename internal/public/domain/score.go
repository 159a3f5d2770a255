package domain

import "math"

const (
	serviceWeight = 0.6
	waitWeight    = 0.3
	infraWeight   = 0.1
)

// ComputeScore maps one review to its final quality score.
//
// final = 0.6*service + 0.3*wait_score + 0.1*infra_score. The function is total:
// missing inputs count as zero and any non-finite result collapses to 0.
func ComputeScore(r Review) float64 {
	service := 0.0
	switch {
	case r.ServiceRating != nil:
		service = *r.ServiceRating
	case r.Rating != nil:
		service = *r.Rating
	}

	wait := 0
	if r.WaitTimeMinutes != nil {
		wait = *r.WaitTimeMinutes
	}

	final := service*serviceWeight + float64(WaitScore(wait))*waitWeight + float64(InfraScore(r.Amenities))*infraWeight
	if math.IsNaN(final) || math.IsInf(final, 0) {
		return 0
	}
	return final
}

// WaitScore buckets a wait in minutes: <=5 → 5, <=10 → 3, otherwise 1.
func WaitScore(minutes int) int {
	switch {
	case minutes <= 5:
		return 5
	case minutes <= 10:
		return 3
	default:
		return 1
	}
}

// InfraScore maps the amenity count {0,1,2,3} to {1,2,3,5}.
func InfraScore(a Amenities) int {
	switch a.Count() {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 3
	default:
		return 5
	}
}
