package domain

import "time"

// Position is a WGS84 coordinate pair.
type Position struct {
	Lat float64
	Lng float64
}

// Amenities are the three infrastructure flags shared by establishments and reviews.
type Amenities struct {
	HasWater    bool
	HasBathroom bool
	HasPower    bool
}

// Count returns how many amenities are present.
func (a Amenities) Count() int {
	count := 0
	for _, flag := range []bool{a.HasWater, a.HasBathroom, a.HasPower} {
		if flag {
			count++
		}
	}
	return count
}

// Establishment represents a canonical, publicly visible point of interest.
type Establishment struct {
	ID        string
	Name      string
	Address   string
	Position  Position
	Amenities Amenities
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnrichedEstablishment is an establishment with its aggregate over approved reviews.
// FinalScore is nil when ReviewsCount is zero.
type EnrichedEstablishment struct {
	Establishment
	FinalScore   *float64
	ReviewsCount int
}

// Scored reports whether at least one approved review contributed to the score.
func (e EnrichedEstablishment) Scored() bool {
	return e.FinalScore != nil
}
