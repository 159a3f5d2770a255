package domain

import "time"

// Review is a single anonymous rating of an establishment.
//
// EstablishmentID is empty for orphan reviews submitted alongside a pending
// establishment; those carry PendingEstablishmentID instead until approval.
type Review struct {
	ID                     string
	EstablishmentID        string
	PendingEstablishmentID string
	ServiceRating          *float64
	Rating                 *float64
	Comment                string
	Amenities              Amenities
	StaffCount             int
	WaitTimeMinutes        *int
	Approved               bool
	ModeratedBy            string
	ModeratedAt            *time.Time
	ModeratorNote          string
	CreatedAt              time.Time
}

// IsOrphan reports whether the review is not yet attached to a canonical establishment.
func (r Review) IsOrphan() bool {
	return r.EstablishmentID == ""
}
