package domain

import (
	"time"

	publicdomain "github.com/sngm3741/reststop-ratings/api/internal/public/domain"
)

// SubmittedByPublic tags submissions that came through the anonymous form.
const SubmittedByPublic = "public"

// PendingEstablishment is an unreviewed public submission awaiting a moderator decision.
type PendingEstablishment struct {
	ID          string
	Name        string
	Address     string
	Position    publicdomain.Position
	Amenities   publicdomain.Amenities
	SubmittedBy string
	CreatedAt   time.Time
}

// Canonicalize re-validates the pending record and returns the Establishment it
// becomes on approval. Data may have been altered since submission, so the name and
// coordinate checks run again here.
func (p PendingEstablishment) Canonicalize() (publicdomain.Establishment, error) {
	name, err := NewApprovalName(p.Name)
	if err != nil {
		return publicdomain.Establishment{}, err
	}
	position, err := NewPosition(p.Position.Lat, p.Position.Lng)
	if err != nil {
		return publicdomain.Establishment{}, err
	}
	return publicdomain.Establishment{
		Name:      name.String(),
		Address:   NewAddress(p.Address).String(),
		Position:  position,
		Amenities: p.Amenities,
	}, nil
}
