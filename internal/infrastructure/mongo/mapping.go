package mongo

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
	"github.com/sngm3741/reststop-ratings/api/internal/public/domain"
)

// objectIDOrNew は空文字なら新規 ObjectID を採番し、それ以外は 16 進として解釈する。
func objectIDOrNew(id string) (primitive.ObjectID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return primitive.NewObjectID(), nil
	}
	return primitive.ObjectIDFromHex(id)
}

// objectIDs は ObjectID として解釈できる ID のみを返す。
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err != nil {
			continue
		}
		out = append(out, oid)
	}
	return out
}

func toAmenitiesDocument(a domain.Amenities) AmenitiesDocument {
	return AmenitiesDocument{HasWater: a.HasWater, HasBathroom: a.HasBathroom, HasPower: a.HasPower}
}

func (d AmenitiesDocument) toDomain() domain.Amenities {
	return domain.Amenities{HasWater: d.HasWater, HasBathroom: d.HasBathroom, HasPower: d.HasPower}
}

func toEstablishmentDocument(e *domain.Establishment) (EstablishmentDocument, error) {
	oid, err := objectIDOrNew(e.ID)
	if err != nil {
		return EstablishmentDocument{}, err
	}
	return EstablishmentDocument{
		ID:        oid,
		Name:      e.Name,
		Address:   e.Address,
		Position:  PositionDocument{Lat: e.Position.Lat, Lng: e.Position.Lng},
		Amenities: toAmenitiesDocument(e.Amenities),
		CreatedAt: e.CreatedAt.UTC(),
		UpdatedAt: e.UpdatedAt.UTC(),
	}, nil
}

func mapEstablishment(doc EstablishmentDocument) domain.Establishment {
	return domain.Establishment{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		Address:   doc.Address,
		Position:  domain.Position{Lat: doc.Position.Lat, Lng: doc.Position.Lng},
		Amenities: doc.Amenities.toDomain(),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func toPendingDocument(p *admindomain.PendingEstablishment) (PendingEstablishmentDocument, error) {
	oid, err := objectIDOrNew(p.ID)
	if err != nil {
		return PendingEstablishmentDocument{}, err
	}
	return PendingEstablishmentDocument{
		ID:          oid,
		Name:        p.Name,
		Address:     p.Address,
		Position:    PositionDocument{Lat: p.Position.Lat, Lng: p.Position.Lng},
		Amenities:   toAmenitiesDocument(p.Amenities),
		SubmittedBy: p.SubmittedBy,
		CreatedAt:   p.CreatedAt.UTC(),
	}, nil
}

func mapPending(doc PendingEstablishmentDocument) admindomain.PendingEstablishment {
	return admindomain.PendingEstablishment{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Address:     doc.Address,
		Position:    domain.Position{Lat: doc.Position.Lat, Lng: doc.Position.Lng},
		Amenities:   doc.Amenities.toDomain(),
		SubmittedBy: doc.SubmittedBy,
		CreatedAt:   doc.CreatedAt,
	}
}

func toReviewDocument(r *domain.Review) (ReviewDocument, error) {
	oid, err := objectIDOrNew(r.ID)
	if err != nil {
		return ReviewDocument{}, err
	}
	doc := ReviewDocument{
		ID:                     oid,
		PendingEstablishmentID: r.PendingEstablishmentID,
		ServiceRating:          r.ServiceRating,
		Rating:                 r.Rating,
		Comment:                r.Comment,
		Amenities:              toAmenitiesDocument(r.Amenities),
		StaffCount:             r.StaffCount,
		WaitTimeMinutes:        r.WaitTimeMinutes,
		Approved:               r.Approved,
		ModeratedBy:            r.ModeratedBy,
		ModeratedAt:            r.ModeratedAt,
		ModeratorNote:          r.ModeratorNote,
		CreatedAt:              r.CreatedAt.UTC(),
	}
	if !r.IsOrphan() {
		establishmentID, err := primitive.ObjectIDFromHex(r.EstablishmentID)
		if err != nil {
			return ReviewDocument{}, err
		}
		doc.EstablishmentID = &establishmentID
	}
	return doc, nil
}

func mapReview(doc ReviewDocument) domain.Review {
	review := domain.Review{
		ID:                     doc.ID.Hex(),
		PendingEstablishmentID: doc.PendingEstablishmentID,
		ServiceRating:          doc.ServiceRating,
		Rating:                 doc.Rating,
		Comment:                doc.Comment,
		Amenities:              doc.Amenities.toDomain(),
		StaffCount:             doc.StaffCount,
		WaitTimeMinutes:        doc.WaitTimeMinutes,
		Approved:               doc.Approved,
		ModeratedBy:            doc.ModeratedBy,
		ModeratedAt:            doc.ModeratedAt,
		ModeratorNote:          doc.ModeratorNote,
		CreatedAt:              doc.CreatedAt,
	}
	if doc.EstablishmentID != nil {
		review.EstablishmentID = doc.EstablishmentID.Hex()
	}
	if review.PendingEstablishmentID == "" && review.IsOrphan() {
		if id, ok := admindomain.LinkedPendingID(doc.ModeratorNote); ok {
			review.PendingEstablishmentID = id
		}
	}
	return review
}
