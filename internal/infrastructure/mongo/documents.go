package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PositionDocument は緯度経度の埋め込みドキュメント。
type PositionDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

// AmenitiesDocument は水・トイレ・電源の有無を表す埋め込みドキュメント。
type AmenitiesDocument struct {
	HasWater    bool `bson:"hasWater"`
	HasBathroom bool `bson:"hasBathroom"`
	HasPower    bool `bson:"hasPower"`
}

// EstablishmentDocument は公開済み施設の MongoDB スキーマ。
type EstablishmentDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Address   string             `bson:"address,omitempty"`
	Position  PositionDocument   `bson:"position"`
	Amenities AmenitiesDocument  `bson:"amenities"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// PendingEstablishmentDocument は審査待ち施設の MongoDB スキーマ。
type PendingEstablishmentDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Address     string             `bson:"address,omitempty"`
	Position    PositionDocument   `bson:"position"`
	Amenities   AmenitiesDocument  `bson:"amenities"`
	SubmittedBy string             `bson:"submittedBy"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

// ReviewDocument はレビューの MongoDB スキーマ。
// establishmentId が null のものは審査待ち施設に紐づく孤立レビュー。
type ReviewDocument struct {
	ID                     primitive.ObjectID  `bson:"_id"`
	EstablishmentID        *primitive.ObjectID `bson:"establishmentId"`
	PendingEstablishmentID string              `bson:"pendingEstablishmentId,omitempty"`
	ServiceRating          *float64            `bson:"serviceRating,omitempty"`
	Rating                 *float64            `bson:"rating,omitempty"`
	Comment                string              `bson:"comment,omitempty"`
	Amenities              AmenitiesDocument   `bson:"amenities"`
	StaffCount             int                 `bson:"staffCount"`
	WaitTimeMinutes        *int                `bson:"waitTimeMinutes,omitempty"`
	Approved               bool                `bson:"approved"`
	ModeratedBy            string              `bson:"moderatedBy,omitempty"`
	ModeratedAt            *time.Time          `bson:"moderatedAt,omitempty"`
	ModeratorNote          string              `bson:"moderatorNote,omitempty"`
	CreatedAt              time.Time           `bson:"createdAt"`
}
