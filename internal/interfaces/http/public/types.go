package public

import (
	"time"

	"github.com/sngm3741/reststop-ratings/api/internal/public/domain"
)

type establishmentResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	HasWater     bool      `json:"hasWater"`
	HasBathroom  bool      `json:"hasBathroom"`
	HasPower     bool      `json:"hasPower"`
	FinalScore   *float64  `json:"finalScore"`
	ReviewsCount int       `json:"reviewsCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type reviewResponse struct {
	ID              string    `json:"id"`
	EstablishmentID string    `json:"establishmentId"`
	ServiceRating   *float64  `json:"serviceRating,omitempty"`
	Score           float64   `json:"score"`
	Comment         string    `json:"comment,omitempty"`
	HasWater        bool      `json:"hasWater"`
	HasBathroom     bool      `json:"hasBathroom"`
	HasPower        bool      `json:"hasPower"`
	StaffCount      int       `json:"staffCount"`
	WaitTimeMinutes *int      `json:"waitTimeMinutes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type establishmentListResponse struct {
	Items []establishmentResponse `json:"items"`
	Total int                     `json:"total"`
}

type establishmentDetailResponse struct {
	establishmentResponse
	Reviews []reviewResponse `json:"reviews"`
}

type reviewRequest struct {
	ServiceRating   *float64 `json:"serviceRating"`
	Comment         string   `json:"comment"`
	HasWater        bool     `json:"hasWater"`
	HasBathroom     bool     `json:"hasBathroom"`
	HasPower        bool     `json:"hasPower"`
	StaffCount      int      `json:"staffCount"`
	WaitTimeMinutes *int     `json:"waitTimeMinutes"`
}

type establishmentSubmitRequest struct {
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Lat         *float64       `json:"lat"`
	Lng         *float64       `json:"lng"`
	HasWater    bool           `json:"hasWater"`
	HasBathroom bool           `json:"hasBathroom"`
	HasPower    bool           `json:"hasPower"`
	Review      *reviewRequest `json:"review,omitempty"`
}

type establishmentSubmitResponse struct {
	Success         bool   `json:"success"`
	PendingID       string `json:"pendingId"`
	ReviewSubmitted bool   `json:"reviewSubmitted"`
	ReviewError     string `json:"reviewError,omitempty"`
}

type reviewSubmitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

func toEstablishmentResponse(e domain.EnrichedEstablishment) establishmentResponse {
	return establishmentResponse{
		ID:           e.ID,
		Name:         e.Name,
		Address:      e.Address,
		Lat:          e.Position.Lat,
		Lng:          e.Position.Lng,
		HasWater:     e.Amenities.HasWater,
		HasBathroom:  e.Amenities.HasBathroom,
		HasPower:     e.Amenities.HasPower,
		FinalScore:   e.FinalScore,
		ReviewsCount: e.ReviewsCount,
		CreatedAt:    e.CreatedAt,
	}
}

func toEstablishmentResponses(list []domain.EnrichedEstablishment) []establishmentResponse {
	items := make([]establishmentResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toEstablishmentResponse(e))
	}
	return items
}

func toReviewResponse(r domain.Review) reviewResponse {
	return reviewResponse{
		ID:              r.ID,
		EstablishmentID: r.EstablishmentID,
		ServiceRating:   r.ServiceRating,
		Score:           domain.ComputeScore(r),
		Comment:         r.Comment,
		HasWater:        r.Amenities.HasWater,
		HasBathroom:     r.Amenities.HasBathroom,
		HasPower:        r.Amenities.HasPower,
		StaffCount:      r.StaffCount,
		WaitTimeMinutes: r.WaitTimeMinutes,
		CreatedAt:       r.CreatedAt,
	}
}

func (r reviewRequest) amenities() domain.Amenities {
	return domain.Amenities{HasWater: r.HasWater, HasBathroom: r.HasBathroom, HasPower: r.HasPower}
}
