package admin

import (
	"time"

	adminapp "github.com/sngm3741/reststop-ratings/api/internal/admin/application"
	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
	publicdomain "github.com/sngm3741/reststop-ratings/api/internal/public/domain"
)

type verifyResponse struct {
	IsAdmin bool   `json:"isAdmin"`
	Email   string `json:"email,omitempty"`
}

type pendingEstablishmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	HasWater    bool      `json:"hasWater"`
	HasBathroom bool      `json:"hasBathroom"`
	HasPower    bool      `json:"hasPower"`
	SubmittedBy string    `json:"submittedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type adminReviewResponse struct {
	ID                     string     `json:"id"`
	EstablishmentID        string     `json:"establishmentId,omitempty"`
	PendingEstablishmentID string     `json:"pendingEstablishmentId,omitempty"`
	ServiceRating          *float64   `json:"serviceRating,omitempty"`
	Score                  float64    `json:"score"`
	Comment                string     `json:"comment,omitempty"`
	HasWater               bool       `json:"hasWater"`
	HasBathroom            bool       `json:"hasBathroom"`
	HasPower               bool       `json:"hasPower"`
	StaffCount             int        `json:"staffCount"`
	WaitTimeMinutes        *int       `json:"waitTimeMinutes,omitempty"`
	Approved               bool       `json:"approved"`
	ModeratedBy            string     `json:"moderatedBy,omitempty"`
	ModeratedAt            *time.Time `json:"moderatedAt,omitempty"`
	ModeratorNote          string     `json:"moderatorNote,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
}

type pendingListResponse struct {
	Establishments []pendingEstablishmentResponse `json:"establishments"`
	Reviews        []adminReviewResponse          `json:"reviews"`
}

type establishmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	HasWater    bool      `json:"hasWater"`
	HasBathroom bool      `json:"hasBathroom"`
	HasPower    bool      `json:"hasPower"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type establishmentUpdateRequest struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	HasWater    bool     `json:"hasWater"`
	HasBathroom bool     `json:"hasBathroom"`
	HasPower    bool     `json:"hasPower"`
}

type approveAllRequest struct {
	PendingIDs []string `json:"pendingIds"`
}

type reviewApproveAllRequest struct {
	ReviewIDs []string `json:"reviewIds"`
}

type relinkRequest struct {
	PendingID string `json:"pendingId"`
}

type bulkItemErrorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error"`
}

type bulkResultResponse struct {
	Success       bool                    `json:"success"`
	ApprovedCount int                     `json:"approvedCount"`
	ErrorCount    int                     `json:"errorCount"`
	Errors        []bulkItemErrorResponse `json:"errors"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func toPendingResponse(p admindomain.PendingEstablishment) pendingEstablishmentResponse {
	return pendingEstablishmentResponse{
		ID:          p.ID,
		Name:        p.Name,
		Address:     p.Address,
		Lat:         p.Position.Lat,
		Lng:         p.Position.Lng,
		HasWater:    p.Amenities.HasWater,
		HasBathroom: p.Amenities.HasBathroom,
		HasPower:    p.Amenities.HasPower,
		SubmittedBy: p.SubmittedBy,
		CreatedAt:   p.CreatedAt,
	}
}

func toAdminReviewResponse(r publicdomain.Review) adminReviewResponse {
	return adminReviewResponse{
		ID:                     r.ID,
		EstablishmentID:        r.EstablishmentID,
		PendingEstablishmentID: r.PendingEstablishmentID,
		ServiceRating:          r.ServiceRating,
		Score:                  publicdomain.ComputeScore(r),
		Comment:                r.Comment,
		HasWater:               r.Amenities.HasWater,
		HasBathroom:            r.Amenities.HasBathroom,
		HasPower:               r.Amenities.HasPower,
		StaffCount:             r.StaffCount,
		WaitTimeMinutes:        r.WaitTimeMinutes,
		Approved:               r.Approved,
		ModeratedBy:            r.ModeratedBy,
		ModeratedAt:            r.ModeratedAt,
		ModeratorNote:          r.ModeratorNote,
		CreatedAt:              r.CreatedAt,
	}
}

func toEstablishmentResponse(e publicdomain.Establishment) establishmentResponse {
	return establishmentResponse{
		ID:          e.ID,
		Name:        e.Name,
		Address:     e.Address,
		Lat:         e.Position.Lat,
		Lng:         e.Position.Lng,
		HasWater:    e.Amenities.HasWater,
		HasBathroom: e.Amenities.HasBathroom,
		HasPower:    e.Amenities.HasPower,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toBulkResultResponse(result adminapp.BulkResult) bulkResultResponse {
	errs := make([]bulkItemErrorResponse, 0, len(result.Errors))
	for _, item := range result.Errors {
		errs = append(errs, bulkItemErrorResponse{ID: item.ID, Name: item.Name, Error: item.Error})
	}
	return bulkResultResponse{
		Success:       result.ErrorCount == 0,
		ApprovedCount: result.ApprovedCount,
		ErrorCount:    result.ErrorCount,
		Errors:        errs,
	}
}
