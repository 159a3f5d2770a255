package public

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/sngm3741/reststop-ratings/api/internal/admin/application"
	"github.com/sngm3741/reststop-ratings/api/internal/interfaces/http/common"
	"github.com/sngm3741/reststop-ratings/api/internal/public/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

func (h *Handler) establishmentSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req establishmentSubmitRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			common.WriteBadRequest(h.logger, w, "リクエストボディが不正です")
			return
		}
		if req.Lat == nil || req.Lng == nil {
			common.WriteError(h.logger, w, apperrors.NewValidationError("invalid coordinates"))
			return
		}

		cmd := adminapp.SubmitEstablishmentCommand{
			Name:      req.Name,
			Address:   req.Address,
			Lat:       *req.Lat,
			Lng:       *req.Lng,
			Amenities: domain.Amenities{HasWater: req.HasWater, HasBathroom: req.HasBathroom, HasPower: req.HasPower},
		}
		if req.Review != nil {
			review := toReviewCommand(*req.Review)
			cmd.Review = &review
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.submitter.SubmitEstablishment(ctx, cmd)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		resp := establishmentSubmitResponse{
			Success:         true,
			PendingID:       result.Pending.ID,
			ReviewSubmitted: result.Review != nil,
		}
		if result.ReviewError != nil {
			resp.ReviewError = apperrors.MessageOf(result.ReviewError, "review could not be saved")
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, resp)
	}
}

func (h *Handler) reviewSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reviewRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			common.WriteBadRequest(h.logger, w, "リクエストボディが不正です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		review, err := h.submitter.SubmitReview(ctx, id, toReviewCommand(req))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, reviewSubmitResponse{Success: true, ID: review.ID})
	}
}

func toReviewCommand(req reviewRequest) adminapp.SubmitReviewCommand {
	return adminapp.SubmitReviewCommand{
		ServiceRating:   req.ServiceRating,
		Comment:         req.Comment,
		Amenities:       req.amenities(),
		StaffCount:      req.StaffCount,
		WaitTimeMinutes: req.WaitTimeMinutes,
	}
}
