package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/reststop-ratings/api/internal/interfaces/http/common"
)

func (h *Handler) verifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := common.ActorEmail(r.Context())
		isAdmin := h.moderation.IsModerator(email)
		if !isAdmin && email != "" {
			h.logger.Warn().Str("email", email).Msg("admin verify denied")
		}
		common.WriteJSON(h.logger, w, http.StatusOK, verifyResponse{IsAdmin: isAdmin, Email: email})
	}
}

func (h *Handler) pendingListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		queue, err := h.moderation.ListPending(ctx, common.ActorEmail(r.Context()))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		resp := pendingListResponse{
			Establishments: make([]pendingEstablishmentResponse, 0, len(queue.Establishments)),
			Reviews:        make([]adminReviewResponse, 0, len(queue.Reviews)),
		}
		for _, p := range queue.Establishments {
			resp.Establishments = append(resp.Establishments, toPendingResponse(p))
		}
		for _, review := range queue.Reviews {
			resp.Reviews = append(resp.Reviews, toAdminReviewResponse(review))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, resp)
	}
}

func (h *Handler) pendingApproveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		establishment, err := h.moderation.ApproveEstablishment(ctx, common.ActorEmail(r.Context()), id)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		h.logger.Info().Str("pendingId", id).Str("establishmentId", establishment.ID).Msg("pending establishment approved")
		common.WriteJSON(h.logger, w, http.StatusOK, actionResponse{Success: true, ID: establishment.ID})
	}
}

func (h *Handler) pendingRejectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if err := h.moderation.RejectEstablishment(ctx, common.ActorEmail(r.Context()), id); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, actionResponse{Success: true, ID: id})
	}
}

func (h *Handler) approveAllHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req approveAllRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.BulkRequestTimeout)
		defer cancel()

		result, err := h.bulk.ApproveAll(ctx, common.ActorEmail(r.Context()), req.PendingIDs)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		h.logger.Info().
			Int("approved", result.ApprovedCount).
			Int("failed", result.ErrorCount).
			Msg("bulk approval finished")
		common.WriteJSON(h.logger, w, http.StatusOK, toBulkResultResponse(result))
	}
}
