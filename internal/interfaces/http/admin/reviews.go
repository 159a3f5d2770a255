package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/reststop-ratings/api/internal/interfaces/http/common"
)

func (h *Handler) reviewApproveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if err := h.moderation.ApproveReview(ctx, common.ActorEmail(r.Context()), id); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, actionResponse{Success: true, ID: id})
	}
}

func (h *Handler) reviewRejectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if err := h.moderation.RejectReview(ctx, common.ActorEmail(r.Context()), id); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, actionResponse{Success: true, ID: id})
	}
}

func (h *Handler) reviewApproveAllHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reviewApproveAllRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.BulkRequestTimeout)
		defer cancel()

		count, err := h.bulk.ApproveReviews(ctx, common.ActorEmail(r.Context()), req.ReviewIDs)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, actionResponse{Success: true, Count: &count})
	}
}
