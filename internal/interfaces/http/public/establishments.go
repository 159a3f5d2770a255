package public

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/reststop-ratings/api/internal/interfaces/http/common"
	"github.com/sngm3741/reststop-ratings/api/internal/public/domain"
)

func (h *Handler) establishmentListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		query := r.URL.Query()
		defaults := domain.DefaultFilters()
		filters := domain.Filters{
			HasWater:        common.ParseBool(query.Get("water"), false),
			HasBathroom:     common.ParseBool(query.Get("bathroom"), false),
			HasPower:        common.ParseBool(query.Get("power"), false),
			ShowEvaluated:   common.ParseBool(query.Get("evaluated"), defaults.ShowEvaluated),
			ShowUnevaluated: common.ParseBool(query.Get("unevaluated"), defaults.ShowUnevaluated),
			Query:           query.Get("q"),
		}
		selected := strings.TrimSpace(query.Get("selected"))

		list, err := h.queries.List(ctx, filters, selected)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, establishmentListResponse{
			Items: toEstablishmentResponses(list),
			Total: len(list),
		})
	}
}

func (h *Handler) suggestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		list, err := h.queries.Suggest(ctx, r.URL.Query().Get("q"))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": toEstablishmentResponses(list)})
	}
}

func (h *Handler) rankingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), 10)
		list, err := h.queries.Ranking(ctx, limit)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": toEstablishmentResponses(list)})
	}
}

func (h *Handler) establishmentDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		detail, err := h.queries.Detail(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		reviews := make([]reviewResponse, 0, len(detail.Reviews))
		for _, review := range detail.Reviews {
			reviews = append(reviews, toReviewResponse(review))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, establishmentDetailResponse{
			establishmentResponse: toEstablishmentResponse(detail.Establishment),
			Reviews:               reviews,
		})
	}
}
