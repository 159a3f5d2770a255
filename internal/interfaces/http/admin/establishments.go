package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/sngm3741/reststop-ratings/api/internal/admin/application"
	"github.com/sngm3741/reststop-ratings/api/internal/interfaces/http/common"
	publicdomain "github.com/sngm3741/reststop-ratings/api/internal/public/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

func (h *Handler) establishmentSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		list, err := h.moderation.SearchEstablishments(ctx, common.ActorEmail(r.Context()), r.URL.Query().Get("q"))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		items := make([]establishmentResponse, 0, len(list))
		for _, e := range list {
			items = append(items, toEstablishmentResponse(e))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) establishmentUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req establishmentUpdateRequest
		if !h.decodeBody(w, r, &req) {
			return
		}
		if req.Lat == nil || req.Lng == nil {
			common.WriteError(h.logger, w, apperrors.NewValidationError("invalid coordinates"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		updated, err := h.moderation.EditEstablishment(ctx, common.ActorEmail(r.Context()), id, adminapp.EditEstablishmentCommand{
			Name:      req.Name,
			Address:   req.Address,
			Lat:       *req.Lat,
			Lng:       *req.Lng,
			Amenities: publicdomain.Amenities{HasWater: req.HasWater, HasBathroom: req.HasBathroom, HasPower: req.HasPower},
		})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, toEstablishmentResponse(*updated))
	}
}

func (h *Handler) establishmentDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		confirmed := common.ParseBool(r.URL.Query().Get("confirm"), false)
		if err := h.moderation.DeleteEstablishment(ctx, common.ActorEmail(r.Context()), id, confirmed); err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, actionResponse{Success: true, ID: id})
	}
}

func (h *Handler) establishmentRelinkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req relinkRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		count, err := h.moderation.RelinkOrphans(ctx, common.ActorEmail(r.Context()), id, strings.TrimSpace(req.PendingID))
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, actionResponse{Success: true, ID: id, Count: &count})
	}
}
