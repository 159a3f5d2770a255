package admin

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	adminapp "github.com/sngm3741/reststop-ratings/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger     zerolog.Logger
	moderation adminapp.ModerationService
	bulk       adminapp.BulkService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger     zerolog.Logger
	Moderation adminapp.ModerationService
	Bulk       adminapp.BulkService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:     cfg.Logger,
		moderation: cfg.Moderation,
		bulk:       cfg.Bulk,
	}
}

// Register mounts admin routes onto router.
// 認可判定はサービス側で行うため、ここではルーティングのみを定義する。
func (h *Handler) Register(r chi.Router) {
	r.Post("/verify", h.verifyHandler())

	r.Get("/pending", h.pendingListHandler())
	r.Post("/pending/approve-all", h.approveAllHandler())
	r.Post("/pending/{id}/approve", h.pendingApproveHandler())
	r.Post("/pending/{id}/reject", h.pendingRejectHandler())

	r.Post("/reviews/approve-all", h.reviewApproveAllHandler())
	r.Post("/reviews/{id}/approve", h.reviewApproveHandler())
	r.Post("/reviews/{id}/reject", h.reviewRejectHandler())

	r.Get("/establishments", h.establishmentSearchHandler())
	r.Patch("/establishments/{id}", h.establishmentUpdateHandler())
	r.Delete("/establishments/{id}", h.establishmentDeleteHandler())
	r.Post("/establishments/{id}/relink", h.establishmentRelinkHandler())
}
