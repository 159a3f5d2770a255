package public

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	adminapp "github.com/sngm3741/reststop-ratings/api/internal/admin/application"
	publicapp "github.com/sngm3741/reststop-ratings/api/internal/public/application"
	publicdomain "github.com/sngm3741/reststop-ratings/api/internal/public/domain"
)

// Submitter accepts anonymous submissions.
type Submitter interface {
	SubmitEstablishment(ctx context.Context, cmd adminapp.SubmitEstablishmentCommand) (*adminapp.SubmissionResult, error)
	SubmitReview(ctx context.Context, establishmentID string, cmd adminapp.SubmitReviewCommand) (*publicdomain.Review, error)
}

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger    zerolog.Logger
	queries   publicapp.EstablishmentQueryService
	submitter Submitter
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger    zerolog.Logger
	Queries   publicapp.EstablishmentQueryService
	Submitter Submitter
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:    cfg.Logger,
		queries:   cfg.Queries,
		submitter: cfg.Submitter,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/establishments", h.establishmentListHandler())
	r.Get("/establishments/suggestions", h.suggestionHandler())
	r.Get("/establishments/ranking", h.rankingHandler())
	r.Get("/establishments/{id}", h.establishmentDetailHandler())
	r.Post("/establishments", h.establishmentSubmitHandler())
	r.Post("/establishments/{id}/reviews", h.reviewSubmitHandler())
}
