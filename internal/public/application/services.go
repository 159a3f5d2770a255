package application

import (
	"context"

	"github.com/sngm3741/reststop-ratings/api/internal/public/domain"
)

const (
	SuggestionLimit     = 8
	DefaultRankingLimit = 10
)

// EstablishmentReader reads the canonical establishment collection in full.
// EstablishmentReader は公開済み施設を全件読み取るためのポート。
type EstablishmentReader interface {
	ListAll(ctx context.Context) ([]domain.Establishment, error)
}

// ReviewReader reads approved reviews.
// ReviewReader は承認済みレビューを読み取るためのポート。
type ReviewReader interface {
	ListApproved(ctx context.Context) ([]domain.Review, error)
	ListApprovedByEstablishment(ctx context.Context, establishmentID string) ([]domain.Review, error)
}

// ChangeSource streams data-store change events.
type ChangeSource interface {
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeEvent describes one insert/update/delete observed in the store.
type ChangeEvent struct {
	Collection string
	Operation  string
	DocumentID string
}

// Relevant reports whether the event should invalidate the aggregate.
func (e ChangeEvent) Relevant() bool {
	switch e.Operation {
	case "insert", "update", "replace", "delete":
		return true
	}
	return false
}

// EstablishmentDetail is the detail view of one establishment.
type EstablishmentDetail struct {
	Establishment domain.EnrichedEstablishment
	Reviews       []domain.Review
}

// EstablishmentQueryService describes the read use-cases over the enriched snapshot.
// EstablishmentQueryService は集計済みスナップショットを参照するリーダーモデル。
type EstablishmentQueryService interface {
	Reload(ctx context.Context) error
	List(ctx context.Context, filters domain.Filters, selectedID string) ([]domain.EnrichedEstablishment, error)
	Suggest(ctx context.Context, query string) ([]domain.EnrichedEstablishment, error)
	Ranking(ctx context.Context, limit int) ([]domain.EnrichedEstablishment, error)
	Detail(ctx context.Context, id string) (*EstablishmentDetail, error)
}
