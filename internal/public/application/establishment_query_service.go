package application

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sngm3741/reststop-ratings/api/internal/public/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

// establishmentQueryService keeps the aggregated list in memory and rebuilds it
// from the store on Reload.
type establishmentQueryService struct {
	establishments EstablishmentReader
	reviews        ReviewReader
	logger         zerolog.Logger

	// reloadMu spans fetch and swap so a slow reload never replaces a newer snapshot.
	reloadMu sync.Mutex

	mu       sync.RWMutex
	loaded   bool
	snapshot []domain.EnrichedEstablishment
	index    map[string]int
}

func NewEstablishmentQueryService(establishments EstablishmentReader, reviews ReviewReader, logger zerolog.Logger) EstablishmentQueryService {
	return &establishmentQueryService{
		establishments: establishments,
		reviews:        reviews,
		logger:         logger,
	}
}

func (s *establishmentQueryService) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	started := time.Now()

	var (
		establishments []domain.Establishment
		reviews        []domain.Review
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		establishments, err = s.establishments.ListAll(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		reviews, err = s.reviews.ListApproved(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return err
	}

	enriched := domain.Aggregate(establishments, reviews)
	index := make(map[string]int, len(enriched))
	for i, e := range enriched {
		index[e.ID] = i
	}

	s.mu.Lock()
	s.snapshot = enriched
	s.index = index
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug().
		Int("establishments", len(enriched)).
		Int("approvedReviews", len(reviews)).
		Dur("took", time.Since(started)).
		Msg("snapshot reloaded")
	return nil
}

func (s *establishmentQueryService) current(ctx context.Context) ([]domain.EnrichedEstablishment, map[string]int, error) {
	s.mu.RLock()
	loaded := s.loaded
	snapshot, index := s.snapshot, s.index
	s.mu.RUnlock()
	if loaded {
		return snapshot, index, nil
	}
	if err := s.Reload(ctx); err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.index, nil
}

func (s *establishmentQueryService) List(ctx context.Context, filters domain.Filters, selectedID string) ([]domain.EnrichedEstablishment, error) {
	snapshot, _, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	if selectedID != "" {
		return domain.FilterWithSelection(snapshot, filters, selectedID), nil
	}
	return domain.Filter(snapshot, filters), nil
}

func (s *establishmentQueryService) Suggest(ctx context.Context, query string) ([]domain.EnrichedEstablishment, error) {
	snapshot, _, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Suggest(snapshot, query, SuggestionLimit), nil
}

func (s *establishmentQueryService) Ranking(ctx context.Context, limit int) ([]domain.EnrichedEstablishment, error) {
	snapshot, _, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	return domain.Rank(snapshot, limit), nil
}

func (s *establishmentQueryService) Detail(ctx context.Context, id string) (*EstablishmentDetail, error) {
	snapshot, index, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	pos, ok := index[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("establishment not found")
	}
	reviews, err := s.reviews.ListApprovedByEstablishment(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EstablishmentDetail{Establishment: snapshot[pos], Reviews: reviews}, nil
}
