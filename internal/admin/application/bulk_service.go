package application

import (
	"context"

	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

// bulkService implements BulkService.
type bulkService struct {
	*lifecycle
}

func NewBulkService(deps Deps) BulkService {
	return &bulkService{lifecycle: newLifecycle(deps)}
}

// ApproveAll runs every id through the single-item approval. Failures are
// collected per item and never stop the sweep.
func (s *bulkService) ApproveAll(ctx context.Context, actor string, pendingIDs []string) (BulkResult, error) {
	if err := admindomain.ValidateIDs(pendingIDs); err != nil {
		return BulkResult{}, err
	}
	if err := s.authorize(actor); err != nil {
		return BulkResult{}, err
	}

	names := make(map[string]string, len(pendingIDs))
	pending, err := s.Pending.FindByIDs(ctx, pendingIDs)
	if err != nil {
		return BulkResult{}, err
	}
	for _, p := range pending {
		names[p.ID] = p.Name
	}

	result := BulkResult{Errors: []ItemError{}}
	seen := make(map[string]struct{}, len(pendingIDs))
	for _, id := range pendingIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if _, err := s.approve(ctx, actor, id); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, ItemError{
				ID:    id,
				Name:  names[id],
				Error: apperrors.MessageOf(err, "approval failed"),
			})
			continue
		}
		result.ApprovedCount++
	}

	s.Logger.Info().
		Str("moderator", actor).
		Int("approved", result.ApprovedCount).
		Int("failed", result.ErrorCount).
		Msg("bulk approval finished")
	return result, nil
}

// ApproveReviews approves the listed reviews in one batched update.
func (s *bulkService) ApproveReviews(ctx context.Context, actor string, reviewIDs []string) (int, error) {
	if err := admindomain.ValidateIDs(reviewIDs); err != nil {
		return 0, err
	}
	if err := s.authorize(actor); err != nil {
		return 0, err
	}
	approved, err := s.Reviews.ApproveMany(ctx, reviewIDs, actor, s.Now())
	if err != nil {
		return 0, err
	}
	if approved > 0 {
		s.changed()
	}
	return approved, nil
}
