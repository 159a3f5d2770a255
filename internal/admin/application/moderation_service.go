package application

import (
	"context"
	"strings"

	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
	publicdomain "github.com/sngm3741/reststop-ratings/api/internal/public/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

// moderationService implements ModerationService.
type moderationService struct {
	*lifecycle
}

func NewModerationService(deps Deps) ModerationService {
	return &moderationService{lifecycle: newLifecycle(deps)}
}

func (s *moderationService) IsModerator(email string) bool {
	return s.Authorizer != nil && s.Authorizer.IsAuthorized(email)
}

func (s *moderationService) SubmitEstablishment(ctx context.Context, cmd SubmitEstablishmentCommand) (*SubmissionResult, error) {
	name, err := admindomain.NewName(cmd.Name)
	if err != nil {
		return nil, err
	}
	position, err := admindomain.NewPosition(cmd.Lat, cmd.Lng)
	if err != nil {
		return nil, err
	}

	pending := admindomain.PendingEstablishment{
		Name:        name.String(),
		Address:     admindomain.NewAddress(cmd.Address).String(),
		Position:    position,
		Amenities:   cmd.Amenities,
		SubmittedBy: admindomain.SubmittedByPublic,
		CreatedAt:   s.Now(),
	}
	if err := s.Pending.Create(ctx, &pending); err != nil {
		return nil, err
	}

	result := &SubmissionResult{Pending: pending}
	if cmd.Review != nil {
		review, err := s.buildReview(*cmd.Review)
		if err == nil {
			review.PendingEstablishmentID = pending.ID
			review.ModeratorNote = admindomain.LinkageToken(pending.ID)
			err = s.Reviews.Create(ctx, review)
		}
		if err != nil {
			s.Logger.Warn().Err(err).Str("pendingId", pending.ID).Msg("review attached to submission was not saved")
			result.ReviewError = err
		} else {
			result.Review = review
		}
	}

	s.notify(ctx, SubmissionNotice{
		PendingID:  pending.ID,
		Name:       pending.Name,
		Address:    pending.Address,
		WithReview: result.Review != nil,
	})
	return result, nil
}

func (s *moderationService) SubmitReview(ctx context.Context, establishmentID string, cmd SubmitReviewCommand) (*publicdomain.Review, error) {
	if err := admindomain.ValidateID(establishmentID); err != nil {
		return nil, err
	}
	review, err := s.buildReview(cmd)
	if err != nil {
		return nil, err
	}
	establishment, err := s.Establishments.FindByID(ctx, establishmentID)
	if err != nil {
		return nil, err
	}
	review.EstablishmentID = establishment.ID
	if err := s.Reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *moderationService) buildReview(cmd SubmitReviewCommand) (*publicdomain.Review, error) {
	rating, err := admindomain.NewServiceRating(cmd.ServiceRating)
	if err != nil {
		return nil, err
	}
	var wait *int
	if cmd.WaitTimeMinutes != nil {
		clamped := admindomain.ClampWaitMinutes(*cmd.WaitTimeMinutes)
		wait = &clamped
	}
	return &publicdomain.Review{
		ServiceRating:   &rating,
		Comment:         admindomain.NewComment(cmd.Comment),
		Amenities:       cmd.Amenities,
		StaffCount:      admindomain.ClampStaffCount(cmd.StaffCount),
		WaitTimeMinutes: wait,
		CreatedAt:       s.Now(),
	}, nil
}

func (s *moderationService) notify(ctx context.Context, notice SubmissionNotice) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.NotifySubmission(ctx, notice); err != nil {
		s.Logger.Warn().Err(err).Str("pendingId", notice.PendingID).Msg("failed to notify moderators")
	}
}

func (s *moderationService) ApproveEstablishment(ctx context.Context, actor, pendingID string) (*publicdomain.Establishment, error) {
	if err := admindomain.ValidateID(pendingID); err != nil {
		return nil, err
	}
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	return s.approve(ctx, actor, pendingID)
}

func (s *moderationService) RejectEstablishment(ctx context.Context, actor, pendingID string) error {
	if err := admindomain.ValidateID(pendingID); err != nil {
		return err
	}
	if err := s.authorize(actor); err != nil {
		return err
	}
	return s.guarded(ctx, "reject-establishment:"+pendingID, func() error {
		if err := s.Pending.Delete(ctx, pendingID); err != nil {
			return err
		}
		removed, err := s.Reviews.DeleteOrphans(ctx, pendingID)
		if err != nil {
			s.Logger.Error().Err(err).Str("pendingId", pendingID).Msg("failed to delete orphan reviews")
		}
		s.Logger.Info().
			Str("pendingId", pendingID).
			Str("moderator", actor).
			Int("removedReviews", removed).
			Msg("pending establishment rejected")
		s.changed()
		return nil
	})
}

func (s *moderationService) ApproveReview(ctx context.Context, actor, reviewID string) error {
	if err := admindomain.ValidateID(reviewID); err != nil {
		return err
	}
	if err := s.authorize(actor); err != nil {
		return err
	}
	return s.guarded(ctx, "approve-review:"+reviewID, func() error {
		review, err := s.Reviews.FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.IsOrphan() {
			return apperrors.NewValidationError("review is not linked to an establishment yet")
		}
		if err := s.Reviews.SetModeration(ctx, reviewID, Moderation{
			Approved:    true,
			ModeratedBy: actor,
			ModeratedAt: s.Now(),
		}); err != nil {
			return err
		}
		s.changed()
		return nil
	})
}

func (s *moderationService) RejectReview(ctx context.Context, actor, reviewID string) error {
	if err := admindomain.ValidateID(reviewID); err != nil {
		return err
	}
	if err := s.authorize(actor); err != nil {
		return err
	}
	note := admindomain.RejectedByModeratorNote
	return s.guarded(ctx, "reject-review:"+reviewID, func() error {
		if err := s.Reviews.SetModeration(ctx, reviewID, Moderation{
			Approved:    false,
			ModeratedBy: actor,
			ModeratedAt: s.Now(),
			Note:        &note,
		}); err != nil {
			return err
		}
		s.changed()
		return nil
	})
}

func (s *moderationService) EditEstablishment(ctx context.Context, actor, id string, cmd EditEstablishmentCommand) (*publicdomain.Establishment, error) {
	if err := admindomain.ValidateID(id); err != nil {
		return nil, err
	}
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	name, err := admindomain.NewName(cmd.Name)
	if err != nil {
		return nil, err
	}
	position, err := admindomain.NewPosition(cmd.Lat, cmd.Lng)
	if err != nil {
		return nil, err
	}

	establishment, err := s.Establishments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	establishment.Name = name.String()
	establishment.Address = admindomain.NewAddress(cmd.Address).String()
	establishment.Position = position
	establishment.Amenities = cmd.Amenities
	establishment.UpdatedAt = s.Now()
	if err := s.Establishments.Update(ctx, establishment); err != nil {
		return nil, err
	}
	s.changed()
	return establishment, nil
}

func (s *moderationService) DeleteEstablishment(ctx context.Context, actor, id string, confirmed bool) error {
	if err := admindomain.ValidateID(id); err != nil {
		return err
	}
	if err := s.authorize(actor); err != nil {
		return err
	}
	if !confirmed {
		return apperrors.NewValidationError("deletion must be confirmed")
	}
	return s.guarded(ctx, "delete-establishment:"+id, func() error {
		removed, err := s.Reviews.DeleteByEstablishment(ctx, id)
		if err != nil {
			s.Logger.Error().Err(err).Str("establishmentId", id).Msg("failed to delete establishment reviews")
		}
		if err := s.Establishments.Delete(ctx, id); err != nil {
			return err
		}
		s.Logger.Info().
			Str("establishmentId", id).
			Str("moderator", actor).
			Int("removedReviews", removed).
			Msg("establishment deleted")
		s.changed()
		return nil
	})
}

func (s *moderationService) RelinkOrphans(ctx context.Context, actor, establishmentID, pendingID string) (int, error) {
	if err := admindomain.ValidateID(establishmentID); err != nil {
		return 0, err
	}
	if err := admindomain.ValidateID(pendingID); err != nil {
		return 0, err
	}
	if err := s.authorize(actor); err != nil {
		return 0, err
	}
	if _, err := s.Establishments.FindByID(ctx, establishmentID); err != nil {
		return 0, err
	}
	linked, err := s.Reviews.RelinkOrphans(ctx, pendingID, establishmentID)
	if err != nil {
		return 0, err
	}
	if linked > 0 {
		s.changed()
	}
	return linked, nil
}

func (s *moderationService) ListPending(ctx context.Context, actor string) (*PendingQueue, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	establishments, err := s.Pending.ListOldest(ctx, pendingListLimit)
	if err != nil {
		return nil, err
	}
	reviews, err := s.Reviews.ListUnapproved(ctx, pendingListLimit)
	if err != nil {
		return nil, err
	}
	return &PendingQueue{Establishments: establishments, Reviews: reviews}, nil
}

func (s *moderationService) SearchEstablishments(ctx context.Context, actor, query string) ([]publicdomain.Establishment, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []publicdomain.Establishment{}, nil
	}
	return s.Establishments.Search(ctx, query, searchLimit)
}
