package application

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	publicdomain "github.com/sngm3741/reststop-ratings/api/internal/public/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

const (
	pendingListLimit = 100
	searchLimit      = 20
	notAuthorized    = "not authorized"
)

// Deps wires the collaborators shared by the moderation and bulk services.
type Deps struct {
	Pending        PendingRepository
	Establishments EstablishmentRepository
	Reviews        ReviewRepository
	Authorizer     Authorizer
	Guard          ActionGuard
	Notifier       Notifier
	Refresher      SnapshotRefresher
	Logger         zerolog.Logger
	Now            func() time.Time
}

type lifecycle struct {
	Deps
}

func newLifecycle(deps Deps) *lifecycle {
	if deps.Guard == nil {
		deps.Guard = NewLocalActionGuard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &lifecycle{Deps: deps}
}

func (l *lifecycle) authorize(actor string) error {
	if l.Authorizer != nil && l.Authorizer.IsAuthorized(actor) {
		return nil
	}
	l.Logger.Warn().Str("email", actor).Msg("unauthorized moderation attempt")
	return apperrors.NewUnauthorizedError(notAuthorized)
}

func (l *lifecycle) changed() {
	if l.Refresher != nil {
		l.Refresher.Trigger()
	}
}

func (l *lifecycle) guarded(ctx context.Context, key string, fn func() error) error {
	release, err := l.Guard.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// approve converts one pending record into an establishment. The establishment
// reuses the pending id, so a second approval of the same record cannot insert
// a duplicate and surfaces as NotFound instead.
func (l *lifecycle) approve(ctx context.Context, actor, pendingID string) (*publicdomain.Establishment, error) {
	var created *publicdomain.Establishment
	err := l.guarded(ctx, "approve-establishment:"+pendingID, func() error {
		pending, err := l.Pending.FindByID(ctx, pendingID)
		if err != nil {
			return err
		}
		establishment, err := pending.Canonicalize()
		if err != nil {
			return err
		}
		now := l.Now()
		establishment.ID = pending.ID
		establishment.CreatedAt = now
		establishment.UpdatedAt = now
		if err := l.Establishments.Create(ctx, &establishment); err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
				return apperrors.NewNotFoundError("pending establishment not found")
			}
			return err
		}

		linked, err := l.Reviews.RelinkOrphans(ctx, pending.ID, establishment.ID)
		if err != nil {
			l.Logger.Error().Err(err).Str("pendingId", pending.ID).Msg("failed to relink orphan reviews")
		}
		if err := l.Pending.Delete(ctx, pending.ID); err != nil {
			if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
				return err
			}
			l.Logger.Warn().Str("pendingId", pending.ID).Msg("pending establishment already removed")
		}
		l.Logger.Info().
			Str("pendingId", pending.ID).
			Str("moderator", actor).
			Int("linkedReviews", linked).
			Msg("establishment approved")
		l.changed()
		created = &establishment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
