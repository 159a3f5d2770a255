package application

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Reloader rebuilds derived state from the store.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Reconciler turns store change events into snapshot reloads. Bursts of events
// collapse into a single pending reload. When the change stream is unavailable
// it falls back to polling every PollInterval.
type Reconciler struct {
	source       ChangeSource
	target       Reloader
	pollInterval time.Duration
	logger       zerolog.Logger
	trigger      chan struct{}
}

func NewReconciler(source ChangeSource, target Reloader, pollInterval time.Duration, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		source:       source,
		target:       target,
		pollInterval: pollInterval,
		logger:       logger,
		trigger:      make(chan struct{}, 1),
	}
}

// Trigger requests a reload without blocking. Requests made before Run starts
// are kept and served once it does.
func (r *Reconciler) Trigger() {
	signal(r.trigger)
}

// Run blocks until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return r.reloadLoop(groupCtx, r.trigger) })
	group.Go(func() error { return r.watch(groupCtx, r.trigger) })

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (r *Reconciler) reloadLoop(ctx context.Context, trigger <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-trigger:
			if err := r.target.Reload(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.Error().Err(err).Msg("snapshot reload failed")
			}
		}
	}
}

func (r *Reconciler) watch(ctx context.Context, trigger chan<- struct{}) error {
	if r.source == nil {
		return r.poll(ctx, trigger)
	}
	events, err := r.source.Subscribe(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Dur("interval", r.pollInterval).Msg("change stream unavailable, polling instead")
		return r.poll(ctx, trigger)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.Warn().Dur("interval", r.pollInterval).Msg("change stream closed, polling instead")
				return r.poll(ctx, trigger)
			}
			if !event.Relevant() {
				continue
			}
			r.logger.Debug().
				Str("collection", event.Collection).
				Str("operation", event.Operation).
				Str("documentId", event.DocumentID).
				Msg("change observed")
			signal(trigger)
		}
	}
}

func (r *Reconciler) poll(ctx context.Context, trigger chan<- struct{}) error {
	if r.pollInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			signal(trigger)
		}
	}
}

func signal(trigger chan<- struct{}) {
	select {
	case trigger <- struct{}{}:
	default:
	}
}
