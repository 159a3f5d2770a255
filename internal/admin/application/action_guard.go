package application

import (
	"context"
	"sync"

	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

// LocalActionGuard is the in-process ActionGuard used when no Redis is configured.
type LocalActionGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalActionGuard() *LocalActionGuard {
	return &LocalActionGuard{held: make(map[string]struct{})}
}

func (g *LocalActionGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.held[key]; busy {
		return nil, apperrors.NewConflictError("action already in progress")
	}
	g.held[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}
