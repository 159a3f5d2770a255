package application_test

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sngm3741/reststop-ratings/api/internal/admin/application"
	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
	publicdomain "github.com/sngm3741/reststop-ratings/api/internal/public/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

const moderator = "mod@example.com"

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type memStore struct {
	mu             sync.Mutex
	seq            int
	pending        map[string]admindomain.PendingEstablishment
	establishments map[string]publicdomain.Establishment
	reviews        map[string]publicdomain.Review

	failReviewDeletes bool
	failRelink        bool
}

func newMemStore() *memStore {
	return &memStore{
		pending:        map[string]admindomain.PendingEstablishment{},
		establishments: map[string]publicdomain.Establishment{},
		reviews:        map[string]publicdomain.Review{},
	}
}

func (m *memStore) nextID() string {
	m.seq++
	return fmt.Sprintf("%024x", m.seq)
}

func (m *memStore) deps(notifier application.Notifier) application.Deps {
	return application.Deps{
		Pending:        pendingRepo{m},
		Establishments: establishmentRepo{m},
		Reviews:        reviewRepo{m},
		Authorizer:     application.NewAllowListAuthorizer([]string{" MOD@example.com "}),
		Notifier:       notifier,
		Logger:         zerolog.Nop(),
		Now:            func() time.Time { return fixedNow },
	}
}

type pendingRepo struct{ m *memStore }

func (r pendingRepo) Create(_ context.Context, p *admindomain.PendingEstablishment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if p.ID == "" {
		p.ID = r.m.nextID()
	}
	r.m.pending[p.ID] = *p
	return nil
}

func (r pendingRepo) FindByID(_ context.Context, id string) (*admindomain.PendingEstablishment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.pending[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("pending establishment not found")
	}
	return &p, nil
}

func (r pendingRepo) FindByIDs(_ context.Context, ids []string) ([]admindomain.PendingEstablishment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []admindomain.PendingEstablishment
	for _, id := range ids {
		if p, ok := r.m.pending[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r pendingRepo) ListOldest(_ context.Context, limit int) ([]admindomain.PendingEstablishment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]admindomain.PendingEstablishment, 0, len(r.m.pending))
	for _, p := range r.m.pending {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r pendingRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.pending[id]; !ok {
		return apperrors.NewNotFoundError("pending establishment not found")
	}
	delete(r.m.pending, id)
	return nil
}

type establishmentRepo struct{ m *memStore }

func (r establishmentRepo) Create(_ context.Context, e *publicdomain.Establishment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, exists := r.m.establishments[e.ID]; exists {
		return apperrors.NewConflictError("establishment already exists")
	}
	r.m.establishments[e.ID] = *e
	return nil
}

func (r establishmentRepo) FindByID(_ context.Context, id string) (*publicdomain.Establishment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.establishments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("establishment not found")
	}
	return &e, nil
}

func (r establishmentRepo) Update(_ context.Context, e *publicdomain.Establishment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.establishments[e.ID]; !ok {
		return apperrors.NewNotFoundError("establishment not found")
	}
	r.m.establishments[e.ID] = *e
	return nil
}

func (r establishmentRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.establishments[id]; !ok {
		return apperrors.NewNotFoundError("establishment not found")
	}
	delete(r.m.establishments, id)
	return nil
}

func (r establishmentRepo) Search(_ context.Context, query string, limit int) ([]publicdomain.Establishment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	query = strings.ToLower(query)
	out := []publicdomain.Establishment{}
	for _, e := range r.m.establishments {
		if strings.Contains(strings.ToLower(e.Name), query) || strings.Contains(strings.ToLower(e.Address), query) {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type reviewRepo struct{ m *memStore }

func (r reviewRepo) Create(_ context.Context, review *publicdomain.Review) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if review.ID == "" {
		review.ID = r.m.nextID()
	}
	r.m.reviews[review.ID] = *review
	return nil
}

func (r reviewRepo) FindByID(_ context.Context, id string) (*publicdomain.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	review, ok := r.m.reviews[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("review not found")
	}
	return &review, nil
}

func (r reviewRepo) ListUnapproved(_ context.Context, limit int) ([]publicdomain.Review, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []publicdomain.Review{}
	for _, review := range r.m.reviews {
		if !review.Approved {
			out = append(out, review)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r reviewRepo) SetModeration(_ context.Context, id string, mod application.Moderation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	review, ok := r.m.reviews[id]
	if !ok {
		return apperrors.NewNotFoundError("review not found")
	}
	at := mod.ModeratedAt
	review.Approved = mod.Approved
	review.ModeratedBy = mod.ModeratedBy
	review.ModeratedAt = &at
	if mod.Note != nil {
		review.ModeratorNote = *mod.Note
	}
	r.m.reviews[id] = review
	return nil
}

func (r reviewRepo) ApproveMany(_ context.Context, ids []string, by string, at time.Time) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	count := 0
	for _, id := range ids {
		review, ok := r.m.reviews[id]
		if !ok || review.IsOrphan() {
			continue
		}
		review.Approved = true
		review.ModeratedBy = by
		review.ModeratedAt = &at
		r.m.reviews[id] = review
		count++
	}
	return count, nil
}

func (r reviewRepo) linked(review publicdomain.Review, pendingID string) bool {
	if !review.IsOrphan() {
		return false
	}
	if review.PendingEstablishmentID == pendingID {
		return true
	}
	return regexp.MustCompile(admindomain.LinkagePattern(pendingID)).MatchString(review.ModeratorNote)
}

func (r reviewRepo) RelinkOrphans(_ context.Context, pendingID, establishmentID string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failRelink {
		return 0, apperrors.NewStoreError("relink failed", nil)
	}
	count := 0
	for id, review := range r.m.reviews {
		if r.linked(review, pendingID) {
			review.EstablishmentID = establishmentID
			r.m.reviews[id] = review
			count++
		}
	}
	return count, nil
}

func (r reviewRepo) DeleteOrphans(_ context.Context, pendingID string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	count := 0
	for id, review := range r.m.reviews {
		if r.linked(review, pendingID) {
			delete(r.m.reviews, id)
			count++
		}
	}
	return count, nil
}

func (r reviewRepo) DeleteByEstablishment(_ context.Context, establishmentID string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failReviewDeletes {
		return 0, apperrors.NewStoreError("delete failed", nil)
	}
	count := 0
	for id, review := range r.m.reviews {
		if review.EstablishmentID == establishmentID {
			delete(r.m.reviews, id)
			count++
		}
	}
	return count, nil
}

type recordingNotifier struct {
	notices []application.SubmissionNotice
	err     error
}

func (n *recordingNotifier) NotifySubmission(_ context.Context, notice application.SubmissionNotice) error {
	n.notices = append(n.notices, notice)
	return n.err
}

func ratingPtr(v float64) *float64 { return &v }

type countingRefresher struct {
	mu    sync.Mutex
	calls int
}

func (r *countingRefresher) Trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
}

func (r *countingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
