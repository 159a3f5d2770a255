package application

import (
	"context"
	"time"

	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
	publicdomain "github.com/sngm3741/reststop-ratings/api/internal/public/domain"
)

// PendingRepository persists public submissions awaiting moderation.
type PendingRepository interface {
	Create(ctx context.Context, pending *admindomain.PendingEstablishment) error
	FindByID(ctx context.Context, id string) (*admindomain.PendingEstablishment, error)
	FindByIDs(ctx context.Context, ids []string) ([]admindomain.PendingEstablishment, error)
	ListOldest(ctx context.Context, limit int) ([]admindomain.PendingEstablishment, error)
	// Delete removes the record only if it still exists and reports NotFound otherwise.
	Delete(ctx context.Context, id string) error
}

// EstablishmentRepository persists canonical establishments.
type EstablishmentRepository interface {
	// Create inserts with the preset ID and reports Conflict when it is already taken.
	Create(ctx context.Context, establishment *publicdomain.Establishment) error
	FindByID(ctx context.Context, id string) (*publicdomain.Establishment, error)
	Update(ctx context.Context, establishment *publicdomain.Establishment) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]publicdomain.Establishment, error)
}

// ReviewRepository persists reviews and the moderation fields stamped on them.
type ReviewRepository interface {
	Create(ctx context.Context, review *publicdomain.Review) error
	FindByID(ctx context.Context, id string) (*publicdomain.Review, error)
	ListUnapproved(ctx context.Context, limit int) ([]publicdomain.Review, error)
	SetModeration(ctx context.Context, id string, moderation Moderation) error
	// ApproveMany approves every listed review that is linked to an establishment
	// in a single update and returns how many matched.
	ApproveMany(ctx context.Context, ids []string, moderatedBy string, at time.Time) (int, error)
	// RelinkOrphans points every review linked to pendingID at establishmentID.
	RelinkOrphans(ctx context.Context, pendingID, establishmentID string) (int, error)
	DeleteOrphans(ctx context.Context, pendingID string) (int, error)
	DeleteByEstablishment(ctx context.Context, establishmentID string) (int, error)
}

// Moderation is the status patch applied to a single review. A nil Note leaves
// the stored note untouched.
type Moderation struct {
	Approved    bool
	ModeratedBy string
	ModeratedAt time.Time
	Note        *string
}

// Authorizer decides whether an email belongs to a moderator.
type Authorizer interface {
	IsAuthorized(email string) bool
}

// ActionGuard hands out an exclusive token per action key. Acquire fails with a
// Conflict error while the same key is held elsewhere.
type ActionGuard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// SnapshotRefresher is told after a moderation write lands so public reads
// pick it up without waiting for the next poll.
type SnapshotRefresher interface {
	Trigger()
}

// Notifier tells moderators that something new is waiting.
type Notifier interface {
	NotifySubmission(ctx context.Context, notice SubmissionNotice) error
}

// SubmissionNotice summarises a public submission for moderators.
type SubmissionNotice struct {
	PendingID  string
	Name       string
	Address    string
	WithReview bool
}

// ModerationService describes the submission lifecycle and single-item moderation use-cases.
type ModerationService interface {
	SubmitEstablishment(ctx context.Context, cmd SubmitEstablishmentCommand) (*SubmissionResult, error)
	SubmitReview(ctx context.Context, establishmentID string, cmd SubmitReviewCommand) (*publicdomain.Review, error)
	ApproveEstablishment(ctx context.Context, actor, pendingID string) (*publicdomain.Establishment, error)
	RejectEstablishment(ctx context.Context, actor, pendingID string) error
	ApproveReview(ctx context.Context, actor, reviewID string) error
	RejectReview(ctx context.Context, actor, reviewID string) error
	EditEstablishment(ctx context.Context, actor, id string, cmd EditEstablishmentCommand) (*publicdomain.Establishment, error)
	DeleteEstablishment(ctx context.Context, actor, id string, confirmed bool) error
	RelinkOrphans(ctx context.Context, actor, establishmentID, pendingID string) (int, error)
	ListPending(ctx context.Context, actor string) (*PendingQueue, error)
	SearchEstablishments(ctx context.Context, actor, query string) ([]publicdomain.Establishment, error)
	IsModerator(email string) bool
}

// BulkService drives approvals over many items in one administrative action.
type BulkService interface {
	ApproveAll(ctx context.Context, actor string, pendingIDs []string) (BulkResult, error)
	ApproveReviews(ctx context.Context, actor string, reviewIDs []string) (int, error)
}

// SubmitEstablishmentCommand contains the public establishment form.
type SubmitEstablishmentCommand struct {
	Name      string
	Address   string
	Lat       float64
	Lng       float64
	Amenities publicdomain.Amenities
	Review    *SubmitReviewCommand
}

// SubmitReviewCommand contains the public review form.
type SubmitReviewCommand struct {
	ServiceRating   *float64
	Comment         string
	Amenities       publicdomain.Amenities
	StaffCount      int
	WaitTimeMinutes *int
}

// SubmissionResult reports the establishment and review outcomes separately.
type SubmissionResult struct {
	Pending     admindomain.PendingEstablishment
	Review      *publicdomain.Review
	ReviewError error
}

// EditEstablishmentCommand overwrites the mutable attributes of an establishment.
type EditEstablishmentCommand struct {
	Name      string
	Address   string
	Lat       float64
	Lng       float64
	Amenities publicdomain.Amenities
}

// PendingQueue is the moderator's work list, oldest first.
type PendingQueue struct {
	Establishments []admindomain.PendingEstablishment
	Reviews        []publicdomain.Review
}

// BulkResult is the partial-failure report of ApproveAll.
type BulkResult struct {
	ApprovedCount int
	ErrorCount    int
	Errors        []ItemError
}

// ItemError records why one pending item could not be approved.
type ItemError struct {
	ID    string
	Name  string
	Error string
}
