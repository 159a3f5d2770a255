package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/reststop-ratings/api/internal/admin/application"
	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
	publicdomain "github.com/sngm3741/reststop-ratings/api/internal/public/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

func seedPending(m *memStore, id, name string, lat, lng float64) {
	m.pending[id] = admindomain.PendingEstablishment{
		ID:          id,
		Name:        name,
		Position:    publicdomain.Position{Lat: lat, Lng: lng},
		SubmittedBy: admindomain.SubmittedByPublic,
	}
}

func TestSubmitEstablishmentWithReview(t *testing.T) {
	m := newMemStore()
	notifier := &recordingNotifier{}
	svc := application.NewModerationService(m.deps(notifier))

	wait := 900
	result, err := svc.SubmitEstablishment(context.Background(), application.SubmitEstablishmentCommand{
		Name:    "  Posto Estrela ",
		Address: " BR-116 ",
		Lat:     -22.9,
		Lng:     -43.2,
		Review: &application.SubmitReviewCommand{
			ServiceRating:   ratingPtr(4),
			Comment:         " ok ",
			StaffCount:      -2,
			WaitTimeMinutes: &wait,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Review)
	assert.NoError(t, result.ReviewError)

	assert.Equal(t, "Posto Estrela", result.Pending.Name)
	assert.Equal(t, "BR-116", result.Pending.Address)
	assert.Equal(t, admindomain.SubmittedByPublic, result.Pending.SubmittedBy)

	review := m.reviews[result.Review.ID]
	assert.True(t, review.IsOrphan())
	assert.False(t, review.Approved)
	assert.Equal(t, result.Pending.ID, review.PendingEstablishmentID)
	assert.Equal(t, admindomain.LinkageToken(result.Pending.ID), review.ModeratorNote)
	assert.Equal(t, 0, review.StaffCount)
	assert.Equal(t, 480, *review.WaitTimeMinutes)
	assert.Equal(t, "ok", review.Comment)

	require.Len(t, notifier.notices, 1)
	assert.True(t, notifier.notices[0].WithReview)
}

func TestSubmitEstablishmentReviewFailureIsIndependent(t *testing.T) {
	m := newMemStore()
	notifier := &recordingNotifier{err: errors.New("gateway down")}
	svc := application.NewModerationService(m.deps(notifier))

	result, err := svc.SubmitEstablishment(context.Background(), application.SubmitEstablishmentCommand{
		Name:   "Posto Lua",
		Lat:    1,
		Lng:    1,
		Review: &application.SubmitReviewCommand{},
	})
	require.NoError(t, err)
	assert.Nil(t, result.Review)
	assert.True(t, apperrors.IsType(result.ReviewError, apperrors.ErrorTypeValidation))
	assert.Len(t, m.pending, 1)
	assert.Empty(t, m.reviews)
}

func TestSubmitEstablishmentValidation(t *testing.T) {
	m := newMemStore()
	svc := application.NewModerationService(m.deps(nil))

	_, err := svc.SubmitEstablishment(context.Background(), application.SubmitEstablishmentCommand{Name: "x", Lat: 0, Lng: 0})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	_, err = svc.SubmitEstablishment(context.Background(), application.SubmitEstablishmentCommand{Name: "Posto", Lat: 91, Lng: 0})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, m.pending)
}

func TestSubmitReviewAgainstEstablishment(t *testing.T) {
	m := newMemStore()
	m.establishments["aa01"] = publicdomain.Establishment{ID: "aa01", Name: "Posto"}
	svc := application.NewModerationService(m.deps(nil))

	review, err := svc.SubmitReview(context.Background(), "aa01", application.SubmitReviewCommand{ServiceRating: ratingPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, "aa01", review.EstablishmentID)
	assert.False(t, review.Approved)

	_, err = svc.SubmitReview(context.Background(), "aa01", application.SubmitReviewCommand{ServiceRating: ratingPtr(0)})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = svc.SubmitReview(context.Background(), "bb02", application.SubmitReviewCommand{ServiceRating: ratingPtr(3)})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestApproveEstablishmentRelinksOnlyMatchingOrphans(t *testing.T) {
	m := newMemStore()
	seedPending(m, "1", "  Posto Um ", 10, 10)
	seedPending(m, "12", "Posto Doze", 12, 12)
	m.reviews["r1"] = publicdomain.Review{ID: "r1", ModeratorNote: admindomain.LinkageToken("1")}
	m.reviews["r2"] = publicdomain.Review{ID: "r2", PendingEstablishmentID: "1"}
	m.reviews["r12"] = publicdomain.Review{ID: "r12", ModeratorNote: admindomain.LinkageToken("12")}
	svc := application.NewModerationService(m.deps(nil))

	created, err := svc.ApproveEstablishment(context.Background(), moderator, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID)
	assert.Equal(t, "Posto Um", created.Name)

	assert.Equal(t, "1", m.reviews["r1"].EstablishmentID)
	assert.Equal(t, "1", m.reviews["r2"].EstablishmentID)
	assert.Empty(t, m.reviews["r12"].EstablishmentID)
	assert.NotContains(t, m.pending, "1")
	assert.Contains(t, m.pending, "12")
}

func TestApproveEstablishmentTwiceIsNotFound(t *testing.T) {
	m := newMemStore()
	seedPending(m, "aa01", "Posto", 0, 0)
	svc := application.NewModerationService(m.deps(nil))

	_, err := svc.ApproveEstablishment(context.Background(), moderator, "aa01")
	require.NoError(t, err)

	_, err = svc.ApproveEstablishment(context.Background(), moderator, "aa01")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Len(t, m.establishments, 1)
}

func TestApproveEstablishmentLostRaceDoesNotDuplicate(t *testing.T) {
	m := newMemStore()
	seedPending(m, "aa01", "Posto", 0, 0)
	m.establishments["aa01"] = publicdomain.Establishment{ID: "aa01", Name: "Posto"}
	svc := application.NewModerationService(m.deps(nil))

	_, err := svc.ApproveEstablishment(context.Background(), moderator, "aa01")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Len(t, m.establishments, 1)
}

func TestApproveEstablishmentRevalidates(t *testing.T) {
	m := newMemStore()
	seedPending(m, "aa01", "Posto", 0, 200)
	svc := application.NewModerationService(m.deps(nil))

	_, err := svc.ApproveEstablishment(context.Background(), moderator, "aa01")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, m.establishments)
	assert.Contains(t, m.pending, "aa01")
}

func TestApproveEstablishmentToleratesRelinkFailure(t *testing.T) {
	m := newMemStore()
	m.failRelink = true
	seedPending(m, "aa01", "Posto", 0, 0)
	svc := application.NewModerationService(m.deps(nil))

	_, err := svc.ApproveEstablishment(context.Background(), moderator, "aa01")
	require.NoError(t, err)
	assert.Contains(t, m.establishments, "aa01")
	assert.NotContains(t, m.pending, "aa01")
}

func TestUnauthorizedIsUniform(t *testing.T) {
	m := newMemStore()
	seedPending(m, "aa01", "Posto", 0, 0)
	svc := application.NewModerationService(m.deps(nil))
	ctx := context.Background()

	_, existing := svc.ApproveEstablishment(ctx, "intruder@example.com", "aa01")
	_, missing := svc.ApproveEstablishment(ctx, "intruder@example.com", "bb02")
	require.Error(t, existing)
	require.Error(t, missing)
	assert.Equal(t, existing.Error(), missing.Error())
	assert.True(t, apperrors.IsType(existing, apperrors.ErrorTypeUnauthorized))

	assert.True(t, apperrors.IsType(svc.RejectEstablishment(ctx, "", "aa01"), apperrors.ErrorTypeUnauthorized))
	assert.True(t, apperrors.IsType(svc.DeleteEstablishment(ctx, "x@example.com", "aa01", true), apperrors.ErrorTypeUnauthorized))
	_, err := svc.ListPending(ctx, "x@example.com")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	assert.Contains(t, m.pending, "aa01")
}

func TestRejectEstablishmentRemovesPendingAndOrphans(t *testing.T) {
	m := newMemStore()
	seedPending(m, "aa01", "Posto", 0, 0)
	seedPending(m, "bb02", "Outro", 0, 0)
	m.reviews["r1"] = publicdomain.Review{ID: "r1", PendingEstablishmentID: "aa01", ModeratorNote: admindomain.LinkageToken("aa01")}
	m.reviews["r2"] = publicdomain.Review{ID: "r2", PendingEstablishmentID: "bb02"}
	svc := application.NewModerationService(m.deps(nil))
	ctx := context.Background()

	require.NoError(t, svc.RejectEstablishment(ctx, moderator, "aa01"))

	queue, err := svc.ListPending(ctx, moderator)
	require.NoError(t, err)
	require.Len(t, queue.Establishments, 1)
	assert.Equal(t, "bb02", queue.Establishments[0].ID)
	assert.NotContains(t, m.reviews, "r1")
	assert.Contains(t, m.reviews, "r2")

	err = svc.RejectEstablishment(ctx, moderator, "aa01")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestReviewModeration(t *testing.T) {
	m := newMemStore()
	m.reviews["aa01"] = publicdomain.Review{ID: "aa01", EstablishmentID: "e1"}
	m.reviews["bb02"] = publicdomain.Review{ID: "bb02", PendingEstablishmentID: "cc03"}
	svc := application.NewModerationService(m.deps(nil))
	ctx := context.Background()

	require.NoError(t, svc.ApproveReview(ctx, moderator, "aa01"))
	approved := m.reviews["aa01"]
	assert.True(t, approved.Approved)
	assert.Equal(t, moderator, approved.ModeratedBy)
	assert.Equal(t, fixedNow, *approved.ModeratedAt)

	err := svc.ApproveReview(ctx, moderator, "bb02")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	require.NoError(t, svc.RejectReview(ctx, moderator, "aa01"))
	require.NoError(t, svc.RejectReview(ctx, moderator, "aa01"))
	rejected := m.reviews["aa01"]
	assert.False(t, rejected.Approved)
	assert.Equal(t, admindomain.RejectedByModeratorNote, rejected.ModeratorNote)

	err = svc.RejectReview(ctx, moderator, "dd04")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestEditEstablishment(t *testing.T) {
	m := newMemStore()
	m.establishments["aa01"] = publicdomain.Establishment{ID: "aa01", Name: "Velho"}
	svc := application.NewModerationService(m.deps(nil))

	edited, err := svc.EditEstablishment(context.Background(), moderator, "aa01", application.EditEstablishmentCommand{
		Name:      " Novo ",
		Address:   "Rua 2",
		Lat:       5,
		Lng:       6,
		Amenities: publicdomain.Amenities{HasPower: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Novo", edited.Name)
	assert.Equal(t, "Novo", m.establishments["aa01"].Name)
	assert.True(t, m.establishments["aa01"].Amenities.HasPower)
	assert.Equal(t, fixedNow, m.establishments["aa01"].UpdatedAt)

	_, err = svc.EditEstablishment(context.Background(), moderator, "aa01", application.EditEstablishmentCommand{Name: "Ok", Lat: -100})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestDeleteEstablishmentCascades(t *testing.T) {
	m := newMemStore()
	m.establishments["aa01"] = publicdomain.Establishment{ID: "aa01", Name: "Posto"}
	m.reviews["r1"] = publicdomain.Review{ID: "r1", EstablishmentID: "aa01", Approved: true}
	m.reviews["r2"] = publicdomain.Review{ID: "r2", EstablishmentID: "other"}
	svc := application.NewModerationService(m.deps(nil))
	ctx := context.Background()

	err := svc.DeleteEstablishment(ctx, moderator, "aa01", false)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Contains(t, m.establishments, "aa01")

	require.NoError(t, svc.DeleteEstablishment(ctx, moderator, "aa01", true))
	assert.NotContains(t, m.establishments, "aa01")
	assert.NotContains(t, m.reviews, "r1")
	assert.Contains(t, m.reviews, "r2")
}

func TestDeleteEstablishmentContinuesAfterCascadeFailure(t *testing.T) {
	m := newMemStore()
	m.failReviewDeletes = true
	m.establishments["aa01"] = publicdomain.Establishment{ID: "aa01"}
	svc := application.NewModerationService(m.deps(nil))

	require.NoError(t, svc.DeleteEstablishment(context.Background(), moderator, "aa01", true))
	assert.NotContains(t, m.establishments, "aa01")
}

func TestRelinkOrphans(t *testing.T) {
	m := newMemStore()
	m.establishments["aa01"] = publicdomain.Establishment{ID: "aa01"}
	m.reviews["r1"] = publicdomain.Review{ID: "r1", ModeratorNote: "legacy " + admindomain.LinkageToken("cc03")}
	svc := application.NewModerationService(m.deps(nil))

	count, err := svc.RelinkOrphans(context.Background(), moderator, "aa01", "cc03")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "aa01", m.reviews["r1"].EstablishmentID)

	_, err = svc.RelinkOrphans(context.Background(), moderator, "bb02", "cc03")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSearchEstablishments(t *testing.T) {
	m := newMemStore()
	m.establishments["aa01"] = publicdomain.Establishment{ID: "aa01", Name: "Posto Graal", Address: "BR-116"}
	m.establishments["bb02"] = publicdomain.Establishment{ID: "bb02", Name: "Parada", Address: "SP-55"}
	svc := application.NewModerationService(m.deps(nil))

	found, err := svc.SearchEstablishments(context.Background(), moderator, "br-116")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "aa01", found[0].ID)

	found, err = svc.SearchEstablishments(context.Background(), moderator, "   ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestIsModerator(t *testing.T) {
	svc := application.NewModerationService(newMemStore().deps(nil))
	assert.True(t, svc.IsModerator("Mod@Example.com "))
	assert.False(t, svc.IsModerator("someone@example.com"))
	assert.False(t, svc.IsModerator(""))
}

func TestModerationWritesRefreshSnapshot(t *testing.T) {
	m := newMemStore()
	seedPending(m, "aa01", "Posto Sol", 1, 1)
	seedPending(m, "bb02", "Posto Chuva", 2, 2)
	m.reviews["cc03"] = publicdomain.Review{ID: "cc03", EstablishmentID: "aa01"}
	m.reviews["dd04"] = publicdomain.Review{ID: "dd04", ModeratorNote: admindomain.LinkageToken("ee05")}
	refresher := &countingRefresher{}
	deps := m.deps(nil)
	deps.Refresher = refresher
	svc := application.NewModerationService(deps)
	ctx := context.Background()

	_, err := svc.ApproveEstablishment(ctx, moderator, "aa01")
	require.NoError(t, err)
	assert.Equal(t, 1, refresher.count())

	require.NoError(t, svc.RejectEstablishment(ctx, moderator, "bb02"))
	assert.Equal(t, 2, refresher.count())

	require.NoError(t, svc.ApproveReview(ctx, moderator, "cc03"))
	require.NoError(t, svc.RejectReview(ctx, moderator, "cc03"))
	assert.Equal(t, 4, refresher.count())

	_, err = svc.EditEstablishment(ctx, moderator, "aa01", application.EditEstablishmentCommand{Name: "Posto Lua", Lat: 1, Lng: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, refresher.count())

	linked, err := svc.RelinkOrphans(ctx, moderator, "aa01", "ee05")
	require.NoError(t, err)
	assert.Equal(t, 1, linked)
	assert.Equal(t, 6, refresher.count())

	require.NoError(t, svc.DeleteEstablishment(ctx, moderator, "aa01", true))
	assert.Equal(t, 7, refresher.count())
}

func TestFailedWritesDoNotRefreshSnapshot(t *testing.T) {
	m := newMemStore()
	refresher := &countingRefresher{}
	deps := m.deps(nil)
	deps.Refresher = refresher
	svc := application.NewModerationService(deps)
	ctx := context.Background()

	_, err := svc.ApproveEstablishment(ctx, moderator, "aa01")
	assert.Error(t, err)
	assert.Error(t, svc.RejectReview(ctx, moderator, "bb02"))
	assert.Error(t, svc.DeleteEstablishment(ctx, "intruder@example.com", "aa01", true))

	m.establishments["aa01"] = publicdomain.Establishment{ID: "aa01"}
	linked, err := svc.RelinkOrphans(ctx, moderator, "aa01", "cc03")
	require.NoError(t, err)
	assert.Zero(t, linked)

	assert.Zero(t, refresher.count())
}
