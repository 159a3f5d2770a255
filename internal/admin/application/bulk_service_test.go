package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/reststop-ratings/api/internal/admin/application"
	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
	publicdomain "github.com/sngm3741/reststop-ratings/api/internal/public/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

func TestApproveAllIsolatesFailures(t *testing.T) {
	m := newMemStore()
	seedPending(m, "aa01", "Posto A", 1, 1)
	seedPending(m, "bb02", "Posto B", 2, 2)
	seedPending(m, "cc03", "Posto Ruim", 120, 2)
	seedPending(m, "dd04", "Posto D", 4, 4)
	m.reviews["r1"] = publicdomain.Review{ID: "r1", ModeratorNote: admindomain.LinkageToken("bb02")}
	svc := application.NewBulkService(m.deps(nil))

	result, err := svc.ApproveAll(context.Background(), moderator, []string{"aa01", "bb02", "cc03", "dd04"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ApprovedCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "cc03", result.Errors[0].ID)
	assert.Equal(t, "Posto Ruim", result.Errors[0].Name)
	assert.Equal(t, "invalid coordinates", result.Errors[0].Error)

	for _, id := range []string{"aa01", "bb02", "dd04"} {
		assert.Contains(t, m.establishments, id)
		assert.NotContains(t, m.pending, id)
	}
	assert.Contains(t, m.pending, "cc03")
	assert.Equal(t, "bb02", m.reviews["r1"].EstablishmentID)
}

func TestApproveAllReportsMissingItems(t *testing.T) {
	m := newMemStore()
	seedPending(m, "aa01", "Posto A", 1, 1)
	svc := application.NewBulkService(m.deps(nil))

	result, err := svc.ApproveAll(context.Background(), moderator, []string{"aa01", "ee05", "aa01"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ApprovedCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, "ee05", result.Errors[0].ID)
	assert.Empty(t, result.Errors[0].Name)
}

func TestApproveAllFailsFast(t *testing.T) {
	m := newMemStore()
	seedPending(m, "aa01", "Posto A", 1, 1)
	svc := application.NewBulkService(m.deps(nil))
	ctx := context.Background()

	_, err := svc.ApproveAll(ctx, moderator, []string{"aa01", "not valid"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	_, err = svc.ApproveAll(ctx, moderator, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	_, err = svc.ApproveAll(ctx, "intruder@example.com", []string{"aa01"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))

	assert.Empty(t, m.establishments)
	assert.Contains(t, m.pending, "aa01")
}

func TestApproveReviewsBatch(t *testing.T) {
	m := newMemStore()
	m.reviews["aa01"] = publicdomain.Review{ID: "aa01", EstablishmentID: "e1"}
	m.reviews["bb02"] = publicdomain.Review{ID: "bb02", EstablishmentID: "e1"}
	m.reviews["cc03"] = publicdomain.Review{ID: "cc03", PendingEstablishmentID: "p1"}
	svc := application.NewBulkService(m.deps(nil))

	count, err := svc.ApproveReviews(context.Background(), moderator, []string{"aa01", "bb02", "cc03"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, m.reviews["aa01"].Approved)
	assert.True(t, m.reviews["bb02"].Approved)
	assert.False(t, m.reviews["cc03"].Approved)
}

func TestBulkApprovalRefreshesSnapshot(t *testing.T) {
	m := newMemStore()
	seedPending(m, "aa01", "Posto Sol", 1, 1)
	m.reviews["bb02"] = publicdomain.Review{ID: "bb02", EstablishmentID: "aa01"}
	refresher := &countingRefresher{}
	deps := m.deps(nil)
	deps.Refresher = refresher
	svc := application.NewBulkService(deps)
	ctx := context.Background()

	result, err := svc.ApproveAll(ctx, moderator, []string{"aa01", "cc03"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ApprovedCount)
	assert.Equal(t, 1, refresher.count())

	count, err := svc.ApproveReviews(ctx, moderator, []string{"bb02"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, refresher.count())

	count, err = svc.ApproveReviews(ctx, moderator, []string{"dd04"})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 2, refresher.count())
}
