package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/reststop-ratings/api/internal/public/domain"
)

// scoreFive and scoreThree produce reviews whose ComputeScore is 5.0 and 3.0.
func scoreFive(establishmentID string) domain.Review {
	return domain.Review{
		EstablishmentID: establishmentID,
		ServiceRating:   floatPtr(5),
		WaitTimeMinutes: intPtr(3),
		Amenities:       domain.Amenities{HasWater: true, HasBathroom: true, HasPower: true},
		Approved:        true,
	}
}

func scoreThree(establishmentID string) domain.Review {
	return domain.Review{
		EstablishmentID: establishmentID,
		ServiceRating:   floatPtr(3),
		WaitTimeMinutes: intPtr(10),
		Amenities:       domain.Amenities{HasWater: true, HasPower: true},
		Approved:        true,
	}
}

func TestAggregate(t *testing.T) {
	establishments := []domain.Establishment{{ID: "a"}, {ID: "b"}}
	reviews := []domain.Review{scoreFive("a"), scoreThree("a")}

	got := domain.Aggregate(establishments, reviews)
	require.Len(t, got, 2)

	assert.Equal(t, "a", got[0].ID)
	require.NotNil(t, got[0].FinalScore)
	assert.InDelta(t, 4.0, *got[0].FinalScore, 1e-9)
	assert.Equal(t, 2, got[0].ReviewsCount)

	assert.Equal(t, "b", got[1].ID)
	assert.Nil(t, got[1].FinalScore)
	assert.Equal(t, 0, got[1].ReviewsCount)
}

func TestAggregate_IgnoresUnapprovedAndOrphans(t *testing.T) {
	unapproved := scoreThree("a")
	unapproved.Approved = false
	orphan := scoreThree("")
	orphan.PendingEstablishmentID = "p1"
	foreign := scoreThree("ghost")

	got := domain.Aggregate([]domain.Establishment{{ID: "a"}}, []domain.Review{scoreFive("a"), unapproved, orphan, foreign})
	require.Len(t, got, 1)
	require.NotNil(t, got[0].FinalScore)
	assert.InDelta(t, 5.0, *got[0].FinalScore, 1e-9)
	assert.Equal(t, 1, got[0].ReviewsCount)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, domain.Aggregate(nil, []domain.Review{scoreFive("a")}))
}
