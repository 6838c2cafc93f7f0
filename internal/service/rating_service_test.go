package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyloop/studyloop/internal/contract"
	"github.com/studyloop/studyloop/internal/repository"
	"github.com/studyloop/studyloop/internal/testutil"
)

func TestSetRating_PersistsAndValidates(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedStudyCatalog(t, database)
	ratings := NewRatingService(testutil.NewTestUoW(database))
	ctx := context.Background()

	require.NoError(t, ratings.SetRating(ctx, "l1", "tactics", 950))

	stored, err := repository.NewSQLiteRatingRepo(database).GetRatings(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 950, stored["tactics"])

	var planErr *contract.PlanError
	err = ratings.SetRating(ctx, "l1", "openings", 950)
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, contract.ErrInvalidRequest, planErr.Code)

	err = ratings.SetRating(ctx, "l1", "tactics", -5)
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, contract.ErrInvalidRequest, planErr.Code)
}

func TestRecordAssessment_AppliesRatingDelta(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedStudyCatalog(t, database)
	ratings := NewRatingService(testutil.NewTestUoW(database))
	ctx := context.Background()

	// 85 sits 15 points above the pass mark: +3 rating.
	outcome, err := ratings.RecordAssessment(ctx, "l1", "tactics", 85)
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.RatingDelta)

	stored, err := repository.NewSQLiteRatingRepo(database).GetRatings(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 803, stored["tactics"], "delta applies to the starting rating when none is set")

	// 62.5 sits 7.5 below: -2 (rounded away from zero).
	outcome, err = ratings.RecordAssessment(ctx, "l1", "tactics", 62.5)
	require.NoError(t, err)
	assert.Equal(t, -2, outcome.RatingDelta)

	stored, err = repository.NewSQLiteRatingRepo(database).GetRatings(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 801, stored["tactics"])

	// Latest outcome per category is what the planner reads.
	outcomes, err := repository.NewSQLiteRatingRepo(database).GetAssessments(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 62.5, outcomes["tactics"].AvgScore)
}

func TestRecordAssessment_RejectsOutOfRangeScore(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedStudyCatalog(t, database)
	ratings := NewRatingService(testutil.NewTestUoW(database))

	var planErr *contract.PlanError
	_, err := ratings.RecordAssessment(context.Background(), "l1", "tactics", 101)
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, contract.ErrInvalidRequest, planErr.Code)
}

func TestListRatings_CoversEveryCategoryWithBands(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedStudyCatalog(t, database)
	ratings := NewRatingService(testutil.NewTestUoW(database))
	ctx := context.Background()

	require.NoError(t, ratings.SetRating(ctx, "l1", "tactics", 1250))

	views, err := ratings.ListRatings(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, views, 3)

	byKey := map[string]RatingView{}
	for _, v := range views {
		byKey[v.Category.Key] = v
	}
	assert.Equal(t, 1250, byKey["tactics"].Rating)
	assert.Equal(t, "club", byKey["tactics"].Band)
	assert.Equal(t, 800, byKey["strategy"].Rating, "unset categories fall back to the starting rating")
	assert.Empty(t, byKey["strategy"].Band, "no bands declared for strategy")
}
