package repository

import (
	"context"
	"testing"
	"time"

	"github.com/studyloop/studyloop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRepo_BumpDeferralAccumulates(t *testing.T) {
	database := openRepoDB(t)
	repo := NewSQLiteStateRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.BumpDeferral(ctx, "l1", "tactics", 3))
	require.NoError(t, repo.BumpDeferral(ctx, "l1", "tactics", 7))
	require.NoError(t, repo.BumpDeferral(ctx, "l1", "tactics", 2))

	state, err := repo.DeferralState(ctx, "l1")
	require.NoError(t, err)
	d := state["tactics"]
	assert.Equal(t, 3, d.DeferralCount)
	assert.Equal(t, 7, d.MaxDeferralDays, "max deferred distance must not shrink")
}

func TestStateRepo_ResetDeferral(t *testing.T) {
	database := openRepoDB(t)
	repo := NewSQLiteStateRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.BumpDeferral(ctx, "l1", "tactics", 3))
	require.NoError(t, repo.ResetDeferral(ctx, "l1", "tactics"))

	state, err := repo.DeferralState(ctx, "l1")
	require.NoError(t, err)
	_, ok := state["tactics"]
	assert.False(t, ok)
}

func TestAdjustmentRepo_CreateListDelete(t *testing.T) {
	database := openRepoDB(t)
	repo := NewSQLiteAdjustmentRepo(database)
	ctx := context.Background()

	target := 12
	delta := -2
	require.NoError(t, repo.Create(ctx, &domain.Adjustment{
		ID: "adj-1", LearnerID: "l1", UnitID: "tac-pins", TargetDay: &target,
		Reason: "travel week", CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, repo.Create(ctx, &domain.Adjustment{
		ID: "adj-2", LearnerID: "l1", UnitID: "str-plans", DeltaDays: &delta,
		CreatedAt: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
	}))

	list, err := repo.ListByLearner(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "adj-1", list[0].ID, "oldest first")
	require.NotNil(t, list[0].TargetDay)
	assert.Equal(t, 12, *list[0].TargetDay)
	assert.Nil(t, list[0].DeltaDays)
	require.NotNil(t, list[1].DeltaDays)
	assert.Equal(t, -2, *list[1].DeltaDays)

	require.NoError(t, repo.DeleteByIDs(ctx, []string{"adj-1"}))
	list, err = repo.ListByLearner(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "adj-2", list[0].ID)
}

func TestProfileRepo_SeededDefaultAndUpsert(t *testing.T) {
	database := openRepoDB(t)
	repo := NewSQLiteProfileRepo(database)
	ctx := context.Background()

	p, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", p.ID)
	assert.Equal(t, 120, p.SessionCapMin)

	p.SessionsPerWeek = 4
	p.StreakCap = 2
	require.NoError(t, repo.Upsert(ctx, p))

	p2, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, p2.SessionsPerWeek)
	assert.Equal(t, 2, p2.StreakCap)
}

func TestRatingRepo_RoundTrip(t *testing.T) {
	database := openRepoDB(t)
	catalog := NewSQLiteCatalogRepo(database)
	repo := NewSQLiteRatingRepo(database)
	ctx := context.Background()

	require.NoError(t, catalog.ReplaceAll(ctx, sampleCatalog()))

	require.NoError(t, repo.SetRating(ctx, "l1", "tactics", 950))
	require.NoError(t, repo.SetRating(ctx, "l1", "tactics", 975)) // upsert

	ratings, err := repo.GetRatings(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 975, ratings["tactics"])

	require.NoError(t, repo.RecordAssessment(ctx, "l1", &domain.AssessmentOutcome{
		CategoryKey: "tactics", AvgScore: 62.5, RatingDelta: -10,
		RecordedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}))
	outcomes, err := repo.GetAssessments(ctx, "l1")
	require.NoError(t, err)
	a := outcomes["tactics"]
	assert.Equal(t, 62.5, a.AvgScore)
	assert.Equal(t, -10, a.RatingDelta)
}

func TestProgressRepo_Completions(t *testing.T) {
	database := openRepoDB(t)
	catalog := NewSQLiteCatalogRepo(database)
	repo := NewSQLiteProgressRepo(database)
	ctx := context.Background()

	require.NoError(t, catalog.ReplaceAll(ctx, sampleCatalog()))

	require.NoError(t, repo.MarkModuleComplete(ctx, "l1", "tac-pins"))
	require.NoError(t, repo.MarkModuleComplete(ctx, "l1", "tac-pins")) // idempotent

	modules, err := repo.CompletedModules(ctx, "l1")
	require.NoError(t, err)
	assert.True(t, modules["tac-pins"])
	assert.False(t, modules["tac-forks"])

	require.NoError(t, repo.MarkMilestoneComplete(ctx, "l1", "ms-1"))
	milestones, err := repo.CompletedMilestones(ctx, "l1")
	require.NoError(t, err)
	assert.True(t, milestones["ms-1"])
}
