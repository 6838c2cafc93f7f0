package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studyloop/studyloop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchedule(learnerID string) *domain.Schedule {
	locked := "requires tactics rating 1000 (currently 800, 200 to go)"
	return &domain.Schedule{
		LearnerID:   learnerID,
		GeneratedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		HorizonDays: 120,
		Items: []domain.ScheduledItem{
			{UnitID: "tac-pins", ModuleID: "tac-pins", Kind: domain.ItemLesson, CategoryKey: "tactics",
				Title: "Pins", Minutes: 30, DayOffset: 0, Effort: domain.EffortModerate, Status: domain.ItemPending},
			{UnitID: "ms-1", Kind: domain.ItemMilestone, CategoryKey: "tactics",
				Title: "First Rated Night", Minutes: 15, DayOffset: 1, Effort: domain.EffortLight,
				Status: domain.ItemPending, LockedReason: &locked, BriefRef: "briefs/rated-night.md",
				Requirements: []domain.RatingRequirement{{CategoryKey: "tactics", MinRating: 1000}}},
		},
		Pacing: []domain.PacingAllocation{
			{CategoryKey: "tactics", PlannedMin: 45, TargetShare: 1.0, Pressure: domain.PressureLow},
		},
		Rotation: domain.RotationState{LastCategoryKey: "tactics"},
	}
}

func TestScheduleRepo_ReplaceAndGetRoundTrip(t *testing.T) {
	database := openRepoDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, sampleSchedule("l1")))

	got, err := repo.Get(ctx, "l1")
	require.NoError(t, err)

	assert.Equal(t, "l1", got.LearnerID)
	assert.Equal(t, 120, got.HorizonDays)
	assert.False(t, got.Stale)
	assert.Equal(t, "tactics", got.Rotation.LastCategoryKey)

	require.Len(t, got.Items, 2)
	assert.Equal(t, "tac-pins", got.Items[0].UnitID)
	ms := got.Items[1]
	require.NotNil(t, ms.LockedReason)
	assert.Contains(t, *ms.LockedReason, "200 to go")
	require.Len(t, ms.Requirements, 1)
	assert.Equal(t, "briefs/rated-night.md", ms.BriefRef)

	require.Len(t, got.Pacing, 1)
	assert.Equal(t, 45, got.Pacing[0].PlannedMin)
}

func TestScheduleRepo_ReplaceDropsOldItems(t *testing.T) {
	database := openRepoDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, sampleSchedule("l1")))

	next := sampleSchedule("l1")
	next.Items = next.Items[:1]
	next.Items[0].UnitID = "tac-forks"
	next.Items[0].Title = "Forks"
	require.NoError(t, repo.Replace(ctx, next))

	got, err := repo.Get(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "tac-forks", got.Items[0].UnitID)
}

func TestScheduleRepo_GetMissing(t *testing.T) {
	database := openRepoDB(t)
	repo := NewSQLiteScheduleRepo(database)

	_, err := repo.Get(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestScheduleRepo_MarkStale(t *testing.T) {
	database := openRepoDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, sampleSchedule("l1")))
	require.NoError(t, repo.MarkStale(ctx, "l1", true))

	got, err := repo.Get(ctx, "l1")
	require.NoError(t, err)
	assert.True(t, got.Stale)
}

func TestScheduleRepo_UpdateRotation(t *testing.T) {
	database := openRepoDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, sampleSchedule("l1")))
	require.NoError(t, repo.UpdateRotation(ctx, "l1", "endgames"))

	got, err := repo.Get(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "endgames", got.Rotation.LastCategoryKey)
}

func TestScheduleRepo_UpdateItemStatus(t *testing.T) {
	database := openRepoDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, sampleSchedule("l1")))
	require.NoError(t, repo.UpdateItemStatus(ctx, "l1", "tac-pins", domain.ItemCompleted))

	got, err := repo.Get(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemCompleted, got.Items[0].Status)

	err = repo.UpdateItemStatus(ctx, "l1", "missing", domain.ItemCompleted)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestScheduleRepo_RationaleAppendOnly(t *testing.T) {
	database := openRepoDB(t)
	repo := NewSQLiteScheduleRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, sampleSchedule("l1")))
	require.NoError(t, repo.AppendRationale(ctx, "l1", &domain.RationaleEntry{
		ID: "r1", CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), Summary: "prioritized tactics",
	}))
	require.NoError(t, repo.AppendRationale(ctx, "l1", &domain.RationaleEntry{
		ID: "r2", CreatedAt: time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), Summary: "preserved 1 adjustment(s)",
	}))

	// Replacing the schedule must not erase history.
	require.NoError(t, repo.Replace(ctx, sampleSchedule("l1")))

	entries, err := repo.ListRationale(ctx, "l1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "r2", entries[0].ID, "newest first")

	limited, err := repo.ListRationale(ctx, "l1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}
