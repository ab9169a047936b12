package repository

import (
	"context"
	"testing"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyPlanRepo_SaveAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	w := seedWorld(t, database)
	repo := NewSQLiteWeeklyPlanRepo(database)
	ctx := context.Background()

	p := testutil.NewTestWeeklyPlan(w.alice.ID, 2020, 53,
		testutil.WithPlanEntry(w.missionA.ID, 20),
		testutil.WithPlanEntry(w.missionB.ID, 12),
	)
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByWeek(ctx, w.alice.ID, 2020, 53)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "2020-12-28", jst.DateOf(got.StartDate))
	assert.Equal(t, "2021-01-03", jst.DateOf(got.EndDate))
	require.Len(t, got.Entries, 2)
	assert.Equal(t, 32.0, got.PlannedHours())
}

func TestWeeklyPlanRepo_SaveOverwritesSameWeek(t *testing.T) {
	database := testutil.NewTestDB(t)
	w := seedWorld(t, database)
	repo := NewSQLiteWeeklyPlanRepo(database)
	ctx := context.Background()

	first := testutil.NewTestWeeklyPlan(w.bob.ID, 2024, 10, testutil.WithPlanEntry(w.missionA.ID, 10))
	require.NoError(t, repo.Save(ctx, first))

	second := testutil.NewTestWeeklyPlan(w.bob.ID, 2024, 10, testutil.WithPlanEntry(w.missionB.ID, 30))
	require.NoError(t, repo.Save(ctx, second))
	assert.Equal(t, first.ID, second.ID, "overwrite keeps the stored id")

	got, err := repo.GetByWeek(ctx, w.bob.ID, 2024, 10)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, w.missionB.ID, got.Entries[0].MissionID)

	plans, err := repo.ListByUser(ctx, w.bob.ID)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestWeeklyPlanRepo_ListAndDelete(t *testing.T) {
	database := testutil.NewTestDB(t)
	w := seedWorld(t, database)
	repo := NewSQLiteWeeklyPlanRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testutil.NewTestWeeklyPlan(w.alice.ID, 2024, 2)))
	later := testutil.NewTestWeeklyPlan(w.alice.ID, 2024, 9, testutil.WithPlanEntry(w.missionA.ID, 4))
	require.NoError(t, repo.Save(ctx, later))

	plans, err := repo.ListByUser(ctx, w.alice.ID)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, 9, plans[0].ISOWeek)
	assert.Len(t, plans[0].Entries, 1)

	require.NoError(t, repo.Delete(ctx, later.ID))
	_, err = repo.GetByWeek(ctx, w.alice.ID, 2024, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}
