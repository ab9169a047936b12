package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/db"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/testutil"
	"github.com/stretchr/testify/require"
)

// world is a small catalog shared by the report tests: two users, and two
// projects with one mission each.
type world struct {
	db       *sql.DB
	alice    *domain.User
	bob      *domain.User
	projA    *domain.Project
	projB    *domain.Project
	missionA *domain.Mission
	missionB *domain.Mission
}

func seedWorld(t *testing.T, database *sql.DB) *world {
	t.Helper()
	ctx := context.Background()

	w := &world{
		db:    database,
		alice: testutil.NewTestUser("Alice Tanaka"),
		bob:   testutil.NewTestUser("Bob Suzuki"),
		projA: testutil.NewTestProject("Alpha"),
		projB: testutil.NewTestProject("Beta"),
	}
	w.missionA = testutil.NewTestMission(w.projA.ID, "API")
	w.missionB = testutil.NewTestMission(w.projB.ID, "UI")

	users := NewSQLiteUserRepo(database)
	require.NoError(t, users.Create(ctx, w.alice))
	require.NoError(t, users.Create(ctx, w.bob))

	projects := NewSQLiteProjectRepo(database)
	require.NoError(t, projects.Create(ctx, w.projA))
	require.NoError(t, projects.Create(ctx, w.projB))

	missions := NewSQLiteMissionRepo(database)
	require.NoError(t, missions.Create(ctx, w.missionA))
	require.NoError(t, missions.Create(ctx, w.missionB))
	return w
}

// createReport stores r inside a transaction, the way services do.
func createReport(t *testing.T, database *sql.DB, r *domain.DailyReport) {
	t.Helper()
	err := db.NewSQLiteUnitOfWork(database).WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteReportRepo(tx).Create(ctx, r)
	})
	require.NoError(t, err)
}
