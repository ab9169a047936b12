package db_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(`CREATE TABLE IF NOT EXISTS uow_test (id TEXT PRIMARY KEY, val TEXT)`)
	require.NoError(t, err)

	return db.NewSQLiteUnitOfWork(database)
}

// readVal reads val for id in its own transaction.
func readVal(uow *db.SQLiteUnitOfWork, id string) (string, bool) {
	var val string
	var found bool
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT val FROM uow_test WHERE id = ?`, id).Scan(&val); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return val, found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k1", "v1")
		return err
	})
	require.NoError(t, err)

	val, found := readVal(uow, "k1")
	assert.True(t, found, "row should exist after commit")
	assert.Equal(t, "v1", val)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k2", "v2"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := readVal(uow, "k2")
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestDB(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k3", "v3")
			panic("boom")
		})
	})

	_, found := readVal(uow, "k3")
	assert.False(t, found, "row should not exist after panic rollback")
}

func TestWithinTx_CanceledContext(t *testing.T) {
	uow := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestAfterCommit_RunsOnlyAfterCommit(t *testing.T) {
	uow := openTestDB(t)

	var ran []string
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		db.AfterCommit(ctx, func(context.Context) {
			_, found := readVal(uow, "k4")
			assert.True(t, found, "hook must see the committed row")
			ran = append(ran, "first")
		})
		db.AfterCommit(ctx, func(context.Context) { ran = append(ran, "second") })
		assert.Empty(t, ran)
		_, err := tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k4", "v4")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestAfterCommit_DroppedOnRollback(t *testing.T) {
	uow := openTestDB(t)

	ran := false
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		db.AfterCommit(ctx, func(context.Context) { ran = true })
		return fmt.Errorf("abort")
	})
	require.Error(t, err)
	assert.False(t, ran)
}

func TestAfterCommit_OutsideTransactionRunsImmediately(t *testing.T) {
	ran := false
	db.AfterCommit(context.Background(), func(context.Context) { ran = true })
	assert.True(t, ran)
}

func TestAfterCommit_HookContextHasNoDeadline(t *testing.T) {
	uow := openTestDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	hasDeadline := true
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		db.AfterCommit(ctx, func(ctx context.Context) { _, hasDeadline = ctx.Deadline() })
		return nil
	})
	require.NoError(t, err)
	assert.False(t, hasDeadline)
}
