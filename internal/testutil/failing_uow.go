package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/db"
)

// FaultyUoW runs each callback in a real transaction and can fail the Nth
// write inside it. Writes are counted per transaction starting at 1; reads
// are never counted or failed. Commits and Rollbacks report how each
// transaction ended, so tests can tell a rolled-back write from one that
// never started.
type FaultyUoW struct {
	DB         *sql.DB
	FailOnExec int32 // 0 disables injection
	Err        error

	commits   atomic.Int32
	rollbacks atomic.Int32
}

var _ db.UnitOfWork = (*FaultyUoW)(nil)

func (u *FaultyUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	txCtx, hooks := db.WithCommitHooks(ctx)
	wrapped := &faultyTx{DBTX: tx, failOn: u.FailOnExec, err: u.Err}
	if fnErr := fn(txCtx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		u.rollbacks.Add(1)
		return fnErr
	}
	if err := tx.Commit(); err != nil {
		u.rollbacks.Add(1)
		return fmt.Errorf("committing transaction: %w", err)
	}
	u.commits.Add(1)
	hooks.Run(ctx)
	return nil
}

func (u *FaultyUoW) Commits() int   { return int(u.commits.Load()) }
func (u *FaultyUoW) Rollbacks() int { return int(u.rollbacks.Load()) }

type faultyTx struct {
	db.DBTX
	writes atomic.Int32
	failOn int32
	err    error
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if n := f.writes.Add(1); f.failOn > 0 && n == f.failOn {
		err := f.err
		if err == nil {
			err = fmt.Errorf("injected failure on write %d", n)
		}
		return nil, err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
