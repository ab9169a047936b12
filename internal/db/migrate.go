package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so the
// whole list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Instants are stored as fixed-width UTC text (2006-01-02T15:04:05.000Z) so
// lexical comparison in range predicates matches chronological order.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS missions (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_missions_project ON missions(project_id)`,

	`CREATE TABLE IF NOT EXISTS daily_reports (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		report_date TEXT NOT NULL,
		remote      INTEGER NOT NULL DEFAULT 0,
		impression  INTEGER NOT NULL DEFAULT 0
		            CHECK(impression BETWEEN 0 AND 5),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_daily_reports_date ON daily_reports(report_date)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_reports_user_date ON daily_reports(user_id, report_date)`,

	`CREATE TABLE IF NOT EXISTS work_entries (
		id         TEXT PRIMARY KEY,
		report_id  TEXT NOT NULL REFERENCES daily_reports(id) ON DELETE CASCADE,
		mission_id TEXT NOT NULL REFERENCES missions(id) ON DELETE RESTRICT,
		hours      REAL NOT NULL CHECK(hours > 0),
		content    TEXT NOT NULL DEFAULT '',
		position   INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_entries_report ON work_entries(report_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_entries_mission ON work_entries(mission_id)`,

	`CREATE TABLE IF NOT EXISTS weekly_plans (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		iso_year   INTEGER NOT NULL,
		iso_week   INTEGER NOT NULL CHECK(iso_week BETWEEN 1 AND 53),
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, iso_year, iso_week)
	)`,

	`CREATE TABLE IF NOT EXISTS weekly_plan_entries (
		id         TEXT PRIMARY KEY,
		plan_id    TEXT NOT NULL REFERENCES weekly_plans(id) ON DELETE CASCADE,
		mission_id TEXT NOT NULL REFERENCES missions(id) ON DELETE RESTRICT,
		hours      REAL NOT NULL CHECK(hours > 0),
		content    TEXT NOT NULL DEFAULT '',
		position   INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_weekly_plan_entries_plan ON weekly_plan_entries(plan_id)`,

	// Email arrived after the first release.
	`ALTER TABLE users ADD COLUMN email TEXT NOT NULL DEFAULT ''`,
}
