package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/db"
)

// SQLiteReportStatsRepo implements ReportStatsRepo with aggregate SQL.
type SQLiteReportStatsRepo struct {
	db db.DBTX
}

func NewSQLiteReportStatsRepo(db db.DBTX) *SQLiteReportStatsRepo {
	return &SQLiteReportStatsRepo{db: db}
}

// entryJoin reaches the project of every work entry through its mission.
const entryJoin = ` FROM work_entries e
	JOIN daily_reports r ON r.id = e.report_id
	JOIN missions m ON m.id = e.mission_id`

func (r *SQLiteReportStatsRepo) CountReports(ctx context.Context, f ReportFilter) (int, error) {
	where, args := f.where()
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_reports r`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting reports: %w", err)
	}
	return n, nil
}

func (r *SQLiteReportStatsRepo) CountDistinctProjects(ctx context.Context, f ReportFilter) (int, error) {
	where, args := f.where()
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT m.project_id)`+entryJoin+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting distinct projects: %w", err)
	}
	return n, nil
}

// SumHours returns 0, not NULL, when nothing matches.
func (r *SQLiteReportStatsRepo) SumHours(ctx context.Context, f ReportFilter) (float64, error) {
	where, args := f.where()
	var total float64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(e.hours), 0.0)`+entryJoin+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing hours: %w", err)
	}
	return total, nil
}

// ProjectTotals groups matching entries by project, largest total first
// with ties broken by project id.
func (r *SQLiteReportStatsRepo) ProjectTotals(ctx context.Context, f ReportFilter, limit, offset int) ([]ProjectTotals, error) {
	where, args := f.where()
	query := `SELECT p.id, p.name,
			SUM(e.hours) AS total_hours,
			COUNT(DISTINCT r.report_date),
			MIN(r.report_date),
			MAX(r.report_date)` +
		entryJoin + `
		JOIN projects p ON p.id = m.project_id` +
		where + `
		GROUP BY p.id, p.name
		ORDER BY total_hours DESC, p.id ASC
		LIMIT ? OFFSET ?`
	args = append(args, sqlLimit(limit), max(offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summarising projects: %w", err)
	}
	defer rows.Close()

	out := []ProjectTotals{}
	for rows.Next() {
		var t ProjectTotals
		var first, last sql.NullString
		if err := rows.Scan(&t.ProjectID, &t.ProjectName, &t.TotalHours, &t.WorkDays, &first, &last); err != nil {
			return nil, fmt.Errorf("scanning project totals: %w", err)
		}
		t.FirstWorkDate = parseNullableInstant(first)
		t.LastWorkDate = parseNullableInstant(last)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project totals: %w", err)
	}
	return out, nil
}
