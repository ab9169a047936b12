package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/db"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
)

// SQLiteReportRepo implements ReportRepo. A report and its entries are
// written by separate statements, so callers wrap writes in a UnitOfWork.
type SQLiteReportRepo struct {
	db db.DBTX
}

func NewSQLiteReportRepo(db db.DBTX) *SQLiteReportRepo {
	return &SQLiteReportRepo{db: db}
}

const reportColumns = `r.id, r.user_id, r.report_date, r.remote, r.impression, r.created_at, r.updated_at`

func (r *SQLiteReportRepo) Create(ctx context.Context, rep *domain.DailyReport) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_reports (id, user_id, report_date, remote, impression, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rep.ID,
		rep.UserID,
		formatInstant(rep.ReportDate),
		boolToInt(rep.Remote),
		rep.Impression,
		formatInstant(rep.CreatedAt),
		formatInstant(rep.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return r.insertEntries(ctx, rep)
}

func (r *SQLiteReportRepo) GetByID(ctx context.Context, id string) (*domain.DailyReport, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM daily_reports r WHERE r.id = ?`, id)
	rep, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.populateEntries(ctx, []*domain.DailyReport{rep}); err != nil {
		return nil, err
	}
	return rep, nil
}

// List returns reports matching f, newest report date first.
func (r *SQLiteReportRepo) List(ctx context.Context, f ReportFilter, limit, offset int) ([]*domain.DailyReport, error) {
	where, args := f.where()
	query := `SELECT ` + reportColumns + ` FROM daily_reports r` + where +
		` ORDER BY r.report_date DESC, r.created_at DESC, r.id LIMIT ? OFFSET ?`
	args = append(args, sqlLimit(limit), max(offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.DailyReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	// Entries are read after the report cursor is closed; an in-memory
	// database has a single connection.
	rows.Close()

	if err := r.populateEntries(ctx, reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Update overwrites the report row and replaces its entries. There is no
// version check: concurrent edits are last-write-wins.
func (r *SQLiteReportRepo) Update(ctx context.Context, rep *domain.DailyReport) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE daily_reports SET report_date = ?, remote = ?, impression = ?, updated_at = ? WHERE id = ?`,
		formatInstant(rep.ReportDate),
		boolToInt(rep.Remote),
		rep.Impression,
		formatInstant(rep.UpdatedAt),
		rep.ID,
	)
	if err != nil {
		return fmt.Errorf("updating report: %w", err)
	}
	if err := requireAffected(res, "report", rep.ID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM work_entries WHERE report_id = ?`, rep.ID); err != nil {
		return fmt.Errorf("clearing work entries: %w", err)
	}
	return r.insertEntries(ctx, rep)
}

// Delete removes the report; its entries go with it via ON DELETE CASCADE.
func (r *SQLiteReportRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	return requireAffected(res, "report", id)
}

func (r *SQLiteReportRepo) insertEntries(ctx context.Context, rep *domain.DailyReport) error {
	for i := range rep.Entries {
		e := &rep.Entries[i]
		e.ReportID = rep.ID
		e.Position = i
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO work_entries (id, report_id, mission_id, hours, content, position) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.ReportID, e.MissionID, e.Hours, e.Content, e.Position,
		)
		if err != nil {
			return fmt.Errorf("inserting work entry %d: %w", i+1, err)
		}
	}
	return nil
}

// populateEntries loads the entries of all reports with one query.
func (r *SQLiteReportRepo) populateEntries(ctx context.Context, reports []*domain.DailyReport) error {
	if len(reports) == 0 {
		return nil
	}
	byID := make(map[string]*domain.DailyReport, len(reports))
	args := make([]any, 0, len(reports))
	for _, rep := range reports {
		byID[rep.ID] = rep
		args = append(args, rep.ID)
	}

	query := `SELECT id, report_id, mission_id, hours, content, position FROM work_entries
		WHERE report_id IN (` + placeholders(len(args)) + `) ORDER BY report_id, position`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("loading work entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.WorkEntry
		if err := rows.Scan(&e.ID, &e.ReportID, &e.MissionID, &e.Hours, &e.Content, &e.Position); err != nil {
			return fmt.Errorf("scanning work entry: %w", err)
		}
		if rep, ok := byID[e.ReportID]; ok {
			rep.Entries = append(rep.Entries, e)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating work entries: %w", err)
	}
	return nil
}

func scanReport(s scanner) (*domain.DailyReport, error) {
	var rep domain.DailyReport
	var reportDate, createdAt, updatedAt string
	var remote int

	err := s.Scan(&rep.ID, &rep.UserID, &reportDate, &remote, &rep.Impression, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning report: %w", err)
	}
	rep.Remote = intToBool(remote)

	if rep.ReportDate, err = parseInstant(reportDate); err != nil {
		return nil, fmt.Errorf("parsing report_date: %w", err)
	}
	if rep.CreatedAt, err = parseInstant(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if rep.UpdatedAt, err = parseInstant(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &rep, nil
}
