package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/db"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
)

type SQLiteWeeklyPlanRepo struct {
	db db.DBTX
}

func NewSQLiteWeeklyPlanRepo(db db.DBTX) *SQLiteWeeklyPlanRepo {
	return &SQLiteWeeklyPlanRepo{db: db}
}

const planColumns = `id, user_id, iso_year, iso_week, start_date, end_date, created_at, updated_at`

// Save inserts the plan or, when the user already has one for that ISO week,
// overwrites it in place. p.ID and p.CreatedAt are replaced by the stored
// values on overwrite.
func (r *SQLiteWeeklyPlanRepo) Save(ctx context.Context, p *domain.WeeklyPlan) error {
	existing, err := r.GetByWeek(ctx, p.UserID, p.ISOYear, p.ISOWeek)
	switch {
	case errors.Is(err, ErrNotFound):
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO weekly_plans (`+planColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.UserID, p.ISOYear, p.ISOWeek,
			jst.DateOf(p.StartDate), jst.DateOf(p.EndDate),
			formatInstant(p.CreatedAt), formatInstant(p.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting weekly plan: %w", err)
		}
	case err != nil:
		return err
	default:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		_, err = r.db.ExecContext(ctx,
			`UPDATE weekly_plans SET start_date = ?, end_date = ?, updated_at = ? WHERE id = ?`,
			jst.DateOf(p.StartDate), jst.DateOf(p.EndDate), formatInstant(p.UpdatedAt), p.ID,
		)
		if err != nil {
			return fmt.Errorf("updating weekly plan: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, `DELETE FROM weekly_plan_entries WHERE plan_id = ?`, p.ID); err != nil {
			return fmt.Errorf("clearing weekly plan entries: %w", err)
		}
	}

	for i := range p.Entries {
		e := &p.Entries[i]
		e.PlanID = p.ID
		e.Position = i
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO weekly_plan_entries (id, plan_id, mission_id, hours, content, position) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.PlanID, e.MissionID, e.Hours, e.Content, e.Position,
		)
		if err != nil {
			return fmt.Errorf("inserting weekly plan entry %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *SQLiteWeeklyPlanRepo) GetByWeek(ctx context.Context, userID string, isoYear, isoWeek int) (*domain.WeeklyPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM weekly_plans WHERE user_id = ? AND iso_year = ? AND iso_week = ?`,
		userID, isoYear, isoWeek)
	p, err := scanWeeklyPlan(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("weekly plan %d-W%02d: %w", isoYear, isoWeek, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.populateEntries(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListByUser returns the user's plans, most recent week first.
func (r *SQLiteWeeklyPlanRepo) ListByUser(ctx context.Context, userID string) ([]*domain.WeeklyPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+planColumns+` FROM weekly_plans WHERE user_id = ? ORDER BY iso_year DESC, iso_week DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing weekly plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.WeeklyPlan
	for rows.Next() {
		p, err := scanWeeklyPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weekly plans: %w", err)
	}
	rows.Close()

	for _, p := range plans {
		if err := r.populateEntries(ctx, p); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func (r *SQLiteWeeklyPlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weekly_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting weekly plan: %w", err)
	}
	return requireAffected(res, "weekly plan", id)
}

func (r *SQLiteWeeklyPlanRepo) populateEntries(ctx context.Context, p *domain.WeeklyPlan) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, plan_id, mission_id, hours, content, position FROM weekly_plan_entries
		WHERE plan_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("loading weekly plan entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.WeeklyPlanEntry
		if err := rows.Scan(&e.ID, &e.PlanID, &e.MissionID, &e.Hours, &e.Content, &e.Position); err != nil {
			return fmt.Errorf("scanning weekly plan entry: %w", err)
		}
		p.Entries = append(p.Entries, e)
	}
	return rows.Err()
}

func scanWeeklyPlan(s scanner) (*domain.WeeklyPlan, error) {
	var p domain.WeeklyPlan
	var startDate, endDate, createdAt, updatedAt string

	err := s.Scan(&p.ID, &p.UserID, &p.ISOYear, &p.ISOWeek, &startDate, &endDate, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning weekly plan: %w", err)
	}

	if p.StartDate, err = jst.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if p.EndDate, err = jst.ParseDate(endDate); err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}
	if p.CreatedAt, err = parseInstant(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseInstant(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}
