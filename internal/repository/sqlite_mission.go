package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/db"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
)

type SQLiteMissionRepo struct {
	db db.DBTX
}

func NewSQLiteMissionRepo(db db.DBTX) *SQLiteMissionRepo {
	return &SQLiteMissionRepo{db: db}
}

const missionColumns = `id, project_id, name, created_at, updated_at`

func (r *SQLiteMissionRepo) Create(ctx context.Context, m *domain.Mission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO missions (`+missionColumns+`) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ProjectID, m.Name, formatInstant(m.CreatedAt), formatInstant(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting mission: %w", err)
	}
	return nil
}

func (r *SQLiteMissionRepo) GetByID(ctx context.Context, id string) (*domain.Mission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+missionColumns+` FROM missions WHERE id = ?`, id)
	m, err := scanMission(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("mission %s: %w", id, ErrNotFound)
	}
	return m, err
}

func (r *SQLiteMissionRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Mission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+missionColumns+` FROM missions WHERE project_id = ? ORDER BY name, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing missions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating missions: %w", err)
	}
	return out, nil
}

func (r *SQLiteMissionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM missions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting mission: %w", err)
	}
	return requireAffected(res, "mission", id)
}

func scanMission(s scanner) (*domain.Mission, error) {
	var m domain.Mission
	var createdAt, updatedAt string
	if err := s.Scan(&m.ID, &m.ProjectID, &m.Name, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning mission: %w", err)
	}

	var err error
	if m.CreatedAt, err = parseInstant(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if m.UpdatedAt, err = parseInstant(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &m, nil
}
