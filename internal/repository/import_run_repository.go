package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/pictures-london/internal/model"
)

// ImportRunRepo stores the append-only import history.
type ImportRunRepo struct {
	db *sql.DB
}

func NewImportRunRepo(db *sql.DB) *ImportRunRepo {
	return &ImportRunRepo{db: db}
}

const runColumns = `id, run_type, status, pdf_status, changes_status, counts, errors,
	triggered_by, started_at, finished_at, duration_ms`

// Create inserts run. A run without an id gets a fresh one.
func (r *ImportRunRepo) Create(ctx context.Context, run model.ImportRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	counts, err := json.Marshal(run.Counts)
	if err != nil {
		return err
	}
	runErrors := run.Errors
	if runErrors == nil {
		runErrors = []model.RunError{}
	}
	errs, err := json.Marshal(runErrors)
	if err != nil {
		return err
	}
	q := `INSERT INTO import_runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		run.ID, run.RunType, run.Status, run.SourceStatus.PDF, run.SourceStatus.Changes,
		counts, errs, run.TriggeredBy, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert import run: %w", err)
	}
	return nil
}

// ListRecent returns up to limit runs, newest first.
func (r *ImportRunRepo) ListRecent(ctx context.Context, limit int) ([]model.ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+runColumns+` FROM import_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ImportRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

// Get returns the run with id or ErrNotFound.
func (r *ImportRunRepo) Get(ctx context.Context, id string) (*model.ImportRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM import_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// LatestRun returns the most recent run, or nil when none has been recorded.
func (r *ImportRunRepo) LatestRun(ctx context.Context) (*model.ImportRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM import_runs ORDER BY started_at DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*model.ImportRun, error) {
	var (
		run          model.ImportRun
		counts, errs []byte
	)
	if err := s.Scan(&run.ID, &run.RunType, &run.Status, &run.SourceStatus.PDF, &run.SourceStatus.Changes,
		&counts, &errs, &run.TriggeredBy, &run.StartedAt, &run.FinishedAt, &run.DurationMS); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(counts, &run.Counts); err != nil {
		return nil, fmt.Errorf("decode counts for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal(errs, &run.Errors); err != nil {
		return nil, fmt.Errorf("decode errors for run %s: %w", run.ID, err)
	}
	return &run, nil
}
