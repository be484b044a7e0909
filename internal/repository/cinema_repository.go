package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"encoding/json"
	"fmt"
	"time"

	"github.com/iliyamo/pictures-london/internal/model"
)

// CinemaRepo reads and writes the cinemas table.
type CinemaRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCinemaRepo constructs a CinemaRepo with the provided DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo {
	return &CinemaRepo{db: db}
}

// EnsureCinema inserts v or refreshes its descriptive fields. Calling it on
// every import run is safe.
func (r *CinemaRepo) EnsureCinema(ctx context.Context, v model.Venue) error {
	features, err := json.Marshal(v.Features)
	if err != nil {
		return fmt.Errorf("encode features for %s: %w", v.ID, err)
	}
	const q = `INSERT INTO cinemas (id, name, short_name, website, address, features)
	           VALUES (?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               name = VALUES(name),
	               short_name = VALUES(short_name),
	               website = VALUES(website),
	               address = VALUES(address),
	               features = VALUES(features)`
	if _, err := r.db.ExecContext(ctx, q, v.ID, v.Name, v.ShortName, v.Website, v.Address, features); err != nil {
		return fmt.Errorf("ensure cinema %s: %w", v.ID, err)
	}
	return nil
}

// ListAll returns every cinema ordered by name.
func (r *CinemaRepo) ListAll(ctx context.Context) ([]model.Venue, error) {
	const q = `SELECT id, name, short_name, website, address, features FROM cinemas ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Venue
	for rows.Next() {
		var (
			v        model.Venue
			features []byte
		)
		if err := rows.Scan(&v.ID, &v.Name, &v.ShortName, &v.Website, &v.Address, &features); err != nil {
			return nil, err
		}
		if len(features) > 0 {
			_ = json.Unmarshal(features, &v.Features)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CinemaActivity summarises each cinema's screenings around now: last
// update, count starting in the next 7 days and count that started in the
// previous 28.
func (r *CinemaRepo) CinemaActivity(ctx context.Context, now time.Time) ([]model.CinemaActivity, error) {
	const q = `SELECT c.id, c.name,
	                  MAX(s.updated_at),
	                  COALESCE(SUM(s.starts_at >= ? AND s.starts_at < ?), 0),
	                  COALESCE(SUM(s.starts_at >= ? AND s.starts_at < ?), 0)
	           FROM cinemas c
	           LEFT JOIN screenings s ON s.cinema_id = c.id
	           GROUP BY c.id, c.name
	           ORDER BY c.name`
	now = now.UTC()
	rows, err := r.db.QueryContext(ctx, q,
		now, now.AddDate(0, 0, 7),
		now.AddDate(0, 0, -28), now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CinemaActivity
	for rows.Next() {
		var (
			a    model.CinemaActivity
			last sql.NullTime
		)
		if err := rows.Scan(&a.CinemaID, &a.Name, &last, &a.UpcomingWeek, &a.TrailingFourWks); err != nil {
			return nil, err
		}
		if last.Valid {
			a.LastUpdatedAt = last.Time
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
