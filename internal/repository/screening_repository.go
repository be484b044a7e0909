package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/pictures-london/internal/logger"
	"github.com/iliyamo/pictures-london/internal/model"
)

// ScreeningRepo persists screenings. Rows are keyed by (cinema, film,
// start, screen) so re-importing the same listing updates it in place.
type ScreeningRepo struct {
	db     *sql.DB
	films  *FilmRepo
	logger *slog.Logger
}

func NewScreeningRepo(db *sql.DB, films *FilmRepo, log *slog.Logger) *ScreeningRepo {
	return &ScreeningRepo{db: db, films: films, logger: logger.OrDefault(log)}
}

// SaveScreenings upserts every screening under cinemaID. An error is
// returned only when the database cannot be reached at all; a single bad
// record is logged and counted in Failed.
func (r *ScreeningRepo) SaveScreenings(ctx context.Context, cinemaID string, screenings []model.RawScreening) (model.SaveResult, error) {
	var res model.SaveResult
	if len(screenings) == 0 {
		return res, nil
	}
	if err := r.db.PingContext(ctx); err != nil {
		return res, fmt.Errorf("save screenings for %s: %w", cinemaID, err)
	}

	const q = `INSERT INTO screenings
	               (cinema_id, film_id, starts_at, screen, format, booking_url, event_type, source_id, raw_title)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               format = VALUES(format),
	               booking_url = VALUES(booking_url),
	               event_type = VALUES(event_type),
	               source_id = VALUES(source_id),
	               raw_title = VALUES(raw_title),
	               updated_at = CURRENT_TIMESTAMP`

	for _, s := range screenings {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		filmID, err := r.films.Upsert(ctx, s)
		if err != nil {
			res.Failed++
			r.logger.Warn("film upsert failed", "cinema", cinemaID, "title", s.FilmTitle, "error", err)
			continue
		}
		out, err := r.db.ExecContext(ctx, q,
			cinemaID, filmID, s.Datetime.UTC(), s.Screen, s.Format,
			s.BookingURL, s.EventType, truncate(s.SourceID, 255), truncate(s.FilmTitle, 512),
		)
		if err != nil {
			res.Failed++
			r.logger.Warn("screening upsert failed", "cinema", cinemaID, "title", s.FilmTitle, "error", err)
			continue
		}
		// MySQL reports 1 for an insert and 2 for an update of an existing row.
		if n, _ := out.RowsAffected(); n == 1 {
			res.Added++
		} else {
			res.Updated++
		}
	}
	return res, nil
}

// ScreeningQuery defines filters and pagination for the public listing.
type ScreeningQuery struct {
	Title    string
	Cinema   string
	From     time.Time
	Page     int
	PageSize int
}

// SearchUpcoming lists screenings starting at or after q.From (now when
// zero), earliest first, together with the total match count.
func (r *ScreeningRepo) SearchUpcoming(ctx context.Context, q ScreeningQuery) ([]model.ScreeningRow, int64, error) {
	from := q.From
	if from.IsZero() {
		from = time.Now()
	}
	where := []string{"s.starts_at >= ?"}
	args := []any{from.UTC()}

	if q.Title != "" {
		where = append(where, "LOWER(f.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Cinema != "" {
		where = append(where, "(c.id = ? OR LOWER(c.name) LIKE ?)")
		args = append(args, q.Cinema, "%"+strings.ToLower(q.Cinema)+"%")
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM screenings s
		JOIN films f   ON f.id = s.film_id
		JOIN cinemas c ON c.id = s.cinema_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	dataSQL := `SELECT s.id, c.id, c.name, f.id, f.title, s.starts_at,
			s.screen, s.format, s.booking_url, s.event_type
		FROM screenings s
		JOIN films f   ON f.id = s.film_id
		JOIN cinemas c ON c.id = s.cinema_id
		WHERE ` + cond + `
		ORDER BY s.starts_at ASC, s.id ASC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.ScreeningRow, 0, size)
	for rows.Next() {
		var d model.ScreeningRow
		if err := rows.Scan(&d.ID, &d.CinemaID, &d.Cinema, &d.FilmID, &d.FilmTitle, &d.StartsAt,
			&d.Screen, &d.Format, &d.BookingURL, &d.EventType); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
