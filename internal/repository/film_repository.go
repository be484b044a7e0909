package repository

import (
	"context"
	"database/sql"
	"unicode/utf8"

	"github.com/iliyamo/pictures-london/internal/model"
	"github.com/iliyamo/pictures-london/internal/utils"
)

const maxKeyLen = 255

// FilmRepo maintains the films table. Films are identified by a normalised
// canonical title; display title, year and director come from the first
// listing that created them, with year and director filled in later if the
// first one lacked them.
type FilmRepo struct {
	db *sql.DB
}

func NewFilmRepo(db *sql.DB) *FilmRepo {
	return &FilmRepo{db: db}
}

// canonicalKey prefers the enrichment hint and falls back to the listing
// title.
func canonicalKey(s model.RawScreening) string {
	src := s.CanonicalTitle
	if src == "" {
		src = s.FilmTitle
	}
	return truncate(utils.NormalizeKey(src), maxKeyLen)
}

// Upsert returns the id of the film s belongs to, creating it if needed.
func (r *FilmRepo) Upsert(ctx context.Context, s model.RawScreening) (uint64, error) {
	display := s.CanonicalTitle
	if display == "" {
		display = s.FilmTitle
	}
	// LAST_INSERT_ID(id) makes the existing row's id available on the
	// duplicate path.
	const q = `INSERT INTO films (canonical_key, title, year, director)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               id = LAST_INSERT_ID(id),
	               year = COALESCE(year, VALUES(year)),
	               director = COALESCE(director, VALUES(director))`
	res, err := r.db.ExecContext(ctx, q, canonicalKey(s), truncate(display, 512), nullInt(s.Year), nullString(s.Director))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n > 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
