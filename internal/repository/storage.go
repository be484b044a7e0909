package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/iliyamo/pictures-london/internal/model"
)

// Storage bundles the repositories over one connection pool. It satisfies
// the importer's store and the health monitor's source.
type Storage struct {
	*CinemaRepo
	*ScreeningRepo
	Films *FilmRepo
	Runs  *ImportRunRepo
}

func NewStorage(db *sql.DB, log *slog.Logger) *Storage {
	films := NewFilmRepo(db)
	runs := NewImportRunRepo(db)
	return &Storage{
		CinemaRepo:    NewCinemaRepo(db),
		ScreeningRepo: NewScreeningRepo(db, films, log),
		Films:         films,
		Runs:          runs,
	}
}

// LatestRun lets Storage stand in as a health source.
func (s *Storage) LatestRun(ctx context.Context) (*model.ImportRun, error) {
	return s.Runs.LatestRun(ctx)
}
