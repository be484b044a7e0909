// Package enrich cleans listing titles on their way into storage.
package enrich

import (
	"context"
	"log/slog"

	"github.com/iliyamo/pictures-london/internal/importer"
	"github.com/iliyamo/pictures-london/internal/logger"
	"github.com/iliyamo/pictures-london/internal/model"
	"github.com/iliyamo/pictures-london/internal/patterns"
	"github.com/iliyamo/pictures-london/internal/title"
)

// TitleAI is the AI-assisted extractor.
type TitleAI interface {
	Extract(ctx context.Context, raw string) title.AIResult
}

// Store decorates an importer.Store. Each screening gets a display title, a
// canonical title for film matching and, when the listing implies one, an
// event type. Non-film events are kept; they are real listings.
type Store struct {
	next   importer.Store
	ai     TitleAI
	logger *slog.Logger
}

// NewStore wraps next. ai may be nil, in which case only the pattern
// extractor is used.
func NewStore(next importer.Store, ai TitleAI, log *slog.Logger) *Store {
	return &Store{next: next, ai: ai, logger: logger.OrDefault(log)}
}

func (s *Store) EnsureCinema(ctx context.Context, v model.Venue) error {
	return s.next.EnsureCinema(ctx, v)
}

func (s *Store) SaveScreenings(ctx context.Context, cinemaID string, screenings []model.RawScreening) (model.SaveResult, error) {
	seen := make(map[string]cleaned, len(screenings))
	out := make([]model.RawScreening, len(screenings))
	for i, sc := range screenings {
		c, ok := seen[sc.FilmTitle]
		if !ok {
			c = s.clean(ctx, sc.FilmTitle)
			seen[sc.FilmTitle] = c
		}
		out[i] = c.apply(sc)
	}
	return s.next.SaveScreenings(ctx, cinemaID, out)
}

type cleaned struct {
	display   string
	canonical string
	event     string
}

func (c cleaned) apply(sc model.RawScreening) model.RawScreening {
	if c.display != "" {
		sc.FilmTitle = c.display
	}
	sc.CanonicalTitle = c.canonical
	if sc.EventType == "" {
		sc.EventType = c.event
	}
	return sc
}

// Enrich cleans a single screening. It is what SaveScreenings applies to
// every record.
func (s *Store) Enrich(ctx context.Context, sc model.RawScreening) model.RawScreening {
	return s.clean(ctx, sc.FilmTitle).apply(sc)
}

func (s *Store) clean(ctx context.Context, raw string) cleaned {
	ext := title.Extract(raw)
	c := cleaned{display: ext.Title, canonical: ext.Title, event: ext.EventType}
	if base, _, ok := patterns.SplitVersion(ext.Title); ok {
		c.canonical = base
	}
	if ext.IsNonFilm || s.ai == nil || title.IsLikelyCleanTitle(raw) {
		return c
	}

	res := s.ai.Extract(ctx, raw)
	if res.Confidence == title.ConfidenceLow || res.CanonicalTitle == "" {
		s.logger.Debug("enrich: keeping pattern title", "raw", raw, "title", c.display)
		return c
	}
	c.display, c.canonical = res.FilmTitle, res.CanonicalTitle
	if c.event == "" {
		c.event = res.EventType
	}
	return c
}
