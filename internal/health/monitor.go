// Package health scores how fresh and complete each cinema's listings are.
package health

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/iliyamo/pictures-london/internal/model"
)

// Anomaly flags.
const (
	FlagStale            = "stale"
	FlagNoUpcoming       = "no_upcoming"
	FlagVolumeDrop       = "volume_drop"
	FlagLastImportFailed = "last_import_failed"
)

// Grades.
const (
	GradeHealthy  = "healthy"
	GradeWarning  = "warning"
	GradeCritical = "critical"
)

const (
	freshWindow   = 24 * time.Hour
	zeroFreshness = 7 * 24 * time.Hour
	staleAfter    = 48 * time.Hour

	freshnessWeight = 0.6
	volumeWeight    = 0.4
	volumeDropRatio = 0.5

	healthyFrom = 0.7
	warningFrom = 0.4
)

// Report is the health of one cinema.
type Report struct {
	CinemaID       string     `json:"cinema_id"`
	Name           string     `json:"name"`
	Score          float64    `json:"score"`
	Grade          string     `json:"grade"`
	Freshness      float64    `json:"freshness"`
	Volume         float64    `json:"volume"`
	UpcomingWeek   int        `json:"upcoming_week"`
	WeeklyBaseline float64    `json:"weekly_baseline"`
	LastUpdatedAt  *time.Time `json:"last_updated_at,omitempty"`
	Flags          []string   `json:"flags"`
}

// Source is the storage the monitor reads. It never writes.
type Source interface {
	CinemaActivity(ctx context.Context, now time.Time) ([]model.CinemaActivity, error)
	LatestRun(ctx context.Context) (*model.ImportRun, error)
}

// Monitor computes reports on demand.
type Monitor struct {
	src Source
	Now func() time.Time
}

func NewMonitor(src Source) *Monitor {
	return &Monitor{src: src, Now: time.Now}
}

// Check scores every cinema storage knows about.
func (m *Monitor) Check(ctx context.Context) ([]Report, error) {
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	acts, err := m.src.CinemaActivity(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("load cinema activity: %w", err)
	}
	run, err := m.src.LatestRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("load latest import run: %w", err)
	}
	lastFailed := run != nil && run.Status == model.RunFailed

	out := make([]Report, 0, len(acts))
	for _, a := range acts {
		out = append(out, Score(a, lastFailed, now))
	}
	return out, nil
}

// Score grades one cinema. Freshness is 1 within a day of the last update
// and falls linearly to 0 at seven days; volume compares the coming week with
// the weekly average of the previous four.
func Score(a model.CinemaActivity, lastImportFailed bool, now time.Time) Report {
	r := Report{
		CinemaID:       a.CinemaID,
		Name:           a.Name,
		UpcomingWeek:   a.UpcomingWeek,
		WeeklyBaseline: float64(a.TrailingFourWks) / 4,
		Flags:          []string{},
	}

	if a.LastUpdatedAt.IsZero() {
		r.Flags = append(r.Flags, FlagStale)
	} else {
		t := a.LastUpdatedAt
		r.LastUpdatedAt = &t
		age := now.Sub(a.LastUpdatedAt)
		r.Freshness = freshness(age)
		if age > staleAfter {
			r.Flags = append(r.Flags, FlagStale)
		}
	}

	switch {
	case r.WeeklyBaseline > 0:
		r.Volume = math.Min(1, float64(a.UpcomingWeek)/r.WeeklyBaseline)
	case a.UpcomingWeek > 0:
		r.Volume = 1
	}
	if a.UpcomingWeek == 0 {
		r.Flags = append(r.Flags, FlagNoUpcoming)
	}
	if r.WeeklyBaseline > 0 && float64(a.UpcomingWeek) < volumeDropRatio*r.WeeklyBaseline {
		r.Flags = append(r.Flags, FlagVolumeDrop)
	}
	if lastImportFailed {
		r.Flags = append(r.Flags, FlagLastImportFailed)
	}

	r.Score = round2(freshnessWeight*r.Freshness + volumeWeight*r.Volume)
	r.Freshness, r.Volume = round2(r.Freshness), round2(r.Volume)
	switch {
	case r.Score >= healthyFrom:
		r.Grade = GradeHealthy
	case r.Score >= warningFrom:
		r.Grade = GradeWarning
	default:
		r.Grade = GradeCritical
	}
	return r
}

func freshness(age time.Duration) float64 {
	switch {
	case age <= freshWindow:
		return 1
	case age >= zeroFreshness:
		return 0
	}
	return 1 - float64(age-freshWindow)/float64(zeroFreshness-freshWindow)
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
