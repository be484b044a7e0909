// Package importer runs the BFI listings import: it fetches the programme
// guide and the programme-changes page, merges them venue-aware, saves each
// venue's screenings and grades the run.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/pictures-london/internal/bfi"
	"github.com/iliyamo/pictures-london/internal/logger"
	"github.com/iliyamo/pictures-london/internal/model"
)

// DefaultSourceTimeout bounds one fetch+parse step.
const DefaultSourceTimeout = 2 * time.Minute

// Store is the storage collaborator.
type Store interface {
	EnsureCinema(ctx context.Context, v model.Venue) error
	SaveScreenings(ctx context.Context, cinemaID string, screenings []model.RawScreening) (model.SaveResult, error)
}

// DocumentFetcher returns the current guide, or nil when none is published.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context) (*bfi.Document, error)
}

type TextExtractor interface {
	ExtractText(raw []byte) (string, error)
}

type GuideParser interface {
	ParseGuide(text, label string) bfi.GuideResult
}

type ChangesFetcher interface {
	FetchChanges(ctx context.Context) (*bfi.ChangesResult, error)
}

// RunRecorder persists the run record.
type RunRecorder interface {
	Create(ctx context.Context, run model.ImportRun) error
}

// Alerter notifies operators of a run that was not a clean success.
type Alerter interface {
	Send(ctx context.Context, run model.ImportRun) error
}

// EventPublisher announces every finished run.
type EventPublisher interface {
	PublishImportCompleted(ctx context.Context, run model.ImportRun) error
}

// Sources groups the guide and changes collaborators.
type Sources struct {
	Documents DocumentFetcher
	Text      TextExtractor
	Guide     GuideParser
	Changes   ChangesFetcher
}

// Importer holds the collaborators of an import run. Runs, Alerts and Events
// are optional. The importer does no locking; callers must not start two
// runs at once.
type Importer struct {
	Venues  model.VenueSet
	Store   Store
	Sources Sources
	Runs    RunRecorder
	Alerts  Alerter
	Events  EventPublisher
	Logger  *slog.Logger

	SecondaryMarker string
	SourceTimeout   time.Duration
	Now             func() time.Time
}

// New returns an importer for venues saving into store.
func New(venues model.VenueSet, store Store, src Sources, log *slog.Logger) *Importer {
	return &Importer{
		Venues:          venues,
		Store:           store,
		Sources:         src,
		Logger:          logger.OrDefault(log),
		SecondaryMarker: DefaultSecondaryMarker,
		SourceTimeout:   DefaultSourceTimeout,
		Now:             time.Now,
	}
}

// RunFullImport runs both sources. Zero merged screenings fail the run.
func (im *Importer) RunFullImport(ctx context.Context, triggeredBy string) model.ImportRun {
	return im.run(ctx, model.RunFull, triggeredBy)
}

// RunChangesImport runs the changes source only. Zero screenings is a normal
// outcome here and the run still succeeds.
func (im *Importer) RunChangesImport(ctx context.Context, triggeredBy string) model.ImportRun {
	return im.run(ctx, model.RunChangesOnly, triggeredBy)
}

// sourceResult is the value-typed outcome of one fetch+parse step.
type sourceResult struct {
	status     model.SourceStatus
	screenings []model.RawScreening
	err        *model.RunError
}

func (im *Importer) run(ctx context.Context, kind model.RunType, triggeredBy string) model.ImportRun {
	run := model.ImportRun{
		ID:          uuid.NewString(),
		RunType:     kind,
		TriggeredBy: triggeredBy,
		StartedAt:   im.now(),
	}
	log := im.log().With("run_id", run.ID, "run_type", kind)
	log.Info("import: run started", "triggered_by", triggeredBy)

	var errs []model.RunError
	errs = append(errs, im.ensureVenues(ctx)...)

	var guide, changes sourceResult
	var wg sync.WaitGroup
	if kind == model.RunFull {
		wg.Add(1)
		go func() {
			defer wg.Done()
			guide = im.runSource(ctx, "pdf", model.ErrPDFFetchParseFailed, im.fetchGuide)
		}()
	} else {
		guide = sourceResult{status: model.SourceSkipped}
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		changes = im.runSource(ctx, "changes", model.ErrChangesFetchParseFail, im.fetchChanges)
	}()
	wg.Wait()

	for _, r := range []sourceResult{guide, changes} {
		if r.err != nil {
			errs = append(errs, *r.err)
		}
	}
	run.SourceStatus = model.SourceStatuses{PDF: guide.status, Changes: changes.status}
	run.Counts.PDFParsed = len(guide.screenings)
	run.Counts.ChangesParsed = len(changes.screenings)

	merged := Merge(guide.screenings, changes.screenings, im.SecondaryMarker)
	run.Counts.Merged = len(merged)
	allowEmpty := kind == model.RunChangesOnly
	if len(merged) == 0 && !allowEmpty {
		errs = append(errs, model.RunError{Code: model.ErrNoScreeningsParsed, Message: "neither source produced any screenings"})
	}

	if len(merged) > 0 {
		saved, saveErrs := im.save(ctx, merged)
		run.Counts.Added, run.Counts.Updated, run.Counts.Failed = saved.Added, saved.Updated, saved.Failed
		errs = append(errs, saveErrs...)
	}

	run.Errors = errs
	run.Status = gradeRun(len(merged), allowEmpty, run.SourceStatus, errs)
	run.FinishedAt = im.now()
	run.DurationMS = run.FinishedAt.Sub(run.StartedAt).Milliseconds()

	log.Info("import: run finished",
		"status", run.Status,
		"pdf", run.SourceStatus.PDF,
		"changes", run.SourceStatus.Changes,
		"merged", run.Counts.Merged,
		"added", run.Counts.Added,
		"updated", run.Counts.Updated,
		"failed", run.Counts.Failed,
		"errors", strings.Join(run.ErrorCodes(), ","),
	)
	im.finish(ctx, run, log)
	return run
}

// gradeRun: failed when nothing was found and emptiness is not allowed,
// degraded when any source failed or any error was recorded, else success.
func gradeRun(total int, allowEmpty bool, src model.SourceStatuses, errs []model.RunError) model.RunStatus {
	switch {
	case total == 0 && !allowEmpty:
		return model.RunFailed
	case src.PDF == model.SourceFailed || src.Changes == model.SourceFailed || len(errs) > 0:
		return model.RunDegraded
	default:
		return model.RunSuccess
	}
}

func (im *Importer) ensureVenues(ctx context.Context) []model.RunError {
	var errs []model.RunError
	for _, v := range im.Venues.All() {
		if err := im.Store.EnsureCinema(ctx, v); err != nil {
			im.log().Error("import: ensure cinema", "cinema", v.ID, "error", err)
			errs = append(errs, model.RunError{Code: model.ErrVenueInitFailed, Message: fmt.Sprintf("%s: %v", v.ID, err)})
		}
	}
	return errs
}

// runSource applies the source timeout and turns a panic inside the step
// into a failed source.
func (im *Importer) runSource(ctx context.Context, name, code string, step func(context.Context) sourceResult) (res sourceResult) {
	timeout := im.SourceTimeout
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	defer func() {
		if p := recover(); p != nil {
			res = failed(code, fmt.Sprintf("%s source panicked: %v", name, p))
		}
		if res.err != nil {
			im.log().Warn("import: source failed", "source", name, "code", res.err.Code, "error", res.err.Message)
		}
	}()
	return step(sctx)
}

func failed(code, msg string) sourceResult {
	return sourceResult{status: model.SourceFailed, err: &model.RunError{Code: code, Message: msg}}
}

func classify(screenings []model.RawScreening) sourceResult {
	if len(screenings) == 0 {
		return sourceResult{status: model.SourceEmpty}
	}
	return sourceResult{status: model.SourceSuccess, screenings: screenings}
}

func (im *Importer) fetchGuide(ctx context.Context) sourceResult {
	src := im.Sources
	if src.Documents == nil || src.Text == nil || src.Guide == nil {
		return failed(model.ErrPDFFetchParseFailed, "guide source not configured")
	}
	doc, err := src.Documents.FetchDocument(ctx)
	if err != nil {
		return failed(model.ErrPDFFetchParseFailed, err.Error())
	}
	if doc == nil {
		return failed(model.ErrPDFNotFound, "no programme guide document available")
	}
	text, err := src.Text.ExtractText(doc.Raw)
	if err != nil {
		return failed(model.ErrPDFFetchParseFailed, fmt.Sprintf("%s: %v", doc.Label, err))
	}
	res := src.Guide.ParseGuide(text, doc.Label)
	for _, pe := range res.ParseErrors {
		im.log().Warn("import: guide parse error", "document", doc.Label, "error", pe)
	}
	im.log().Info("import: guide parsed", "document", doc.Label, "changed", doc.Changed, "films", len(res.Films), "screenings", len(res.Screenings))
	return classify(res.Screenings)
}

func (im *Importer) fetchChanges(ctx context.Context) sourceResult {
	if im.Sources.Changes == nil {
		return failed(model.ErrChangesFetchParseFail, "changes source not configured")
	}
	res, err := im.Sources.Changes.FetchChanges(ctx)
	if err != nil {
		return failed(model.ErrChangesFetchParseFail, err.Error())
	}
	if res == nil {
		return failed(model.ErrChangesFailed, "changes source returned no result")
	}
	if len(res.StructuralErrors) > 0 && len(res.Screenings) == 0 {
		return failed(model.ErrChangesFailed, strings.Join(res.StructuralErrors, "; "))
	}
	for _, se := range res.StructuralErrors {
		im.log().Warn("import: changes page structural error", "error", se)
	}
	im.log().Info("import: changes parsed", "screenings", len(res.Screenings), "last_updated", res.LastUpdated)
	return classify(res.Screenings)
}

// save writes each venue partition concurrently. A failed partition is
// recorded and does not stop the other.
func (im *Importer) save(ctx context.Context, merged []model.RawScreening) (model.SaveResult, []model.RunError) {
	var (
		mu    sync.Mutex
		total model.SaveResult
		errs  []model.RunError
		wg    sync.WaitGroup
	)
	for key, screenings := range partition(merged, im.SecondaryMarker) {
		screenings := screenings
		venue := im.Venues.ForKey(key)
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := im.Store.SaveScreenings(ctx, venue.ID, screenings)
			mu.Lock()
			defer mu.Unlock()
			total.Add(res)
			if err != nil {
				im.log().Error("import: save partition", "cinema", venue.ID, "screenings", len(screenings), "error", err)
				errs = append(errs, model.RunError{
					Code:    model.SaveFailedCode(partitionLabel(venue)),
					Message: fmt.Sprintf("%s: %v", venue.ID, err),
				})
			}
		}()
	}
	wg.Wait()
	return total, errs
}

// finish runs the best-effort tail of a run: record, alert, event. None of
// them can change the outcome.
func (im *Importer) finish(ctx context.Context, run model.ImportRun, log *slog.Logger) {
	if im.Runs != nil {
		if err := im.Runs.Create(ctx, run); err != nil {
			log.Error("import: persist run record", "error", err)
		}
	}
	if im.Alerts != nil && run.Status != model.RunSuccess {
		if err := im.Alerts.Send(ctx, run); err != nil {
			log.Error("import: send alert", "error", err)
		}
	}
	if im.Events != nil {
		if err := im.Events.PublishImportCompleted(ctx, run); err != nil {
			log.Warn("import: publish completion event", "error", err)
		}
	}
}

func (im *Importer) now() time.Time {
	if im.Now == nil {
		return time.Now()
	}
	return im.Now()
}

func (im *Importer) log() *slog.Logger { return logger.OrDefault(im.Logger) }
