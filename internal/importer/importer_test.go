package importer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pictures-london/internal/bfi"
	"github.com/iliyamo/pictures-london/internal/model"
)

type fakeStore struct {
	mu        sync.Mutex
	ensured   []string
	ensureErr error
	saved     map[string][]model.RawScreening
	saveErr   map[string]error
}

func (s *fakeStore) EnsureCinema(_ context.Context, v model.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensured = append(s.ensured, v.ID)
	return s.ensureErr
}

func (s *fakeStore) SaveScreenings(_ context.Context, cinemaID string, sc []model.RawScreening) (model.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveErr[cinemaID]; err != nil {
		return model.SaveResult{}, err
	}
	if s.saved == nil {
		s.saved = map[string][]model.RawScreening{}
	}
	s.saved[cinemaID] = append(s.saved[cinemaID], sc...)
	return model.SaveResult{Added: len(sc)}, nil
}

type fakeDocs struct {
	doc *bfi.Document
	err error
}

func (f fakeDocs) FetchDocument(context.Context) (*bfi.Document, error) { return f.doc, f.err }

type fakeText struct{}

func (fakeText) ExtractText(raw []byte) (string, error) { return string(raw), nil }

type fakeGuide struct{ screenings []model.RawScreening }

func (f fakeGuide) ParseGuide(string, string) bfi.GuideResult {
	return bfi.GuideResult{Screenings: f.screenings}
}

type fakeChanges struct {
	res *bfi.ChangesResult
	err error
}

func (f fakeChanges) FetchChanges(context.Context) (*bfi.ChangesResult, error) { return f.res, f.err }

type recorder struct {
	runs   []model.ImportRun
	alerts []model.ImportRun
	events []model.ImportRun
}

func (r *recorder) Create(_ context.Context, run model.ImportRun) error {
	r.runs = append(r.runs, run)
	return errors.New("db down")
}

func (r *recorder) Send(_ context.Context, run model.ImportRun) error {
	r.alerts = append(r.alerts, run)
	return nil
}

func (r *recorder) PublishImportCompleted(_ context.Context, run model.ImportRun) error {
	r.events = append(r.events, run)
	return nil
}

var at = time.Date(2030, 3, 14, 18, 30, 0, 0, time.UTC)

func screening(title, screen, url string) model.RawScreening {
	return model.RawScreening{FilmTitle: title, Datetime: at, Screen: screen, BookingURL: url}
}

func newTestImporter(store *fakeStore, src Sources, rec *recorder) *Importer {
	im := New(model.BFIVenues, store, src, nil)
	im.Runs, im.Alerts, im.Events = rec, rec, rec
	return im
}

func guideSources(guide []model.RawScreening, changes *bfi.ChangesResult, changesErr error) Sources {
	return Sources{
		Documents: fakeDocs{doc: &bfi.Document{Label: "guide", Raw: []byte("text")}},
		Text:      fakeText{},
		Guide:     fakeGuide{screenings: guide},
		Changes:   fakeChanges{res: changes, err: changesErr},
	}
}

func TestFullImport_VenueAwareDedup(t *testing.T) {
	store, rec := &fakeStore{}, &recorder{}
	guide := []model.RawScreening{
		screening("Oppenheimer", "NFT1", "https://whatson.bfi.org.uk/x"),
		screening("Oppenheimer", "IMAX", "https://whatson.bfi.org.uk/x"),
	}
	run := newTestImporter(store, guideSources(guide, &bfi.ChangesResult{}, nil), rec).RunFullImport(context.Background(), "test")

	assert.Equal(t, model.RunSuccess, run.Status)
	assert.Equal(t, 2, run.Counts.Merged)
	assert.Len(t, store.saved["bfi-southbank"], 1)
	assert.Len(t, store.saved["bfi-imax"], 1)
	assert.Equal(t, 2, run.Counts.Added)
	assert.ElementsMatch(t, []string{"bfi-southbank", "bfi-imax"}, store.ensured)
	assert.Empty(t, rec.alerts)
	assert.Len(t, rec.runs, 1, "run record failure is logged, not fatal")
	assert.Len(t, rec.events, 1)
}

func TestFullImport_ChangesWinTies(t *testing.T) {
	store, rec := &fakeStore{}, &recorder{}
	guide := []model.RawScreening{screening("Vertigo", "NFT1", "https://whatson.bfi.org.uk/old")}
	changes := &bfi.ChangesResult{Screenings: []model.RawScreening{screening("VERTIGO", "nft 1", "https://whatson.bfi.org.uk/new")}}

	run := newTestImporter(store, guideSources(guide, changes, nil), rec).RunFullImport(context.Background(), "test")

	require.Equal(t, 1, run.Counts.Merged)
	require.Len(t, store.saved["bfi-southbank"], 1)
	assert.Equal(t, "https://whatson.bfi.org.uk/new", store.saved["bfi-southbank"][0].BookingURL)
}

func TestRunGrading(t *testing.T) {
	ctx := context.Background()

	t.Run("guide failed, changes ok: degraded", func(t *testing.T) {
		rec := &recorder{}
		src := guideSources(nil, &bfi.ChangesResult{Screenings: []model.RawScreening{screening("Brazil", "NFT2", "")}}, nil)
		src.Documents = fakeDocs{err: errors.New("timeout")}
		run := newTestImporter(&fakeStore{}, src, rec).RunFullImport(ctx, "test")

		assert.Equal(t, model.RunDegraded, run.Status)
		assert.True(t, run.Success())
		assert.Equal(t, model.SourceFailed, run.SourceStatus.PDF)
		assert.Equal(t, model.SourceSuccess, run.SourceStatus.Changes)
		assert.Equal(t, []string{model.ErrPDFFetchParseFailed}, run.ErrorCodes())
		assert.Len(t, rec.alerts, 1)
	})

	t.Run("guide failed, changes empty: failed", func(t *testing.T) {
		rec := &recorder{}
		src := guideSources(nil, &bfi.ChangesResult{}, nil)
		src.Documents = fakeDocs{}
		run := newTestImporter(&fakeStore{}, src, rec).RunFullImport(ctx, "test")

		assert.Equal(t, model.RunFailed, run.Status)
		assert.False(t, run.Success())
		assert.Equal(t, model.SourceEmpty, run.SourceStatus.Changes)
		assert.Equal(t, []string{model.ErrPDFNotFound, model.ErrNoScreeningsParsed}, run.ErrorCodes())
		assert.Len(t, rec.alerts, 1)
	})

	t.Run("changes-only empty: success", func(t *testing.T) {
		rec := &recorder{}
		run := newTestImporter(&fakeStore{}, guideSources(nil, &bfi.ChangesResult{}, nil), rec).RunChangesImport(ctx, "cron")

		assert.Equal(t, model.RunSuccess, run.Status)
		assert.Equal(t, model.SourceSkipped, run.SourceStatus.PDF)
		assert.Equal(t, model.SourceEmpty, run.SourceStatus.Changes)
		assert.Empty(t, run.Errors)
		assert.Empty(t, rec.alerts)
		assert.Len(t, rec.events, 1)
	})

	t.Run("changes page layout broken", func(t *testing.T) {
		src := guideSources([]model.RawScreening{screening("Brazil", "NFT2", "")}, &bfi.ChangesResult{StructuralErrors: []string{"no headings"}}, nil)
		run := newTestImporter(&fakeStore{}, src, &recorder{}).RunFullImport(ctx, "test")

		assert.Equal(t, model.RunDegraded, run.Status)
		assert.Equal(t, []string{model.ErrChangesFailed}, run.ErrorCodes())
	})
}

func TestFullImport_PartitionFailureIsIndependent(t *testing.T) {
	store := &fakeStore{saveErr: map[string]error{"bfi-imax": errors.New("deadlock")}}
	guide := []model.RawScreening{
		screening("Dune: Part Two", "IMAX", ""),
		screening("Paris, Texas", "NFT3", ""),
	}
	run := newTestImporter(store, guideSources(guide, &bfi.ChangesResult{}, nil), &recorder{}).RunFullImport(context.Background(), "test")

	assert.Equal(t, model.RunDegraded, run.Status)
	assert.Equal(t, []string{"SAVE_IMAX_FAILED"}, run.ErrorCodes())
	assert.Len(t, store.saved["bfi-southbank"], 1)
	assert.Equal(t, 1, run.Counts.Added)
}

func TestFullImport_VenueInitFailureDoesNotAbort(t *testing.T) {
	store := &fakeStore{ensureErr: errors.New("no table")}
	guide := []model.RawScreening{screening("Paris, Texas", "NFT3", "")}
	run := newTestImporter(store, guideSources(guide, &bfi.ChangesResult{}, nil), &recorder{}).RunFullImport(context.Background(), "test")

	assert.Equal(t, model.RunDegraded, run.Status)
	assert.Equal(t, []string{model.ErrVenueInitFailed, model.ErrVenueInitFailed}, run.ErrorCodes())
	assert.Len(t, store.saved["bfi-southbank"], 1)
}

func TestFullImport_SourcePanicIsContained(t *testing.T) {
	src := guideSources(nil, nil, nil)
	src.Guide = panicGuide{}
	src.Changes = fakeChanges{res: &bfi.ChangesResult{Screenings: []model.RawScreening{screening("Brazil", "NFT2", "")}}}
	run := newTestImporter(&fakeStore{}, src, &recorder{}).RunFullImport(context.Background(), "test")

	assert.Equal(t, model.SourceFailed, run.SourceStatus.PDF)
	assert.Equal(t, model.RunDegraded, run.Status)
}

type panicGuide struct{}

func (panicGuide) ParseGuide(string, string) bfi.GuideResult { panic("index out of range") }
