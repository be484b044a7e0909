package title

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pictures-london/internal/llm"
	"github.com/iliyamo/pictures-london/internal/model"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		raw        string
		title      string
		event      string
		methods    []string
		confidence float64
	}{
		{"Vertigo", "Vertigo", "", []string{MethodNone}, 1},
		{"Solaris + Q&A", "Solaris", model.EventQandA, []string{MethodSuffix}, 0.9},
		{"Preview: Hamnet (15)", "Hamnet", model.EventPreview, []string{MethodCruft, MethodPrefix}, 0.9},
		{"NT Live: Hamlet", "Hamlet", "", []string{MethodLiveBroadcast}, 0.7},
		{"The Matrix + The Matrix Reloaded", "The Matrix", "", []string{MethodDoubleFeature}, 0.8},
		{"Apocalypse Now : Final Cut", "Apocalypse Now : Final Cut", "", []string{MethodNone}, 1},
		{"Am&eacute;lie", "Amélie", "", []string{MethodNone}, 1},
	}
	for _, tc := range cases {
		got := Extract(tc.raw)
		assert.Equal(t, tc.raw, got.Original)
		assert.Equal(t, tc.title, got.Title, tc.raw)
		assert.Equal(t, tc.event, got.EventType, tc.raw)
		assert.Equal(t, tc.methods, got.Methods, tc.raw)
		assert.InDelta(t, tc.confidence, got.Confidence, 1e-9, tc.raw)
	}
}

func TestExtract_Flags(t *testing.T) {
	live := Extract("NT Live: Hamlet")
	assert.True(t, live.IsLiveBroadcast)

	quiz := Extract("Film Quiz Night")
	assert.True(t, quiz.IsNonFilm)
	assert.Zero(t, quiz.Confidence)
	assert.Contains(t, quiz.Methods, MethodNonFilm)

	shorts := Extract("LSFF: Animation Shorts")
	assert.True(t, shorts.IsCompilation)
	assert.Equal(t, "Animation Shorts", shorts.Title)

	assert.Equal(t, "prefix_removal+suffix_removal", Extraction{Methods: []string{MethodPrefix, MethodSuffix}}.Method())
}

func TestDecodeEntities(t *testing.T) {
	assert.Equal(t, "Amélie", DecodeEntities("AmÃ©lie"))
	assert.Equal(t, "Rock & Roll", DecodeEntities("Rock &amp;amp; Roll"))
	assert.Equal(t, "Singin' in the Rain", DecodeEntities("Singin&amp;#39; in the Rain"))
	assert.Equal(t, "Plain", DecodeEntities("Plain"))
}

func TestCleanBasic(t *testing.T) {
	assert.Equal(t, "Vertigo", CleanBasic("Vertigo (PG) [Subtitled] + Q&A - 35mm"))
}

func TestSearchVariations(t *testing.T) {
	assert.Equal(t, []string{"Vertigo", "The Vertigo"}, SearchVariations("Vertigo"))
	assert.Equal(t, []string{"The Matrix (1999)", "Matrix (1999)", "The Matrix"}, SearchVariations("The Matrix (1999)"))
	assert.Nil(t, SearchVariations(""))
}

func TestIsLikelyCleanTitle(t *testing.T) {
	clean := []string{"Vertigo", "Star Wars: A New Hope", "Apocalypse Now: Final Cut", ""}
	for _, s := range clean {
		assert.True(t, IsLikelyCleanTitle(s), s)
	}
	dirty := []string{"Preview: Hamnet", "Blade Runner (1982)", "SOLARIS", "Cine Lit: Orlando"}
	for _, s := range dirty {
		assert.False(t, IsLikelyCleanTitle(s), s)
	}
}

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string, opts ...llm.GenerateOption) (string, error) {
	f.calls++
	return f.reply, f.err
}

func TestAIExtractor_UsesModelAndCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	gen := &fakeGenerator{reply: "```json\n{\"title\": \"Orlando\", \"canonical\": \"Orlando\", \"event\": \"Q&A\", \"confidence\": \"HIGH\"}\n```"}
	x := NewAIExtractor(gen, NewRedisCache(rdb, "test:title", time.Hour), nil)

	res := x.Extract(context.Background(), "CINE LIT: ORLANDO")
	assert.Equal(t, "Orlando", res.FilmTitle)
	assert.Equal(t, model.EventQandA, res.EventType)
	assert.Equal(t, ConfidenceHigh, res.Confidence)

	again := x.Extract(context.Background(), "CINE LIT: ORLANDO")
	assert.Equal(t, res, again)
	assert.Equal(t, 1, gen.calls)
	assert.Len(t, mr.Keys(), 1)
}

func TestAIExtractor_SkipsCleanTitles(t *testing.T) {
	gen := &fakeGenerator{}
	x := NewAIExtractor(gen, nil, nil)

	res := x.Extract(context.Background(), "Apocalypse Now: Final Cut")
	assert.Zero(t, gen.calls)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
	assert.Equal(t, "Apocalypse Now: Final Cut", res.FilmTitle)
	assert.Equal(t, "Apocalypse Now", res.CanonicalTitle)
	assert.Equal(t, "Final Cut", res.Version)
}

func TestAIExtractor_FallsBack(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"error":     {err: errors.New("timeout")},
		"malformed": {reply: "I think the title is Orlando"},
		"empty":     {reply: `{"title": ""}`},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			x := NewAIExtractor(gen, nil, nil)
			res := x.Extract(context.Background(), "SOLARIS (PG)")
			assert.Equal(t, ConfidenceLow, res.Confidence)
			assert.Equal(t, "SOLARIS", res.FilmTitle)
		})
	}

	x := NewAIExtractor(nil, nil, nil)
	assert.Equal(t, ConfidenceLow, x.Extract(context.Background(), "SOLARIS").Confidence)
}

func TestParseAIResponse_DefaultsConfidence(t *testing.T) {
	p, ok := parseAIResponse(`Sure! {"title": "Heat", "confidence": "certain"}`)
	require.True(t, ok)
	res := p.result()
	assert.Equal(t, "Heat", res.CanonicalTitle)
	assert.Equal(t, ConfidenceMedium, res.Confidence)
}

func TestExtract_DoubleBillSuffixBlocksSplit(t *testing.T) {
	withSuffix := Extract("The Gruffalo + The Gruffalo's Child Double-Bill")
	assert.Equal(t, "The Gruffalo + The Gruffalo's Child", withSuffix.Title)
	assert.NotContains(t, withSuffix.Methods, MethodDoubleFeature)

	plain := Extract("The Gruffalo + The Gruffalo's Child")
	assert.Equal(t, "The Gruffalo", plain.Title)
	assert.Equal(t, []string{MethodDoubleFeature}, plain.Methods)
}

func TestExtract_Idempotent(t *testing.T) {
	for _, raw := range []string{"Preview: Hamnet (15)", "Solaris + Q&A", "Vertigo"} {
		once := Extract(raw)
		twice := Extract(once.Title)
		assert.Equal(t, once.Title, twice.Title, raw)
		assert.Equal(t, []string{MethodNone}, twice.Methods, raw)
	}
}

func TestExtract_DecodesEntities(t *testing.T) {
	assert.Equal(t, "Singin' in the Rain", Extract("Singin&#39; in the Rain").Title)
	assert.Equal(t, "Lock, Stock & Two Smoking Barrels", Extract("Lock, Stock &amp; Two Smoking Barrels").Title)
}
