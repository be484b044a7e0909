package title

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/iliyamo/pictures-london/internal/llm"
	"github.com/iliyamo/pictures-london/internal/logger"
	"github.com/iliyamo/pictures-london/internal/model"
	"github.com/iliyamo/pictures-london/internal/patterns"
)

// Confidence tiers reported by the AI-assisted extractor.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// DefaultAITimeout bounds a single model call.
const DefaultAITimeout = 8 * time.Second

// AIResult is the outcome of the AI-assisted path. FilmTitle is for display
// and may keep a version suffix; CanonicalTitle never does and is what
// matching and dedup should use.
type AIResult struct {
	FilmTitle      string     `json:"film_title"`
	CanonicalTitle string     `json:"canonical_title"`
	Version        string     `json:"version,omitempty"`
	EventType      string     `json:"event_type,omitempty"`
	Confidence     Confidence `json:"confidence"`
}

// AIExtractor asks a language model to separate the film title from the
// cinema's decoration, but only for titles IsLikelyCleanTitle rejects.
// Extract never returns an error: every failure degrades to local cleanup
// with ConfidenceLow.
type AIExtractor struct {
	Generator llm.Generator
	Cache     Cache
	Timeout   time.Duration
	Logger    *slog.Logger
}

// NewAIExtractor wires an extractor with the default timeout. cache may be nil.
func NewAIExtractor(gen llm.Generator, cache Cache, log *slog.Logger) *AIExtractor {
	return &AIExtractor{Generator: gen, Cache: cache, Timeout: DefaultAITimeout, Logger: log}
}

// Extract returns the display and canonical title for raw.
func (x *AIExtractor) Extract(ctx context.Context, raw string) AIResult {
	if IsLikelyCleanTitle(raw) {
		return localResult(raw, ConfidenceHigh)
	}
	log := logger.OrDefault(x.Logger)
	if x.Generator == nil {
		return localResult(raw, ConfidenceLow)
	}
	if x.Cache != nil {
		if cached, ok := x.Cache.Get(ctx, raw); ok {
			return cached
		}
	}

	timeout := x.Timeout
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := x.Generator.GenerateText(callCtx, buildPrompt(raw), llm.WithSystemPrompt(systemPrompt))
	if err != nil {
		log.Warn("title extraction model call failed", "title", raw, "error", err)
		return localResult(raw, ConfidenceLow)
	}
	payload, ok := parseAIResponse(text)
	if !ok {
		log.Warn("title extraction model returned malformed output", "title", raw)
		return localResult(raw, ConfidenceLow)
	}

	res := payload.result()
	if x.Cache != nil {
		x.Cache.Set(ctx, raw, res)
	}
	return res
}

// localResult is the deterministic path: basic cruft cleanup, then a local
// version-suffix split.
func localResult(raw string, conf Confidence) AIResult {
	cleaned := CleanBasic(raw)
	res := AIResult{
		FilmTitle:      cleaned,
		CanonicalTitle: cleaned,
		EventType:      Extract(raw).EventType,
		Confidence:     conf,
	}
	if base, version, ok := patterns.SplitVersion(cleaned); ok {
		res.CanonicalTitle = base
		res.Version = version
	}
	return res
}

const systemPrompt = `You clean up London cinema listing titles. Respond with a single JSON object and nothing else.`

func buildPrompt(raw string) string {
	return fmt.Sprintf(`Extract the film title from this cinema listing: %q

Rules:
- "title": the film title for display. Remove cinema club names, season or strand prefixes, format tags (35mm, 4K, IMAX), certificates and event addenda (Q&A, intro, discussion). Keep version markers such as "Director's Cut" or "Final Cut".
- "canonical": the base title used for matching. Strip version markers ("Director's Cut", "Final Cut", "Extended Edition", "Redux"). Keep real subtitles that belong to the film, e.g. "Star Wars: A New Hope" or "Mission: Impossible - Dead Reckoning".
- "version": the version marker you removed, if any.
- "event": one of q_and_a, intro, discussion, preview, premiere, if the listing advertises it.
- "confidence": high, medium or low.

Respond as {"title": "...", "canonical": "...", "version": "...", "event": "...", "confidence": "..."}`, raw)
}

// aiPayload is the strict shape requested from the model.
type aiPayload struct {
	Title      string `json:"title"`
	Canonical  string `json:"canonical"`
	Version    string `json:"version"`
	Event      string `json:"event"`
	Confidence string `json:"confidence"`
}

var codeFence = regexp.MustCompile("(?s)^\\s*```[a-zA-Z]*\\s*(.*?)\\s*```\\s*$")

// parseAIResponse strips markdown fences and decodes the payload. The bool
// is false for anything malformed; callers fall back instead of erroring.
func parseAIResponse(text string) (aiPayload, bool) {
	if m := codeFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return aiPayload{}, false
	}
	var p aiPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &p); err != nil {
		return aiPayload{}, false
	}
	p.Title = collapse(p.Title)
	if p.Title == "" {
		return aiPayload{}, false
	}
	return p, true
}

func (p aiPayload) result() AIResult {
	canonical := collapse(p.Canonical)
	if canonical == "" {
		canonical = p.Title
	}
	conf := Confidence(strings.ToLower(strings.TrimSpace(p.Confidence)))
	switch conf {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
	default:
		conf = ConfidenceMedium
	}
	return AIResult{
		FilmTitle:      p.Title,
		CanonicalTitle: canonical,
		Version:        strings.TrimSpace(p.Version),
		EventType:      normalizeEvent(p.Event),
		Confidence:     conf,
	}
}

func normalizeEvent(e string) string {
	switch strings.ToLower(strings.TrimSpace(e)) {
	case model.EventQandA, "q&a", "qa":
		return model.EventQandA
	case model.EventIntro, "introduction":
		return model.EventIntro
	case model.EventDiscussion, "panel":
		return model.EventDiscussion
	case model.EventPreview:
		return model.EventPreview
	case model.EventPremiere:
		return model.EventPremiere
	}
	return ""
}
