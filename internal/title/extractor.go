// Package title turns noisy cinema listing strings into clean film titles.
//
// Extract is the cheap, synchronous pattern extractor and always runs first.
// AIExtractor adds a language-model pass for the listings the patterns cannot
// be trusted with, and falls back to local cleanup whenever the model is
// unavailable or answers with something unusable.
package title

import (
	"strings"

	"github.com/iliyamo/pictures-london/internal/patterns"
)

// Extraction method names reported in Extraction.Methods.
const (
	MethodNone          = "none"
	MethodPresents      = "presents_quoted"
	MethodSingAlong     = "sing_along"
	MethodLiveBroadcast = "live_broadcast"
	MethodCompilation   = "compilation"
	MethodCruft         = "cruft_removal"
	MethodPrefix        = "prefix_removal"
	MethodSuffix        = "suffix_removal"
	MethodDoubleFeature = "double_feature"
	MethodNonFilm       = "non_film"
)

// maxSuffixPasses bounds repeated suffix stripping ("Film - 4K Restoration + Q&A").
const maxSuffixPasses = 4

// Extraction is the result of the synchronous extractor.
type Extraction struct {
	Original        string   `json:"original"`
	Title           string   `json:"title"`
	EventType       string   `json:"event_type,omitempty"`
	Methods         []string `json:"extraction_method"`
	Confidence      float64  `json:"confidence"`
	IsNonFilm       bool     `json:"is_non_film"`
	IsLiveBroadcast bool     `json:"is_live_broadcast"`
	IsCompilation   bool     `json:"is_compilation"`
}

// Method joins the fired rules into one label ("prefix_removal+suffix_removal").
func (e Extraction) Method() string {
	return strings.Join(e.Methods, "+")
}

// Extract cleans one raw listing title using only the pattern library.
func Extract(raw string) Extraction {
	decoded := collapse(DecodeEntities(raw))
	res := Extraction{Original: raw, Title: decoded, Confidence: 1.0}

	t := decoded
	var methods []string
	lower := func(c float64) {
		if c < res.Confidence {
			res.Confidence = c
		}
	}

	// Special cases, first match wins.
	if m := patterns.PresentsQuoted.FindStringSubmatch(t); m != nil {
		t = collapse(m[1])
		methods = append(methods, MethodPresents)
		lower(0.9)
	} else if m := patterns.SingAlong.FindStringSubmatch(t); m != nil {
		t = collapse(m[1])
		methods = append(methods, MethodSingAlong)
		lower(0.9)
	} else if m := patterns.LiveBroadcast.FindStringSubmatch(t); m != nil {
		t = collapse(m[1])
		res.IsLiveBroadcast = true
		methods = append(methods, MethodLiveBroadcast)
		lower(0.7)
	} else if m := patterns.Compilation.FindStringSubmatch(t); m != nil {
		t = collapse(m[1])
		res.IsCompilation = true
		methods = append(methods, MethodCompilation)
		lower(0.3)
	}

	if c := stripCruft(t); c != t && c != "" {
		t = c
		methods = append(methods, MethodCruft)
		lower(0.95)
	}

	if rule, ok := patterns.FirstMatch(patterns.EventPrefixes, t); ok {
		if stripped := collapse(rule.Pattern.ReplaceAllString(t, "")); stripped != "" {
			t = stripped
			if rule.EventType != "" {
				res.EventType = rule.EventType
			}
			methods = append(methods, MethodPrefix)
			lower(0.9)
		}
	}

	suffixFired := false
	for i := 0; i < maxSuffixPasses; i++ {
		rule, ok := patterns.FirstMatch(patterns.TitleSuffixes, t)
		if !ok {
			break
		}
		stripped := collapse(rule.Pattern.ReplaceAllString(t, ""))
		if stripped == "" || stripped == t {
			break
		}
		t = stripped
		suffixFired = true
		if res.EventType == "" && rule.EventType != "" {
			res.EventType = rule.EventType
		}
	}
	if suffixFired {
		methods = append(methods, MethodSuffix)
		lower(0.9)
	}

	// A suffix rule already decided what the "+" meant; splitting again would
	// cut a double bill down to its first film.
	if !suffixFired {
		if m := patterns.DoubleFeature.FindStringSubmatch(t); m != nil {
			t = collapse(m[1])
			methods = append(methods, MethodDoubleFeature)
			lower(0.8)
		}
	}

	if patterns.IsNonFilm(decoded) {
		res.IsNonFilm = true
		methods = append(methods, MethodNonFilm)
		res.Confidence = 0
	}

	if len(methods) == 0 {
		methods = []string{MethodNone}
	}
	res.Title = t
	res.Methods = methods
	return res
}

// stripCruft removes certificates, bracketed tags and projection formats but
// leaves addenda to the suffix rules so they can classify the event.
func stripCruft(s string) string {
	s = patterns.Certificate.ReplaceAllString(s, "")
	s = patterns.BracketTag.ReplaceAllString(s, "")
	s = patterns.FormatTail.ReplaceAllString(s, "")
	return collapse(s)
}
