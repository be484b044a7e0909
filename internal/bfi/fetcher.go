package bfi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iliyamo/pictures-london/internal/logger"
	"github.com/iliyamo/pictures-london/internal/utils"
)

const (
	defaultTimeout = 30 * time.Second
	maxPDFBytes    = 64 << 20
	maxPageBytes   = 8 << 20
	userAgent      = "pictures-london/1.0 (+listings importer)"
)

// ErrUnexpectedStatus is wrapped when a source answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected http status")

// Document is a downloaded guide PDF.
//
// Fields:
//
//	URL         – where it was downloaded from.
//	Label       – file name without extension; used for coverage detection.
//	ContentHash – BLAKE2b-256 of the bytes.
//	Changed     – false when the hash matches the previous download.
type Document struct {
	URL         string
	Label       string
	ContentHash string
	Raw         []byte
	Changed     bool
}

// GuideFetcher locates and downloads the current programme guide. GuideURL is
// either the PDF itself or a page linking to it.
type GuideFetcher struct {
	GuideURL string
	Client   *http.Client
	Hashes   HashStore
	Logger   *slog.Logger
}

// NewGuideFetcher wires a fetcher with a default HTTP client. hashes may be
// nil.
func NewGuideFetcher(guideURL string, hashes HashStore, log *slog.Logger) *GuideFetcher {
	return &GuideFetcher{
		GuideURL: guideURL,
		Client:   &http.Client{Timeout: defaultTimeout},
		Hashes:   hashes,
		Logger:   logger.OrDefault(log),
	}
}

// FetchDocument returns the latest guide, or nil with no error when the guide
// page links to no PDF.
func (f *GuideFetcher) FetchDocument(ctx context.Context) (*Document, error) {
	log := logger.OrDefault(f.Logger)
	pdfURL := f.GuideURL
	if !isPDFLink(pdfURL) {
		page, err := get(ctx, f.client(), f.GuideURL, maxPageBytes)
		if err != nil {
			return nil, fmt.Errorf("fetch guide page: %w", err)
		}
		links, err := pdfLinks(f.GuideURL, page)
		if err != nil {
			return nil, fmt.Errorf("scan guide page: %w", err)
		}
		if len(links) == 0 {
			log.Warn("bfi: guide page links to no pdf", "url", f.GuideURL)
			return nil, nil
		}
		pdfURL = links[0]
	}

	raw, err := get(ctx, f.client(), pdfURL, maxPDFBytes)
	if err != nil {
		return nil, fmt.Errorf("download guide pdf: %w", err)
	}
	doc := &Document{
		URL:         pdfURL,
		Label:       documentLabel(pdfURL),
		ContentHash: utils.ContentHash(raw),
		Raw:         raw,
		Changed:     true,
	}
	if f.Hashes != nil {
		prev, err := f.Hashes.LastHash(ctx)
		if err != nil {
			log.Warn("bfi: read previous guide hash", "error", err)
		}
		doc.Changed = prev != doc.ContentHash
		if doc.Changed {
			if err := f.Hashes.SaveHash(ctx, doc.ContentHash); err != nil {
				log.Warn("bfi: store guide hash", "error", err)
			}
		}
	}
	log.Info("bfi: downloaded guide", "url", pdfURL, "bytes", len(raw), "changed", doc.Changed)
	return doc, nil
}

func (f *GuideFetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

// ChangesFetcher downloads and parses the programme-changes page.
type ChangesFetcher struct {
	URL    string
	Client *http.Client
	Parser *Parser
}

// NewChangesFetcher returns a fetcher using p to parse the page.
func NewChangesFetcher(pageURL string, p *Parser) *ChangesFetcher {
	return &ChangesFetcher{URL: pageURL, Client: &http.Client{Timeout: defaultTimeout}, Parser: p}
}

func (f *ChangesFetcher) FetchChanges(ctx context.Context) (*ChangesResult, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	body, err := get(ctx, client, f.URL, maxPageBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch changes page: %w", err)
	}
	res, err := f.Parser.ParseChanges(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func get(ctx context.Context, client *http.Client, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, rawURL, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

// pdfLinks returns the absolute URLs of every PDF linked from page, in
// document order with duplicates removed.
func pdfLinks(base string, page []byte) ([]string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}
	var (
		out  []string
		seen = map[string]bool{}
		walk func(*html.Node)
	)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			for _, a := range n.Attr {
				if a.Key != "href" || !isPDFLink(a.Val) {
					continue
				}
				ref, err := url.Parse(strings.TrimSpace(a.Val))
				if err != nil {
					continue
				}
				abs := baseURL.ResolveReference(ref).String()
				if !seen[abs] {
					seen[abs] = true
					out = append(out, abs)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func isPDFLink(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return strings.EqualFold(path.Ext(u.Path), ".pdf")
}

func documentLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	return strings.TrimSuffix(base, path.Ext(base))
}
