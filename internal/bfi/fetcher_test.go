package bfi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guideServer(t *testing.T, page string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/whats-on/guide", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/files/bfi-southbank-guide-december-2025.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake guide"))
	})
	mux.HandleFunc("/changes", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(changesPage))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGuideFetcher_FindsPDFAndTracksHash(t *testing.T) {
	srv := guideServer(t, `<html><body>
		<a href="/about">About</a>
		<a href="/files/bfi-southbank-guide-december-2025.pdf">Download the guide</a>
		<a href="/files/bfi-southbank-guide-december-2025.pdf">again</a>
	</body></html>`)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	f := NewGuideFetcher(srv.URL+"/whats-on/guide", NewRedisHashStore(rdb, "test:guide"), nil)
	ctx := context.Background()

	doc, err := f.FetchDocument(ctx)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "bfi-southbank-guide-december-2025", doc.Label)
	assert.Equal(t, srv.URL+"/files/bfi-southbank-guide-december-2025.pdf", doc.URL)
	assert.Len(t, doc.ContentHash, 64)
	assert.True(t, doc.Changed)

	again, err := f.FetchDocument(ctx)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	stored, err := mr.Get("test:guide")
	require.NoError(t, err)
	assert.Equal(t, doc.ContentHash, stored)
}

func TestGuideFetcher_NoPDFLinked(t *testing.T) {
	srv := guideServer(t, `<html><body><a href="/about">About</a></body></html>`)
	doc, err := NewGuideFetcher(srv.URL+"/whats-on/guide", nil, nil).FetchDocument(context.Background())
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestGuideFetcher_HTTPError(t *testing.T) {
	srv := guideServer(t, "")
	_, err := NewGuideFetcher(srv.URL+"/broken", nil, nil).FetchDocument(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestChangesFetcher(t *testing.T) {
	srv := guideServer(t, "")
	p := fixedParser(time.Date(2025, 12, 10, 12, 0, 0, 0, London))

	res, err := NewChangesFetcher(srv.URL+"/changes", p).FetchChanges(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Screenings, 3)

	_, err = NewChangesFetcher(srv.URL+"/broken", p).FetchChanges(context.Background())
	assert.True(t, err != nil && strings.Contains(err.Error(), "500"))
}

func TestPDFText_RejectsGarbage(t *testing.T) {
	_, err := PDFTextExtractor{}.ExtractText([]byte("not a pdf"))
	assert.Error(t, err)
}
