package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pictures-london/internal/model"
)

func degradedRun() model.ImportRun {
	return model.ImportRun{
		ID:           "run-1",
		RunType:      model.RunFull,
		Status:       model.RunDegraded,
		SourceStatus: model.SourceStatuses{PDF: model.SourceFailed, Changes: model.SourceSuccess},
		Counts:       model.RunCounts{ChangesParsed: 4, Merged: 4, Added: 3, Updated: 1},
		Errors:       []model.RunError{{Code: model.ErrPDFFetchParseFailed, Message: "read tcp: connection reset"}},
		TriggeredBy:  "cron",
	}
}

func TestWebhook_Send(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewWebhook(srv.URL).Send(context.Background(), degradedRun()))
	assert.Equal(t, model.RunDegraded, got.Status)
	assert.Equal(t, []string{model.ErrPDFFetchParseFailed}, got.ErrorCodes)
	assert.Contains(t, got.Text, "DEGRADED")
	assert.Contains(t, got.Text, "errors=PDF_FETCH_PARSE_FAILED")
	assert.NotContains(t, got.Text, "connection reset")
}

func TestWebhook_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	assert.Error(t, NewWebhook(srv.URL).Send(context.Background(), degradedRun()))
}

func TestNewWebhook_Disabled(t *testing.T) {
	assert.Nil(t, NewWebhook(""))
}
