package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pictures-london/internal/model"
)

func sampleRun() model.ImportRun {
	return model.ImportRun{
		ID:           "run-1",
		RunType:      model.RunFull,
		Status:       model.RunDegraded,
		SourceStatus: model.SourceStatuses{PDF: model.SourceFailed, Changes: model.SourceSuccess},
		Counts:       model.RunCounts{ChangesParsed: 3, Merged: 3, Added: 2, Updated: 1},
		Errors:       []model.RunError{{Code: model.ErrPDFNotFound, Message: "no guide"}},
		TriggeredBy:  "scheduler",
		FinishedAt:   time.Date(2025, 12, 10, 6, 0, 5, 0, time.UTC),
		DurationMS:   5000,
	}
}

func TestNewImportCompletedEvent(t *testing.T) {
	ev := NewImportCompletedEvent(sampleRun())
	assert.Equal(t, "run-1", ev.RunID)
	assert.Equal(t, model.SourceFailed, ev.PDFStatus)
	assert.Equal(t, []string{model.ErrPDFNotFound}, ev.ErrorCodes)
	assert.Equal(t, "2025-12-10T06:00:05Z", ev.FinishedAt)
}

func TestAppendEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "import.log")
	body, err := json.Marshal(NewImportCompletedEvent(sampleRun()))
	require.NoError(t, err)

	require.NoError(t, appendEvent(path, body))
	require.NoError(t, appendEvent(path, body))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	line := "[2025-12-10T06:00:05Z] Import degraded | run_id=run-1 | type=full | pdf=failed | changes=success | merged=3 | added=2 | updated=1 | failed=0 | errors=[PDF_NOT_FOUND] | by=\"scheduler\" | took=5000ms\n"
	assert.Equal(t, line+line, string(out))
}

func TestAppendEvent_BadPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.log")
	assert.Error(t, appendEvent(path, []byte("not json")))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
