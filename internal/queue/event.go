// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/pictures-london/internal/model"
)

// ImportCompletedQueue carries one message per finished import run.
const ImportCompletedQueue = "import.completed"

// ImportCompletedEvent is published when an import run finishes, whatever
// its status. It holds enough of the run record for consumers to log or
// notify without reading the database.
type ImportCompletedEvent struct {
	RunID         string             `json:"run_id"`
	RunType       model.RunType      `json:"run_type"`
	Status        model.RunStatus    `json:"status"`
	PDFStatus     model.SourceStatus `json:"pdf_status"`
	ChangesStatus model.SourceStatus `json:"changes_status"`
	Merged        int                `json:"merged"`
	Added         int                `json:"added"`
	Updated       int                `json:"updated"`
	Failed        int                `json:"failed"`
	ErrorCodes    []string           `json:"error_codes"`
	TriggeredBy   string             `json:"triggered_by"`
	DurationMS    int64              `json:"duration_ms"`
	FinishedAt    string             `json:"finished_at"`
}

// NewImportCompletedEvent flattens run into an event.
func NewImportCompletedEvent(run model.ImportRun) ImportCompletedEvent {
	return ImportCompletedEvent{
		RunID:         run.ID,
		RunType:       run.RunType,
		Status:        run.Status,
		PDFStatus:     run.SourceStatus.PDF,
		ChangesStatus: run.SourceStatus.Changes,
		Merged:        run.Counts.Merged,
		Added:         run.Counts.Added,
		Updated:       run.Counts.Updated,
		Failed:        run.Counts.Failed,
		ErrorCodes:    run.ErrorCodes(),
		TriggeredBy:   run.TriggeredBy,
		DurationMS:    run.DurationMS,
		FinishedAt:    run.FinishedAt.UTC().Format(time.RFC3339),
	}
}
