package model

import "time"

// RunType distinguishes the two importer entry points.
type RunType string

const (
	RunFull        RunType = "full"
	RunChangesOnly RunType = "changes-only"
)

// RunStatus is the graded outcome of one import run.
type RunStatus string

const (
	RunSuccess  RunStatus = "success"
	RunDegraded RunStatus = "degraded"
	RunFailed   RunStatus = "failed"
)

// SourceStatus is the per-source outcome of a fetch+parse step.
type SourceStatus string

const (
	SourceSuccess SourceStatus = "success"
	SourceEmpty   SourceStatus = "empty"
	SourceFailed  SourceStatus = "failed"
	SourceSkipped SourceStatus = "skipped" // source not part of this run type
)

// Error codes recorded on a run. Per-partition save failures use
// SaveFailedCode.
const (
	ErrVenueInitFailed        = "VENUE_INIT_FAILED"
	ErrPDFFetchParseFailed    = "PDF_FETCH_PARSE_FAILED"
	ErrPDFNotFound            = "PDF_NOT_FOUND"
	ErrChangesFetchParseFail  = "CHANGES_FETCH_PARSE_FAILED"
	ErrChangesFailed          = "CHANGES_FAILED"
	ErrNoScreeningsParsed     = "NO_SCREENINGS_PARSED"
	errSaveFailedPrefix       = "SAVE_"
	errSaveFailedSuffix       = "_FAILED"
)

// SaveFailedCode builds SAVE_<PARTITION>_FAILED for a venue partition label
// such as "SOUTHBANK" or "IMAX".
func SaveFailedCode(partition string) string {
	return errSaveFailedPrefix + partition + errSaveFailedSuffix
}

// RunError is one structured error accumulated during a run. Alerts carry
// the code; the message is for humans reading the run history.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SourceStatuses holds the status of each of the two sources.
type SourceStatuses struct {
	PDF     SourceStatus `json:"pdf"`
	Changes SourceStatus `json:"changes"`
}

// RunCounts are the numeric totals of a run.
type RunCounts struct {
	PDFParsed     int `json:"pdf_parsed"`
	ChangesParsed int `json:"changes_parsed"`
	Merged        int `json:"merged"`
	Added         int `json:"added"`
	Updated       int `json:"updated"`
	Failed        int `json:"failed"`
}

// ImportRun is the persisted record of one orchestrator execution. It is
// created once at the end of a run and never updated.
type ImportRun struct {
	ID           string         `json:"id"`
	RunType      RunType        `json:"run_type"`
	Status       RunStatus      `json:"status"`
	SourceStatus SourceStatuses `json:"source_status"`
	Counts       RunCounts      `json:"counts"`
	Errors       []RunError     `json:"errors"`
	TriggeredBy  string         `json:"triggered_by"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	DurationMS   int64          `json:"duration_ms"`
}

// ErrorCodes returns the codes of r.Errors in order.
func (r ImportRun) ErrorCodes() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Code)
	}
	return out
}

// Success reports whether the run produced a usable result (success or
// degraded).
func (r ImportRun) Success() bool {
	return r.Status != RunFailed
}
