// Package alert posts import run alerts to a chat webhook.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iliyamo/pictures-london/internal/model"
)

const defaultTimeout = 8 * time.Second

// Payload is the message body. It carries structured fields only; error
// messages stay in the run record.
type Payload struct {
	Text         string               `json:"text"`
	RunID        string               `json:"run_id"`
	RunType      model.RunType        `json:"run_type"`
	Status       model.RunStatus      `json:"status"`
	SourceStatus model.SourceStatuses `json:"source_status"`
	Counts       model.RunCounts      `json:"counts"`
	ErrorCodes   []string             `json:"error_codes"`
	TriggeredBy  string               `json:"triggered_by"`
}

// Webhook sends alerts to a Slack-compatible incoming webhook.
type Webhook struct {
	URL    string
	Client *http.Client
}

// NewWebhook returns nil when url is empty; the importer treats a nil Alerter
// as "alerts disabled".
func NewWebhook(url string) *Webhook {
	if url == "" {
		return nil
	}
	return &Webhook{URL: url, Client: &http.Client{Timeout: defaultTimeout}}
}

// NewPayload summarises run for operators.
func NewPayload(run model.ImportRun) Payload {
	codes := run.ErrorCodes()
	text := fmt.Sprintf("BFI %s import %s: pdf=%s changes=%s merged=%d added=%d updated=%d failed=%d",
		run.RunType, strings.ToUpper(string(run.Status)),
		run.SourceStatus.PDF, run.SourceStatus.Changes,
		run.Counts.Merged, run.Counts.Added, run.Counts.Updated, run.Counts.Failed)
	if len(codes) > 0 {
		text += " errors=" + strings.Join(codes, ",")
	}
	return Payload{
		Text:         text,
		RunID:        run.ID,
		RunType:      run.RunType,
		Status:       run.Status,
		SourceStatus: run.SourceStatus,
		Counts:       run.Counts,
		ErrorCodes:   codes,
		TriggeredBy:  run.TriggeredBy,
	}
}

func (w *Webhook) Send(ctx context.Context, run model.ImportRun) error {
	body, err := json.Marshal(NewPayload(run))
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := w.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post alert: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("post alert: webhook returned %d", resp.StatusCode)
	}
	return nil
}
