package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iliyamo/pictures-london/internal/logger"
	"github.com/iliyamo/pictures-london/internal/model"
)

// ErrImportRunning is returned when a run is requested while another one is
// still in progress.
var ErrImportRunning = errors.New("an import is already running")

// Importer is the orchestrator the runner drives.
type Importer interface {
	RunFullImport(ctx context.Context, triggeredBy string) model.ImportRun
	RunChangesImport(ctx context.Context, triggeredBy string) model.ImportRun
}

// AfterRun is called with every finished run, e.g. to purge cached listings.
type AfterRun func(ctx context.Context, run model.ImportRun)

// ImportRunner serialises import runs across every trigger (HTTP, cron,
// CLI) in this process. A second request while a run is active fails fast
// with ErrImportRunning instead of queueing.
type ImportRunner struct {
	importer Importer
	after    []AfterRun
	logger   *slog.Logger
	mu       sync.Mutex
}

func NewImportRunner(imp Importer, log *slog.Logger, after ...AfterRun) *ImportRunner {
	return &ImportRunner{importer: imp, after: after, logger: logger.OrDefault(log)}
}

// Run executes one import of the given type.
func (r *ImportRunner) Run(ctx context.Context, kind model.RunType, triggeredBy string) (model.ImportRun, error) {
	if !r.mu.TryLock() {
		r.logger.Info("import skipped, another run is active", "run_type", kind, "triggered_by", triggeredBy)
		return model.ImportRun{}, ErrImportRunning
	}
	defer r.mu.Unlock()

	var run model.ImportRun
	switch kind {
	case model.RunFull:
		run = r.importer.RunFullImport(ctx, triggeredBy)
	case model.RunChangesOnly:
		run = r.importer.RunChangesImport(ctx, triggeredBy)
	default:
		return model.ImportRun{}, fmt.Errorf("unknown run type %q", kind)
	}
	for _, fn := range r.after {
		fn(ctx, run)
	}
	return run, nil
}

// ParseRunType maps the CLI/API spelling onto a RunType.
func ParseRunType(s string) (model.RunType, error) {
	switch s {
	case "full":
		return model.RunFull, nil
	case "changes", "changes-only":
		return model.RunChangesOnly, nil
	}
	return "", fmt.Errorf("unknown import mode %q (want full or changes)", s)
}
