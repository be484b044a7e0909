// Package scheduler triggers the periodic full and changes-only imports.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iliyamo/pictures-london/internal/logger"
	"github.com/iliyamo/pictures-london/internal/model"
)

// TriggeredBy is recorded on every run started by the scheduler.
const TriggeredBy = "scheduler"

// DefaultJobTimeout bounds one scheduled run.
const DefaultJobTimeout = 15 * time.Minute

// Runner starts an import run.
type Runner interface {
	Run(ctx context.Context, kind model.RunType, triggeredBy string) (model.ImportRun, error)
}

// Scheduler owns the cron instance. Specs use the six-field format with
// seconds. Overlapping firings of the same job are skipped.
type Scheduler struct {
	cron       *cron.Cron
	runner     Runner
	logger     *slog.Logger
	JobTimeout time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
}

// New registers the full and changes-only jobs. An empty spec disables
// that job.
func New(runner Runner, fullSpec, changesSpec string, log *slog.Logger) (*Scheduler, error) {
	log = logger.OrDefault(log).With("component", "scheduler")
	cl := cronLogger{log}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:       cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		runner:     runner,
		logger:     log,
		JobTimeout: DefaultJobTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
	jobs := []struct {
		spec string
		kind model.RunType
	}{
		{fullSpec, model.RunFull},
		{changesSpec, model.RunChangesOnly},
	}
	for _, j := range jobs {
		if j.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(j.spec, s.job(j.kind)); err != nil {
			cancel()
			return nil, fmt.Errorf("schedule %s import %q: %w", j.kind, j.spec, err)
		}
		log.Info("import scheduled", "run_type", j.kind, "spec", j.spec)
	}
	return s, nil
}

// job returns the cron callback for kind.
func (s *Scheduler) job(kind model.RunType) func() {
	return func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.JobTimeout)
		defer cancel()

		run, err := s.runner.Run(ctx, kind, TriggeredBy)
		switch {
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			s.logger.Warn("scheduled import not started", "run_type", kind, "error", err)
		default:
			s.logger.Info("scheduled import finished", "run_type", kind, "run_id", run.ID, "status", run.Status)
		}
	}
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels in-flight runs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
