package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pictures-london/internal/health"
	"github.com/iliyamo/pictures-london/internal/middleware"
	"github.com/iliyamo/pictures-london/internal/model"
	"github.com/iliyamo/pictures-london/internal/repository"
	"github.com/iliyamo/pictures-london/internal/service"
)

// ImportRunner starts import runs; *service.ImportRunner satisfies it.
type ImportRunner interface {
	Run(ctx context.Context, kind model.RunType, triggeredBy string) (model.ImportRun, error)
}

// RunHistory reads the import run log.
type RunHistory interface {
	ListRecent(ctx context.Context, limit int) ([]model.ImportRun, error)
	Get(ctx context.Context, id string) (*model.ImportRun, error)
}

// HealthChecker produces per-cinema health reports.
type HealthChecker interface {
	Check(ctx context.Context) ([]health.Report, error)
}

// AdminHandler serves the operator endpoints under /v1/admin.
type AdminHandler struct {
	Runner  ImportRunner
	Runs    RunHistory
	Monitor HealthChecker
}

// TriggerFull runs a full import synchronously and returns the run record.
func (h *AdminHandler) TriggerFull(c echo.Context) error {
	return h.trigger(c, model.RunFull)
}

// TriggerChanges runs a changes-only import synchronously.
func (h *AdminHandler) TriggerChanges(c echo.Context) error {
	return h.trigger(c, model.RunChangesOnly)
}

func (h *AdminHandler) trigger(c echo.Context, kind model.RunType) error {
	// The run outlives a client that hangs up; its record is still written.
	ctx := context.WithoutCancel(c.Request().Context())
	run, err := h.Runner.Run(ctx, kind, "api:"+middleware.Subject(c))
	if errors.Is(err, service.ErrImportRunning) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "import_running", "message": err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, run)
}

// ListRuns returns the most recent runs, newest first.  ?limit defaults to
// 20 and is capped at 100.
func (h *AdminHandler) ListRuns(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 { limit = 20 }
	if limit > 100 { limit = 100 }

	runs, err := h.Runs.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error", "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": runs})
}

// GetRun returns one run by id.
func (h *AdminHandler) GetRun(c echo.Context) error {
	run, err := h.Runs.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "run not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error", "message": err.Error()})
	}
	return c.JSON(http.StatusOK, run)
}

// CinemaHealth returns a health report per cinema.
func (h *AdminHandler) CinemaHealth(c echo.Context) error {
	reports, err := h.Monitor.Check(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "health_check_failed", "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": reports})
}
