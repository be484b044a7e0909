package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pictures-london/internal/handler"
	"github.com/iliyamo/pictures-london/internal/model"
	"github.com/iliyamo/pictures-london/internal/utils"
)

const secret = "test-secret"

type stubRunner struct{ calls int }

func (s *stubRunner) Run(_ context.Context, kind model.RunType, by string) (model.ImportRun, error) {
	s.calls++
	return model.ImportRun{ID: "r1", RunType: kind, TriggeredBy: by, Status: model.RunSuccess}, nil
}

func newServer(r *stubRunner) *echo.Echo {
	e := echo.New()
	RegisterRoutes(e, nil)
	RegisterAdmin(e, &handler.AdminHandler{Runner: r}, &handler.TitleHandler{}, secret)
	return e
}

func do(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(newServer(&stubRunner{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAdminRoutes_Auth(t *testing.T) {
	r := &stubRunner{}
	e := newServer(r)

	rec := do(e, http.MethodPost, "/v1/admin/imports/full", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	viewer, err := utils.NewAccessToken(secret, "someone", "VIEWER", time.Hour)
	require.NoError(t, err)
	rec = do(e, http.MethodPost, "/v1/admin/imports/full", viewer.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, err := utils.NewAccessToken(secret, "ops", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)
	rec = do(e, http.MethodPost, "/v1/admin/imports/full", admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"triggered_by":"api:ops"`)
	assert.Equal(t, 1, r.calls)
}
