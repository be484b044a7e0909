// Package handler exposes the HTTP handlers for the public listing API and
// the operator endpoints.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pictures-london/internal/model"
	"github.com/iliyamo/pictures-london/internal/repository"
)

// CinemaLister lists the known cinemas.
type CinemaLister interface {
	ListAll(ctx context.Context) ([]model.Venue, error)
}

// ScreeningSearcher pages through upcoming screenings.
type ScreeningSearcher interface {
	SearchUpcoming(ctx context.Context, q repository.ScreeningQuery) ([]model.ScreeningRow, int64, error)
}

// PublicHandler serves unauthenticated browsing.
type PublicHandler struct {
	Cinemas    CinemaLister
	Screenings ScreeningSearcher
}

// GetPublicCinemas returns every cinema in an "items" array.
func (h *PublicHandler) GetPublicCinemas(c echo.Context) error {
	cinemas, err := h.Cinemas.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if cinemas == nil {
		cinemas = []model.Venue{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cinemas})
}

// SearchScreenings lists upcoming screenings.  Filters: title, cinema (id or
// name fragment), from (RFC 3339 or YYYY-MM-DD), page, page_size.
func (h *PublicHandler) SearchScreenings(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 { page = 1 }
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	if ps < 1 { ps = 20 }
	if ps > 100 { ps = 100 }

	q := repository.ScreeningQuery{
		Title:    strings.TrimSpace(c.QueryParam("title")),
		Cinema:   strings.TrimSpace(c.QueryParam("cinema")),
		Page:     page,
		PageSize: ps,
	}
	if raw := strings.TrimSpace(c.QueryParam("from")); raw != "" {
		from, err := parseFrom(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from; use RFC 3339 or YYYY-MM-DD"})
		}
		q.From = from
	}

	items, total, err := h.Screenings.SearchUpcoming(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "database_error",
			"message": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":      items,
		"total":     total,
		"page":      page,
		"page_size": ps,
	})
}

func parseFrom(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
