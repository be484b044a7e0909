package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pictures-london/internal/title"
)

// TitleAI is the optional AI-assisted extractor.
type TitleAI interface {
	Extract(ctx context.Context, raw string) title.AIResult
}

// TitleHandler exposes the title engine for operators checking how a listing
// will be cleaned.
type TitleHandler struct {
	AI TitleAI // nil when no model is configured
}

type extractRequest struct {
	Title string `json:"title"`
	UseAI bool   `json:"use_ai"`
}

type extractResponse struct {
	Extraction  title.Extraction `json:"extraction"`
	Variations  []string         `json:"variations"`
	LikelyClean bool             `json:"likely_clean"`
	AI          *title.AIResult  `json:"ai,omitempty"`
}

// Extract runs the pattern extractor over the posted title and, when asked
// and available, the AI extractor too.
func (h *TitleHandler) Extract(c echo.Context) error {
	var req extractRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	resp := extractResponse{
		Extraction:  title.Extract(req.Title),
		Variations:  title.SearchVariations(req.Title),
		LikelyClean: title.IsLikelyCleanTitle(req.Title),
	}
	if req.UseAI && h.AI != nil {
		ai := h.AI.Extract(c.Request().Context(), req.Title)
		resp.AI = &ai
	}
	return c.JSON(http.StatusOK, resp)
}
