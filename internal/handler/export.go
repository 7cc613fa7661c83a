package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/export"
)

type ExportHandler struct {
	clock
	source  export.Source
	baseURL string
	logger  *slog.Logger
}

// NewExportHandler builds the handler. baseURL, when set, is used to link
// public recipe cards back to the app.
func NewExportHandler(source export.Source, baseURL string, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{source: source, baseURL: baseURL, logger: logger}
}

// Archive downloads everything the caller owns as JSON.
func (h *ExportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	a, err := h.source.Build(userID, h.today())
	if err != nil {
		writeStoreError(w, h.logger, "build export", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, a); err != nil {
		h.logger.Error("encode export", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, genericError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, a.Filename()))
	w.Write(buf.Bytes())
}

// RecipeCard renders a viewable recipe as a one-page PDF with quantities
// in the requested (or preferred) unit system.
func (h *ExportHandler) RecipeCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	target, ok := displayUnits(w, r)
	if !ok {
		return
	}

	rec, err := h.source.Recipes.GetVisible(id, auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, "get recipe", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	lines, err := h.source.Recipes.Ingredients(id, target)
	if err != nil {
		writeStoreError(w, h.logger, "list ingredients", err)
		return
	}

	shareURL := ""
	if rec.IsPublic && h.baseURL != "" {
		shareURL = h.baseURL + "/recipes/" + strconv.FormatInt(rec.ID, 10)
	}

	var buf bytes.Buffer
	if err := export.RecipeCard(&buf, *rec, lines, shareURL); err != nil {
		h.logger.Error("render recipe card", "error", err, "recipe_id", id)
		writeError(w, http.StatusInternalServerError, genericError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="recipe-%d.pdf"`, rec.ID))
	w.Write(buf.Bytes())
}
