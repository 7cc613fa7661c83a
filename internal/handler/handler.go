// Package handler implements the JSON HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/recipebox/internal/account"
	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/store"
	"github.com/dukerupert/recipebox/internal/units"
	"github.com/dukerupert/recipebox/internal/websocket"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

const genericError = "operation failed, try again"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// decodeJSON reads a bounded JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// writeStoreError maps the store error taxonomy onto HTTP statuses. Anything
// unrecognised is logged and reported generically.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username already taken")
	case errors.Is(err, store.ErrAlreadySaved):
		writeError(w, http.StatusConflict, "recipe already saved")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, account.ErrNoMatch):
		writeError(w, http.StatusUnauthorized, "incorrect password")
	default:
		logger.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, genericError)
	}
}

// displayUnits returns the "units" query parameter, or the caller's
// preference when absent. ok is false (and a 400 written) for a bad value.
func displayUnits(w http.ResponseWriter, r *http.Request) (units.System, bool) {
	raw := r.URL.Query().Get("units")
	if raw == "" {
		return auth.Units(r.Context()), true
	}
	sys, err := units.ParseSystem(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return sys, true
}

// broadcaster is embedded by handlers that announce changes.
type broadcaster struct {
	hub *websocket.Hub
}

func (b broadcaster) broadcast(userID int64, entity, action string, id int64) {
	if b.hub != nil {
		b.hub.Broadcast(userID, websocket.NewMessage(entity, action, id))
	}
}

// clock is embedded by handlers whose results depend on today's date.
type clock struct {
	now func() time.Time
}

func (c clock) today() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
