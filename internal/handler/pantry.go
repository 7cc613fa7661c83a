package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/pantry"
	"github.com/dukerupert/recipebox/internal/store"
	"github.com/dukerupert/recipebox/internal/websocket"
)

type PantryHandler struct {
	broadcaster
	clock
	pantry *store.PantryStore
	logger *slog.Logger
}

func NewPantryHandler(ps *store.PantryStore, hub *websocket.Hub, logger *slog.Logger) *PantryHandler {
	return &PantryHandler{
		broadcaster: broadcaster{hub: hub},
		pantry:      ps,
		logger:      logger,
	}
}

type pantryItemRequest struct {
	Name           string   `json:"name"`
	Quantity       float64  `json:"quantity"`
	Unit           string   `json:"unit"`
	ExpirationDate string   `json:"expiration_date"`
	LowThreshold   *float64 `json:"low_threshold"`
}

type pantryListResponse struct {
	Items   []pantry.ItemWithStatus `json:"items"`
	Summary pantry.Summary          `json:"summary"`
}

// List returns the caller's pantry with computed status. Query parameters
// search, filter, sort and units narrow and shape the view; the summary
// always counts the whole pantry.
func (h *PantryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := pantry.ParseFilter(q.Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sortKey, err := pantry.ParseSort(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	display, ok := displayUnits(w, r)
	if !ok {
		return
	}

	items, err := h.pantry.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, "list pantry", err)
		return
	}
	all := pantry.ComputeAll(items, h.today(), display)
	for _, it := range all {
		if !it.ExpiryValid {
			h.logger.Warn("invalid expiration date", "pantry_id", it.ID, "date", it.ExpirationDate)
		}
	}
	view := pantry.Query{Search: q.Get("search"), Filter: filter, Sort: sortKey}.Apply(all)

	writeJSON(w, http.StatusOK, pantryListResponse{Items: view, Summary: pantry.Summarize(all)})
}

func (h *PantryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	display, ok := displayUnits(w, r)
	if !ok {
		return
	}

	item, err := h.pantry.Get(id, auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, "get pantry item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, pantry.ComputeStatus(*item, h.today(), display))
}

func (h *PantryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req pantryItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := auth.UserID(r.Context())

	item, err := h.pantry.Create(userID, req.Name, req.Quantity, req.Unit, req.ExpirationDate, req.LowThreshold)
	if err != nil {
		writeStoreError(w, h.logger, "create pantry item", err)
		return
	}
	h.broadcast(userID, websocket.EntityPantry, websocket.ActionCreated, item.ID)
	writeJSON(w, http.StatusCreated, pantry.ComputeStatus(*item, h.today(), auth.Units(r.Context())))
}

func (h *PantryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req pantryItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := auth.UserID(r.Context())

	item, err := h.pantry.Update(id, userID, req.Name, req.Quantity, req.Unit, req.ExpirationDate, req.LowThreshold)
	if err != nil {
		writeStoreError(w, h.logger, "update pantry item", err)
		return
	}
	h.broadcast(userID, websocket.EntityPantry, websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, pantry.ComputeStatus(*item, h.today(), auth.Units(r.Context())))
}

func (h *PantryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	userID := auth.UserID(r.Context())
	if err := h.pantry.Delete(id, userID); err != nil {
		writeStoreError(w, h.logger, "delete pantry item", err)
		return
	}
	h.broadcast(userID, websocket.EntityPantry, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}
