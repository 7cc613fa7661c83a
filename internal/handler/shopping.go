package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/shopping"
	"github.com/dukerupert/recipebox/internal/store"
	"github.com/dukerupert/recipebox/internal/websocket"
)

type ShoppingHandler struct {
	broadcaster
	clock
	shopping *store.ShoppingStore
	logger   *slog.Logger
}

func NewShoppingHandler(ss *store.ShoppingStore, hub *websocket.Hub, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{
		broadcaster: broadcaster{hub: hub},
		shopping:    ss,
		logger:      logger,
	}
}

type shoppingItemRequest struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
	Checked  bool     `json:"checked"`
}

type shoppingListResponse struct {
	Sections  []shopping.Section   `json:"sections"`
	Checked   []model.ShoppingItem `json:"checked"`
	Remaining int                  `json:"remaining"`
}

// List groups unchecked items by aisle and converts quantities to the
// requested (or preferred) unit system.
func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	target, ok := displayUnits(w, r)
	if !ok {
		return
	}

	items, err := h.shopping.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, "list shopping items", err)
		return
	}
	for i := range items {
		items[i] = shopping.Display(items[i], target)
	}

	sections, checked := shopping.Group(items)
	remaining := 0
	for _, s := range sections {
		remaining += len(s.Items)
	}
	writeJSON(w, http.StatusOK, shoppingListResponse{
		Sections:  orEmpty(sections),
		Checked:   orEmpty(checked),
		Remaining: remaining,
	})
}

func (h *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shoppingItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := auth.UserID(r.Context())

	item, err := h.shopping.Create(userID, req.Name, req.Quantity, req.Unit, req.Checked)
	if err != nil {
		writeStoreError(w, h.logger, "create shopping item", err)
		return
	}
	h.broadcast(userID, websocket.EntityShopping, websocket.ActionCreated, item.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (h *ShoppingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req shoppingItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := auth.UserID(r.Context())

	item, err := h.shopping.Update(id, userID, req.Name, req.Quantity, req.Unit, req.Checked)
	if err != nil {
		writeStoreError(w, h.logger, "update shopping item", err)
		return
	}
	h.broadcast(userID, websocket.EntityShopping, websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) ToggleChecked(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	userID := auth.UserID(r.Context())

	item, err := h.shopping.ToggleChecked(id, userID)
	if err != nil {
		writeStoreError(w, h.logger, "toggle shopping item", err)
		return
	}
	h.broadcast(userID, websocket.EntityShopping, websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	userID := auth.UserID(r.Context())
	if err := h.shopping.Delete(id, userID); err != nil {
		writeStoreError(w, h.logger, "delete shopping item", err)
		return
	}
	h.broadcast(userID, websocket.EntityShopping, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoppingHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	count, err := h.shopping.ClearChecked(userID)
	if err != nil {
		writeStoreError(w, h.logger, "clear checked", err)
		return
	}
	if count > 0 {
		h.broadcast(userID, websocket.EntityShopping, websocket.ActionCleared, 0)
	}
	writeJSON(w, http.StatusOK, map[string]int64{"cleared": count})
}

// Promote moves checked items into the pantry.
func (h *ShoppingHandler) Promote(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	count, err := h.shopping.PromoteChecked(userID, h.today())
	if err != nil {
		writeStoreError(w, h.logger, "promote checked", err)
		return
	}
	if count > 0 {
		h.broadcast(userID, websocket.EntityShopping, websocket.ActionMoved, 0)
		h.broadcast(userID, websocket.EntityPantry, websocket.ActionCreated, 0)
	}
	writeJSON(w, http.StatusOK, map[string]int{"promoted": count})
}
