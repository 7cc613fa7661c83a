package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/recipebox/internal/account"
	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/imagestore"
	"github.com/dukerupert/recipebox/internal/middleware"
	"github.com/dukerupert/recipebox/internal/store"
	"github.com/dukerupert/recipebox/internal/websocket"
)

// AccountHandler serves settings, statistics and the account lifecycle.
type AccountHandler struct {
	broadcaster
	accounts *account.Service
	users    *store.UserStore
	recipes  *store.RecipeStore
	images   imagestore.Store
	logger   *slog.Logger
}

func NewAccountHandler(accounts *account.Service, users *store.UserStore, recipes *store.RecipeStore, images imagestore.Store, hub *websocket.Hub, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		broadcaster: broadcaster{hub: hub},
		accounts:    accounts,
		users:       users,
		recipes:     recipes,
		images:      images,
		logger:      logger,
	}
}

func (h *AccountHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.users.GetSettings(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, "get settings", err)
		return
	}
	if settings == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type settingsRequest struct {
	Theme       string `json:"theme"`
	LandingPage string `json:"landing_page"`
	Units       string `json:"units"`
}

// UpdateSettings stores theme and landing page, and the unit system when
// one is given.
func (h *AccountHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := auth.UserID(r.Context())

	if err := h.users.UpdateSettings(userID, req.Theme, req.LandingPage, req.Units); err != nil {
		writeStoreError(w, h.logger, "update settings", err)
		return
	}
	h.broadcast(userID, websocket.EntitySettings, websocket.ActionUpdated, 0)
	h.GetSettings(w, r)
}

func (h *AccountHandler) UpdateUnits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Units string `json:"units"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := auth.UserID(r.Context())
	if err := h.users.UpdateUnits(userID, req.Units); err != nil {
		writeStoreError(w, h.logger, "update units", err)
		return
	}
	h.broadcast(userID, websocket.EntitySettings, websocket.ActionUpdated, 0)
	h.GetSettings(w, r)
}

func (h *AccountHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.Stats(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, "user stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type changeUsernameRequest struct {
	CurrentPassword string `json:"current_password"`
	NewUsername     string `json:"new_username"`
}

func (h *AccountHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	var req changeUsernameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, err := h.accounts.ChangeUsername(auth.UserID(r.Context()), req.CurrentPassword, req.NewUsername)
	if err != nil {
		writeStoreError(w, h.logger, "change username", err)
		return
	}
	h.broadcast(userID, websocket.EntitySettings, websocket.ActionUpdated, 0)
	u, err := h.users.GetByID(userID)
	if err != nil {
		writeStoreError(w, h.logger, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := h.accounts.ChangePassword(auth.UserID(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
		writeStoreError(w, h.logger, "change password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedImages lists the image keys of the user's recipes so they can be
// removed after the rows are gone.
func (h *AccountHandler) ownedImages(userID int64) []string {
	recipes, err := h.recipes.ListByOwner(userID)
	if err != nil {
		h.logger.Warn("list recipes for image cleanup", "error", err, "user_id", userID)
		return nil
	}
	var keys []string
	for _, rec := range recipes {
		if rec.ImagePath != "" {
			keys = append(keys, rec.ImagePath)
		}
	}
	return keys
}

func (h *AccountHandler) deleteImages(ctx context.Context, keys []string) {
	if h.images == nil {
		return
	}
	for _, key := range keys {
		if err := h.images.Delete(ctx, key); err != nil {
			h.logger.Warn("delete image", "error", err, "key", key)
		}
	}
}

// ResetData wipes everything the user owns but keeps the account.
func (h *AccountHandler) ResetData(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	images := h.ownedImages(userID)

	if err := h.users.ResetData(userID); err != nil {
		writeStoreError(w, h.logger, "reset data", err)
		return
	}
	h.deleteImages(r.Context(), images)
	h.logger.Info("user data reset", "user_id", userID)

	for _, entity := range []string{websocket.EntityRecipe, websocket.EntityPantry, websocket.EntityShopping, websocket.EntityMealPlan} {
		h.broadcast(userID, entity, websocket.ActionCleared, 0)
	}
	h.broadcast(userID, websocket.EntitySettings, websocket.ActionUpdated, 0)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := auth.UserID(r.Context())
	images := h.ownedImages(userID)

	if err := h.accounts.DeleteAccount(userID, req.Password); err != nil {
		writeStoreError(w, h.logger, "delete account", err)
		return
	}
	h.deleteImages(r.Context(), images)
	if h.hub != nil {
		h.hub.Disconnect(userID)
	}

	http.SetCookie(w, &http.Cookie{Name: middleware.SessionCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}
