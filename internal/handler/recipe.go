package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/imagestore"
	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/store"
	"github.com/dukerupert/recipebox/internal/units"
	"github.com/dukerupert/recipebox/internal/websocket"
)

// maxImageBytes caps a recipe photo upload.
const maxImageBytes = 10 << 20

type RecipeHandler struct {
	broadcaster
	clock
	recipes *store.RecipeStore
	images  imagestore.Store
	logger  *slog.Logger
}

func NewRecipeHandler(recipes *store.RecipeStore, images imagestore.Store, hub *websocket.Hub, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		broadcaster: broadcaster{hub: hub},
		recipes:     recipes,
		images:      images,
		logger:      logger,
	}
}

type recipeRequest struct {
	Title        string            `json:"title"`
	Ingredients  model.Ingredients `json:"ingredients"`
	Instructions string            `json:"instructions"`
	IsPublic     bool              `json:"is_public"`
}

// recipeDetail is a recipe as shown to one viewer.
type recipeDetail struct {
	model.Recipe
	Parsed          model.Ingredients        `json:"parsed_ingredients"`
	IngredientLines []model.RecipeIngredient `json:"ingredient_lines"`
	Steps           []string                 `json:"steps"`
	Units           units.System             `json:"units"`
	IsOwner         bool                     `json:"is_owner"`
	IsSaved         bool                     `json:"is_saved"`
}

func (h *RecipeHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.ListByOwner(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, "list recipes", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(recipes))
}

func (h *RecipeHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.ListPublic()
	if err != nil {
		writeStoreError(w, h.logger, "list public recipes", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(recipes))
}

func (h *RecipeHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.ListSaved(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, "list saved recipes", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(recipes))
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := auth.UserID(r.Context())

	rec, err := h.recipes.Create(userID, req.Title, req.Ingredients, req.Instructions, "", req.IsPublic)
	if err != nil {
		writeStoreError(w, h.logger, "create recipe", err)
		return
	}
	h.broadcast(userID, websocket.EntityRecipe, websocket.ActionCreated, rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

// Get returns a recipe the caller may view, with ingredients converted to
// the requested (or preferred) unit system.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	target, ok := displayUnits(w, r)
	if !ok {
		return
	}
	userID := auth.UserID(r.Context())

	rec, err := h.recipes.GetVisible(id, userID)
	if err != nil {
		writeStoreError(w, h.logger, "get recipe", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	lines, err := h.recipes.Ingredients(id, target)
	if err != nil {
		writeStoreError(w, h.logger, "list ingredients", err)
		return
	}
	saved, err := h.recipes.IsSaved(userID, id)
	if err != nil {
		writeStoreError(w, h.logger, "check saved", err)
		return
	}

	writeJSON(w, http.StatusOK, recipeDetail{
		Recipe:          *rec,
		Parsed:          model.ParseIngredients(rec.Ingredients),
		IngredientLines: orEmpty(lines),
		Steps:           orEmpty(rec.Steps()),
		Units:           target,
		IsOwner:         rec.UserID == userID,
		IsSaved:         saved,
	})
}

// Ingredients lists a viewable recipe's structured lines for display.
func (h *RecipeHandler) Ingredients(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	target, ok := displayUnits(w, r)
	if !ok {
		return
	}

	visible, err := h.recipes.CanView(auth.UserID(r.Context()), id)
	if err != nil {
		writeStoreError(w, h.logger, "check recipe access", err)
		return
	}
	if !visible {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	lines, err := h.recipes.Ingredients(id, target)
	if err != nil {
		writeStoreError(w, h.logger, "list ingredients", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(lines))
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req recipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := auth.UserID(r.Context())

	existing, err := h.recipes.GetByID(id)
	if err != nil {
		writeStoreError(w, h.logger, "get recipe", err)
		return
	}
	if existing == nil || existing.UserID != userID {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	rec, err := h.recipes.Update(id, &userID, req.Title, req.Ingredients, req.Instructions, existing.ImagePath, req.IsPublic)
	if err != nil {
		writeStoreError(w, h.logger, "update recipe", err)
		return
	}
	h.broadcast(userID, websocket.EntityRecipe, websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, rec)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	userID := auth.UserID(r.Context())

	existing, err := h.recipes.GetByID(id)
	if err != nil {
		writeStoreError(w, h.logger, "get recipe", err)
		return
	}
	if existing == nil || existing.UserID != userID {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	if err := h.recipes.Delete(id, &userID); err != nil {
		writeStoreError(w, h.logger, "delete recipe", err)
		return
	}
	h.deleteImage(r, existing.ImagePath)

	h.broadcast(userID, websocket.EntityRecipe, websocket.ActionDeleted, id)
	h.broadcast(userID, websocket.EntityMealPlan, websocket.ActionUpdated, 0)
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecipeHandler) deleteImage(r *http.Request, key string) {
	if key == "" || h.images == nil {
		return
	}
	if err := h.images.Delete(r.Context(), key); err != nil {
		h.logger.Warn("delete image", "error", err, "key", key)
	}
}

func (h *RecipeHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	userID := auth.UserID(r.Context())
	if err := h.recipes.Save(userID, id); err != nil {
		writeStoreError(w, h.logger, "save recipe", err)
		return
	}
	h.broadcast(userID, websocket.EntityRecipe, websocket.ActionUpdated, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecipeHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	userID := auth.UserID(r.Context())
	if err := h.recipes.Unsave(userID, id); err != nil {
		writeStoreError(w, h.logger, "unsave recipe", err)
		return
	}
	h.broadcast(userID, websocket.EntityRecipe, websocket.ActionUpdated, id)
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage stores a multipart "image" field as the recipe's photo,
// replacing (and removing) any previous one.
func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	userID := auth.UserID(r.Context())

	existing, err := h.recipes.GetByID(id)
	if err != nil {
		writeStoreError(w, h.logger, "get recipe", err)
		return
	}
	if existing == nil || existing.UserID != userID {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	key, err := imagestore.Upload(r.Context(), h.images, userID, file, h.today())
	if err != nil {
		h.logger.Warn("upload image", "error", err, "recipe_id", id)
		writeError(w, http.StatusBadRequest, "could not read image")
		return
	}

	previous, err := h.recipes.SetImage(id, userID, key)
	if err != nil {
		h.deleteImage(r, key)
		writeStoreError(w, h.logger, "set recipe image", err)
		return
	}
	h.deleteImage(r, previous)

	h.broadcast(userID, websocket.EntityRecipe, websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, map[string]string{"image_path": key})
}

// Image streams the photo of a recipe the caller may view.
func (h *RecipeHandler) Image(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	rec, err := h.recipes.GetVisible(id, auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, "get recipe", err)
		return
	}
	if rec == nil || rec.ImagePath == "" || h.images == nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	rc, err := h.images.Open(r.Context(), rec.ImagePath)
	switch {
	case errors.Is(err, imagestore.ErrNotFound), errors.Is(err, imagestore.ErrInvalidKey):
		writeError(w, http.StatusNotFound, "image not found")
		return
	case err != nil:
		h.logger.Error("open image", "error", err, "key", rec.ImagePath)
		writeError(w, http.StatusInternalServerError, genericError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	io.Copy(w, rc)
}
