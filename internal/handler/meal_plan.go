package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/store"
	"github.com/dukerupert/recipebox/internal/websocket"
)

type MealPlanHandler struct {
	broadcaster
	clock
	mealPlan *store.MealPlanStore
	logger   *slog.Logger
}

func NewMealPlanHandler(ms *store.MealPlanStore, hub *websocket.Hub, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{
		broadcaster: broadcaster{hub: hub},
		mealPlan:    ms,
		logger:      logger,
	}
}

type mealPlanRequest struct {
	Date     string `json:"date"`
	RecipeID int64  `json:"recipe_id"`
	MealType string `json:"meal_type"`
}

type mealPlanListResponse struct {
	From    string                `json:"from,omitempty"`
	To      string                `json:"to,omitempty"`
	Entries []model.MealPlanEntry `json:"entries"`
}

// List returns planned meals. "from" and "to" select an inclusive range;
// "week" selects the Monday-to-Sunday week containing that date; with
// neither the whole plan comes back.
func (h *MealPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")

	if week := q.Get("week"); week != "" {
		day, err := time.Parse(store.DateLayout, week)
		if err != nil {
			writeError(w, http.StatusBadRequest, "week must be a YYYY-MM-DD date")
			return
		}
		start := store.WeekStart(day)
		from, to = start.Format(store.DateLayout), start.AddDate(0, 0, 6).Format(store.DateLayout)
	}

	userID := auth.UserID(r.Context())
	var (
		entries []model.MealPlanEntry
		err     error
	)
	switch {
	case from == "" && to == "":
		entries, err = h.mealPlan.ListByUser(userID)
	case from == "" || to == "":
		writeError(w, http.StatusBadRequest, "from and to must be given together")
		return
	default:
		entries, err = h.mealPlan.ListRange(userID, from, to)
	}
	if err != nil {
		writeStoreError(w, h.logger, "list meal plan", err)
		return
	}
	writeJSON(w, http.StatusOK, mealPlanListResponse{From: from, To: to, Entries: orEmpty(entries)})
}

func (h *MealPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mealPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := auth.UserID(r.Context())

	entry, err := h.mealPlan.Create(userID, req.Date, req.RecipeID, req.MealType)
	if err != nil {
		writeStoreError(w, h.logger, "create meal plan entry", err)
		return
	}
	h.broadcast(userID, websocket.EntityMealPlan, websocket.ActionCreated, entry.ID)
	writeJSON(w, http.StatusCreated, entry)
}

func (h *MealPlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req mealPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := auth.UserID(r.Context())

	entry, err := h.mealPlan.Update(id, userID, req.Date, req.RecipeID, req.MealType)
	if err != nil {
		writeStoreError(w, h.logger, "update meal plan entry", err)
		return
	}
	h.broadcast(userID, websocket.EntityMealPlan, websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, entry)
}

func (h *MealPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	userID := auth.UserID(r.Context())
	if err := h.mealPlan.Delete(id, userID); err != nil {
		writeStoreError(w, h.logger, "delete meal plan entry", err)
		return
	}
	h.broadcast(userID, websocket.EntityMealPlan, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}
