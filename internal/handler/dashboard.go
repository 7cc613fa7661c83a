package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/pantry"
	"github.com/dukerupert/recipebox/internal/store"
)

type DashboardHandler struct {
	clock
	recipes  *store.RecipeStore
	pantry   *store.PantryStore
	shopping *store.ShoppingStore
	mealPlan *store.MealPlanStore
	logger   *slog.Logger
}

func NewDashboardHandler(rs *store.RecipeStore, ps *store.PantryStore, ss *store.ShoppingStore, ms *store.MealPlanStore, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		recipes:  rs,
		pantry:   ps,
		shopping: ss,
		mealPlan: ms,
		logger:   logger,
	}
}

type dashboardResponse struct {
	Date           string                  `json:"date"`
	RecipeOfTheDay *model.Recipe           `json:"recipe_of_the_day"`
	ExpiringSoon   []pantry.ItemWithStatus `json:"expiring_soon"`
	ShoppingCount  int                     `json:"shopping_count"`
	TodaysMeals    []model.MealPlanEntry   `json:"todays_meals"`
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	today := h.today()
	date := today.Format(store.DateLayout)

	featured, err := h.recipes.RandomPublic(today)
	if err != nil {
		writeStoreError(w, h.logger, "recipe of the day", err)
		return
	}

	items, err := h.pantry.ListByUser(userID)
	if err != nil {
		writeStoreError(w, h.logger, "list pantry", err)
		return
	}
	expiring := pantry.ExpiringSoon(pantry.ComputeAll(items, today, auth.Units(r.Context())))

	count, err := h.shopping.CountUnchecked(userID)
	if err != nil {
		writeStoreError(w, h.logger, "count shopping items", err)
		return
	}

	meals, err := h.mealPlan.ListRange(userID, date, date)
	if err != nil {
		writeStoreError(w, h.logger, "list todays meals", err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Date:           date,
		RecipeOfTheDay: featured,
		ExpiringSoon:   orEmpty(expiring),
		ShoppingCount:  count,
		TodaysMeals:    orEmpty(meals),
	})
}
