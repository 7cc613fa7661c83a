package model

const (
	MealBreakfast = "Breakfast"
	MealLunch     = "Lunch"
	MealDinner    = "Dinner"
	MealSnack     = "Snack"
)

var MealTypes = []string{MealBreakfast, MealLunch, MealDinner, MealSnack}

// MealPlanEntry.RecipeID is nil once the referenced recipe has been deleted.
type MealPlanEntry struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Date        string `json:"date"`
	RecipeID    *int64 `json:"recipe_id"`
	MealType    string `json:"meal_type"`
	RecipeTitle string `json:"recipe_title,omitempty"`
}
