package model

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	LandingDashboard    = "dashboard"
	LandingPantry       = "pantry"
	LandingShoppingList = "shopping_list"
	LandingMealPlan     = "meal_plan"

	DefaultTheme       = ThemeLight
	DefaultUnits       = "imperial"
	DefaultLandingPage = LandingDashboard
)

var Themes = []string{ThemeLight, ThemeDark}

var LandingPages = []string{LandingDashboard, LandingPantry, LandingShoppingList, LandingMealPlan}

type Settings struct {
	Theme       string `json:"theme"`
	Units       string `json:"units"`
	LandingPage string `json:"landing_page"`
}

// Stats counts everything a user owns.
type Stats struct {
	Recipes       int `json:"recipes"`
	SavedRecipes  int `json:"saved_recipes"`
	PantryItems   int `json:"pantry_items"`
	ShoppingItems int `json:"shopping_items"`
	PlannedMeals  int `json:"planned_meals"`
}
