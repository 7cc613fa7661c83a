package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/store"
)

// RecipeExport is a recipe with its parsed ingredients.
type RecipeExport struct {
	model.Recipe
	Parsed model.Ingredients `json:"parsed_ingredients"`
}

// Archive is everything one user owns.
type Archive struct {
	ExportedAt   time.Time             `json:"exported_at"`
	User         model.User            `json:"user"`
	Recipes      []RecipeExport        `json:"recipes"`
	SavedRecipes []model.Recipe        `json:"saved_recipes"`
	Pantry       []model.PantryItem    `json:"pantry"`
	ShoppingList []model.ShoppingItem  `json:"shopping_list"`
	MealPlan     []model.MealPlanEntry `json:"meal_plan"`
}

// Source reads the stores an archive is built from.
type Source struct {
	Users    *store.UserStore
	Recipes  *store.RecipeStore
	Pantry   *store.PantryStore
	Shopping *store.ShoppingStore
	MealPlan *store.MealPlanStore
}

// Build collects userID's data. It returns store.ErrNotFound for an unknown user.
func (s Source) Build(userID int64, now time.Time) (*Archive, error) {
	u, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, store.ErrNotFound
	}
	a := &Archive{ExportedAt: now.UTC(), User: *u}

	recipes, err := s.Recipes.ListByOwner(userID)
	if err != nil {
		return nil, err
	}
	for _, r := range recipes {
		a.Recipes = append(a.Recipes, RecipeExport{Recipe: r, Parsed: model.ParseIngredients(r.Ingredients)})
	}
	if a.SavedRecipes, err = s.Recipes.ListSaved(userID); err != nil {
		return nil, err
	}
	if a.Pantry, err = s.Pantry.ListByUser(userID); err != nil {
		return nil, err
	}
	if a.ShoppingList, err = s.Shopping.ListByUser(userID); err != nil {
		return nil, err
	}
	if a.MealPlan, err = s.MealPlan.ListByUser(userID); err != nil {
		return nil, err
	}
	return a, nil
}

// Filename suggests a download name for the archive.
func (a *Archive) Filename() string {
	return fmt.Sprintf("recipebox-%s-%s.json", a.User.Username, a.ExportedAt.Format("20060102"))
}

func WriteJSON(w io.Writer, a *Archive) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}
