package store

import (
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/recipebox/internal/model"
)

func setupMealPlanTestDB(t *testing.T) (*MealPlanStore, *RecipeStore, *UserStore) {
	t.Helper()
	db := setupTestDB(t)
	return NewMealPlanStore(db), NewRecipeStore(db), NewUserStore(db)
}

func TestMealPlanCreate(t *testing.T) {
	ms, rs, us := setupMealPlanTestDB(t)
	alice := createTestUser(t, us, "alice")
	r := createTestRecipe(t, rs, alice.ID, "Soup", false)

	e, err := ms.Create(alice.ID, "2024-05-06", r.ID, model.MealLunch)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.Date != "2024-05-06" || e.MealType != model.MealLunch {
		t.Errorf("entry = %+v", e)
	}
	if e.RecipeID == nil || *e.RecipeID != r.ID {
		t.Errorf("recipe id = %v, want %d", e.RecipeID, r.ID)
	}
	if e.RecipeTitle != "Soup" {
		t.Errorf("recipe title = %q, want %q", e.RecipeTitle, "Soup")
	}

	dinner, err := ms.Create(alice.ID, "2024-05-06", r.ID, "")
	if err != nil {
		t.Fatalf("create default meal type: %v", err)
	}
	if dinner.MealType != model.MealDinner {
		t.Errorf("meal type = %q, want %q", dinner.MealType, model.MealDinner)
	}
}

func TestMealPlanCreateValidation(t *testing.T) {
	ms, rs, us := setupMealPlanTestDB(t)
	alice := createTestUser(t, us, "alice")
	r := createTestRecipe(t, rs, alice.ID, "Soup", false)

	tests := []struct {
		name     string
		date     string
		mealType string
	}{
		{"bad date", "05/06/2024", model.MealLunch},
		{"empty date", "", model.MealLunch},
		{"unknown meal type", "2024-05-06", "Brunch"},
		{"lowercase meal type", "2024-05-06", "lunch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ms.Create(alice.ID, tt.date, r.ID, tt.mealType)
			if !IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestMealPlanRecipeVisibility(t *testing.T) {
	ms, rs, us := setupMealPlanTestDB(t)
	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")
	private := createTestRecipe(t, rs, alice.ID, "Secret", false)
	public := createTestRecipe(t, rs, alice.ID, "Shared", true)

	_, err := ms.Create(bob.ID, "2024-05-06", private.ID, model.MealDinner)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "recipe_id" {
		t.Fatalf("err = %v, want recipe_id validation error", err)
	}

	e, err := ms.Create(bob.ID, "2024-05-06", public.ID, model.MealDinner)
	if err != nil {
		t.Fatalf("plan public recipe: %v", err)
	}

	// Making the recipe private later keeps the existing entry.
	if _, err := rs.Update(public.ID, &alice.ID, "Shared", model.LegacyIngredients("x"), "y", "", false); err != nil {
		t.Fatalf("make private: %v", err)
	}
	kept, _ := ms.Get(e.ID, bob.ID)
	if kept == nil || kept.RecipeID == nil || *kept.RecipeID != public.ID {
		t.Errorf("entry after recipe went private = %+v", kept)
	}
}

func TestMealPlanRecipeDeletedNullsReference(t *testing.T) {
	ms, rs, us := setupMealPlanTestDB(t)
	alice := createTestUser(t, us, "alice")
	r := createTestRecipe(t, rs, alice.ID, "Soup", false)

	e, _ := ms.Create(alice.ID, "2024-05-06", r.ID, model.MealDinner)
	if err := rs.Delete(r.ID, &alice.ID); err != nil {
		t.Fatalf("delete recipe: %v", err)
	}

	got, err := ms.Get(e.ID, alice.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("entry removed with its recipe")
	}
	if got.RecipeID != nil || got.RecipeTitle != "" {
		t.Errorf("entry = %+v, want null recipe", got)
	}
}

func TestMealPlanListRange(t *testing.T) {
	ms, rs, us := setupMealPlanTestDB(t)
	alice := createTestUser(t, us, "alice")
	r := createTestRecipe(t, rs, alice.ID, "Soup", false)

	ms.Create(alice.ID, "2024-05-05", r.ID, model.MealDinner)
	ms.Create(alice.ID, "2024-05-06", r.ID, model.MealDinner)
	ms.Create(alice.ID, "2024-05-06", r.ID, model.MealBreakfast)
	ms.Create(alice.ID, "2024-05-12", r.ID, model.MealSnack)
	ms.Create(alice.ID, "2024-05-13", r.ID, model.MealLunch)

	week, err := ms.ListRange(alice.ID, "2024-05-06", "2024-05-12")
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(week) != 3 {
		t.Fatalf("got %d entries, want 3", len(week))
	}
	if week[0].MealType != model.MealBreakfast || week[1].MealType != model.MealDinner {
		t.Errorf("same-day order = %s, %s; want Breakfast, Dinner", week[0].MealType, week[1].MealType)
	}
	if week[2].Date != "2024-05-12" {
		t.Errorf("last date = %s, want 2024-05-12", week[2].Date)
	}

	if _, err := ms.ListRange(alice.ID, "last week", "2024-05-12"); !IsValidation(err) {
		t.Errorf("bad range err = %v, want validation error", err)
	}
}

func TestMealPlanUpdateAndDelete(t *testing.T) {
	ms, rs, us := setupMealPlanTestDB(t)
	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")
	r := createTestRecipe(t, rs, alice.ID, "Soup", false)

	e, _ := ms.Create(alice.ID, "2024-05-06", r.ID, model.MealDinner)

	updated, err := ms.Update(e.ID, alice.ID, "2024-05-07", r.ID, model.MealSnack)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Date != "2024-05-07" || updated.MealType != model.MealSnack {
		t.Errorf("updated = %+v", updated)
	}
	if _, err := ms.Update(e.ID, alice.ID, "2024-05-07", r.ID, "Feast"); !IsValidation(err) {
		t.Errorf("bad meal type err = %v, want validation error", err)
	}

	if err := ms.Delete(e.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete by other user err = %v, want ErrNotFound", err)
	}
	if err := ms.Delete(e.ID, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2024-05-06", "2024-05-06"},
		{"2024-05-08", "2024-05-06"},
		{"2024-05-12", "2024-05-06"},
		{"2024-05-13", "2024-05-13"},
		{"2024-01-03", "2024-01-01"},
	}
	for _, tt := range tests {
		day, _ := time.Parse(DateLayout, tt.day)
		got := WeekStart(day.Add(15 * time.Hour)).Format(DateLayout)
		if got != tt.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tt.day, got, tt.want)
		}
	}
}
