package store

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/dukerupert/recipebox/internal/database"
	"github.com/dukerupert/recipebox/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, us *UserStore, username string) *model.User {
	t.Helper()
	u, err := us.Create(username, "hash:"+username)
	if err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return u
}

func TestUserCreate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.Create("alice", "digest")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if u.Username != "alice" {
		t.Errorf("username = %q, want %q", u.Username, "alice")
	}
	if u.Theme != model.DefaultTheme {
		t.Errorf("theme = %q, want %q", u.Theme, model.DefaultTheme)
	}
	if u.Units != model.DefaultUnits {
		t.Errorf("units = %q, want %q", u.Units, model.DefaultUnits)
	}
	if u.LandingPage != model.DefaultLandingPage {
		t.Errorf("landing page = %q, want %q", u.LandingPage, model.DefaultLandingPage)
	}
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	createTestUser(t, us, "alice")

	_, err := us.Create("alice", "other")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
	if !errors.Is(err, ErrConflict) {
		t.Error("ErrUsernameTaken should wrap ErrConflict")
	}
}

func TestUserCreateUsernameIsCaseSensitive(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	createTestUser(t, us, "alice")

	if _, err := us.Create("Alice", "digest"); err != nil {
		t.Fatalf("create Alice: %v", err)
	}
}

func TestUserCreateInvalidUsername(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	tests := []struct {
		name     string
		username string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"too short", "ab"},
		{"too long", strings.Repeat("x", 51)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := us.Create(tt.username, "digest")
			if !IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestUserGetByUsername(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	created := createTestUser(t, us, "alice")

	u, err := us.GetByUsername("alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatalf("got %+v, want id %d", u, created.ID)
	}

	missing, err := us.GetByUsername("bob")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown user, got %+v", missing)
	}
}

func TestUserCredentials(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	created := createTestUser(t, us, "alice")

	id, hash, err := us.Credentials("alice")
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	if id != created.ID || hash != "hash:alice" {
		t.Errorf("credentials = (%d, %q), want (%d, %q)", id, hash, created.ID, "hash:alice")
	}

	if _, _, err := us.Credentials("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUserUpdateUsername(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	alice := createTestUser(t, us, "alice")
	createTestUser(t, us, "bob")

	if err := us.UpdateUsername(alice.ID, "bob"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
	if err := us.UpdateUsername(alice.ID, "alicia"); err != nil {
		t.Fatalf("update username: %v", err)
	}
	u, _ := us.GetByID(alice.ID)
	if u.Username != "alicia" {
		t.Errorf("username = %q, want %q", u.Username, "alicia")
	}
}

func TestUserSettings(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	u := createTestUser(t, us, "alice")

	if err := us.UpdateSettings(u.ID, model.ThemeDark, model.LandingPantry, ""); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if err := us.UpdateUnits(u.ID, "metric"); err != nil {
		t.Fatalf("update units: %v", err)
	}

	s, err := us.GetSettings(u.ID)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	want := model.Settings{Theme: model.ThemeDark, Units: "metric", LandingPage: model.LandingPantry}
	if *s != want {
		t.Errorf("settings = %+v, want %+v", *s, want)
	}

	if err := us.UpdateSettings(u.ID, "neon", model.LandingPantry, ""); !IsValidation(err) {
		t.Errorf("bad theme err = %v, want validation error", err)
	}
	if err := us.UpdateSettings(u.ID, model.ThemeLight, "attic", ""); !IsValidation(err) {
		t.Errorf("bad landing page err = %v, want validation error", err)
	}
	if err := us.UpdateUnits(u.ID, "cubits"); !IsValidation(err) {
		t.Errorf("bad units err = %v, want validation error", err)
	}
}

func TestUserSettingsRejectedWriteLeavesNoTrace(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	u := createTestUser(t, us, "alice")

	err := us.UpdateSettings(u.ID, model.ThemeDark, model.LandingPantry, "furlong")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "units" {
		t.Fatalf("err = %v, want validation error on units", err)
	}

	s, err := us.GetSettings(u.ID)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	want := model.Settings{Theme: model.DefaultTheme, Units: model.DefaultUnits, LandingPage: model.DefaultLandingPage}
	if *s != want {
		t.Errorf("settings = %+v, want untouched %+v", *s, want)
	}

	if err := us.UpdateSettings(u.ID, model.ThemeDark, model.LandingPantry, "metric"); err != nil {
		t.Fatalf("update settings with units: %v", err)
	}
	s, err = us.GetSettings(u.ID)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if s.Units != "metric" || s.Theme != model.ThemeDark {
		t.Errorf("settings = %+v, want dark and metric", *s)
	}
}

func TestUserDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	rs := NewRecipeStore(db)
	ps := NewPantryStore(db)
	ss := NewShoppingStore(db)
	ms := NewMealPlanStore(db)

	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")

	r := createTestRecipe(t, rs, alice.ID, "Soup", true)
	bobs := createTestRecipe(t, rs, bob.ID, "Stew", true)
	if err := rs.Save(alice.ID, bobs.ID); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := ps.Create(alice.ID, "Rice", 2, "cups", "2030-01-01", nil); err != nil {
		t.Fatalf("pantry: %v", err)
	}
	if _, err := ss.Create(alice.ID, "Milk", nil, "", false); err != nil {
		t.Fatalf("shopping: %v", err)
	}
	if _, err := ms.Create(alice.ID, "2030-01-01", r.ID, model.MealLunch); err != nil {
		t.Fatalf("meal plan: %v", err)
	}

	if err := us.Delete(alice.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	for _, table := range []string{"recipes", "saved_recipes", "pantry", "shopping_list", "meal_plan"} {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE user_id = ?`, alice.ID).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s rows left = %d, want 0", table, n)
		}
	}
	if got, _ := rs.GetByID(r.ID); got != nil {
		t.Error("expected alice's recipe to be gone")
	}
	if got, _ := rs.GetByID(bobs.ID); got == nil {
		t.Error("bob's recipe should survive")
	}

	if err := us.Delete(alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestUserResetData(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	rs := NewRecipeStore(db)
	ps := NewPantryStore(db)

	alice := createTestUser(t, us, "alice")
	createTestRecipe(t, rs, alice.ID, "Soup", false)
	if _, err := ps.Create(alice.ID, "Rice", 2, "cups", "2030-01-01", nil); err != nil {
		t.Fatalf("pantry: %v", err)
	}
	if err := us.UpdateSettings(alice.ID, model.ThemeDark, model.LandingMealPlan, ""); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if err := us.UpdateUnits(alice.ID, "metric"); err != nil {
		t.Fatalf("update units: %v", err)
	}

	if err := us.ResetData(alice.ID); err != nil {
		t.Fatalf("reset data: %v", err)
	}

	st, err := us.Stats(alice.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if *st != (model.Stats{}) {
		t.Errorf("stats after reset = %+v, want zero", *st)
	}
	s, _ := us.GetSettings(alice.ID)
	if s.Theme != model.DefaultTheme || s.LandingPage != model.DefaultLandingPage {
		t.Errorf("settings after reset = %+v, want defaults", *s)
	}
	if s.Units != "metric" {
		t.Errorf("units = %q, reset should leave the unit preference alone", s.Units)
	}

	u, _ := us.GetByID(alice.ID)
	if u == nil {
		t.Fatal("reset must not delete the account")
	}

	if err := us.ResetData(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("reset unknown user err = %v, want ErrNotFound", err)
	}
}

func TestUserStats(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	rs := NewRecipeStore(db)
	ss := NewShoppingStore(db)

	alice := createTestUser(t, us, "alice")
	createTestRecipe(t, rs, alice.ID, "Soup", false)
	createTestRecipe(t, rs, alice.ID, "Salad", false)
	if _, err := ss.Create(alice.ID, "Eggs", nil, "", false); err != nil {
		t.Fatalf("shopping: %v", err)
	}

	st, err := us.Stats(alice.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := model.Stats{Recipes: 2, ShoppingItems: 1}
	if *st != want {
		t.Errorf("stats = %+v, want %+v", *st, want)
	}
}
