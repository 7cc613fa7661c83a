package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/recipebox/internal/model"
)

type MealPlanStore struct {
	db *sql.DB
}

func NewMealPlanStore(db *sql.DB) *MealPlanStore {
	return &MealPlanStore{db: db}
}

func scanMealPlanEntry(scanner interface{ Scan(...any) error }) (*model.MealPlanEntry, error) {
	var e model.MealPlanEntry
	var recipeID sql.NullInt64
	var title sql.NullString

	err := scanner.Scan(&e.ID, &e.UserID, &e.Date, &recipeID, &e.MealType, &title)
	if err != nil {
		return nil, err
	}
	if recipeID.Valid {
		e.RecipeID = &recipeID.Int64
	}
	e.RecipeTitle = title.String
	return &e, nil
}

const mealPlanCols = `m.plan_id, m.user_id, m.date, m.recipe_id, m.meal_type, r.title`

const mealPlanFrom = ` FROM meal_plan m LEFT JOIN recipes r ON r.recipe_id = m.recipe_id`

// WeekStart returns the Monday on or before day.
func WeekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	y, m, d := day.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location())
}

// checkEntry validates an entry and returns the meal type to store. The
// recipe must be visible to userID now; later visibility changes do not
// touch existing entries.
func (s *MealPlanStore) checkEntry(userID int64, date string, recipeID int64, mealType string) (string, error) {
	if err := validDate("date", date); err != nil {
		return "", err
	}
	if mealType == "" {
		mealType = model.MealDinner
	}
	if err := validMealType(mealType); err != nil {
		return "", err
	}

	var visible int
	err := s.db.QueryRow(
		`SELECT 1 FROM recipes WHERE recipe_id = ? AND (user_id = ? OR is_public = 1)`,
		recipeID, userID,
	).Scan(&visible)
	if isNoRows(err) {
		return "", invalid("recipe_id", "recipe %d does not exist or is not accessible", recipeID)
	}
	if err != nil {
		return "", fmt.Errorf("check recipe access: %w", err)
	}
	return mealType, nil
}

// Create schedules a recipe. An empty mealType means Dinner.
func (s *MealPlanStore) Create(userID int64, date string, recipeID int64, mealType string) (*model.MealPlanEntry, error) {
	mealType, err := s.checkEntry(userID, date, recipeID, mealType)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`INSERT INTO meal_plan (user_id, date, recipe_id, meal_type) VALUES (?, ?, ?, ?)`,
		userID, date, recipeID, mealType,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal plan entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(id, userID)
}

func (s *MealPlanStore) Get(id, userID int64) (*model.MealPlanEntry, error) {
	row := s.db.QueryRow(`SELECT `+mealPlanCols+mealPlanFrom+` WHERE m.plan_id = ? AND m.user_id = ?`, id, userID)
	e, err := scanMealPlanEntry(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan entry: %w", err)
	}
	return e, nil
}

func (s *MealPlanStore) query(where string, args ...any) ([]model.MealPlanEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+mealPlanCols+mealPlanFrom+` `+where+` ORDER BY m.date ASC, CASE m.meal_type
			WHEN 'Breakfast' THEN 0 WHEN 'Lunch' THEN 1 WHEN 'Dinner' THEN 2 ELSE 3 END, m.plan_id ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list meal plan: %w", err)
	}
	defer rows.Close()

	var entries []model.MealPlanEntry
	for rows.Next() {
		e, err := scanMealPlanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal plan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (s *MealPlanStore) ListByUser(userID int64) ([]model.MealPlanEntry, error) {
	return s.query(`WHERE m.user_id = ?`, userID)
}

// ListRange returns entries dated from..to inclusive.
func (s *MealPlanStore) ListRange(userID int64, from, to string) ([]model.MealPlanEntry, error) {
	if err := validDate("from", from); err != nil {
		return nil, err
	}
	if err := validDate("to", to); err != nil {
		return nil, err
	}
	return s.query(`WHERE m.user_id = ? AND m.date >= ? AND m.date <= ?`, userID, from, to)
}

func (s *MealPlanStore) Update(id, userID int64, date string, recipeID int64, mealType string) (*model.MealPlanEntry, error) {
	mealType, err := s.checkEntry(userID, date, recipeID, mealType)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`UPDATE meal_plan SET date = ?, recipe_id = ?, meal_type = ? WHERE plan_id = ? AND user_id = ?`,
		date, recipeID, mealType, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update meal plan entry: %w", err)
	}
	if err := expectOne(result); err != nil {
		return nil, err
	}
	return s.Get(id, userID)
}

func (s *MealPlanStore) Delete(id, userID int64) error {
	result, err := s.db.Exec(`DELETE FROM meal_plan WHERE plan_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete meal plan entry: %w", err)
	}
	return expectOne(result)
}
