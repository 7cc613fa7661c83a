package store

import (
	"fmt"

	"github.com/dukerupert/recipebox/internal/model"
)

// Save bookmarks a public recipe for userID. Saving twice fails with
// ErrAlreadySaved; private or missing recipes give ErrNotFound.
func (s *RecipeStore) Save(userID, recipeID int64) error {
	var isPublic int
	err := s.db.QueryRow(`SELECT is_public FROM recipes WHERE recipe_id = ?`, recipeID).Scan(&isPublic)
	if err != nil {
		if isNoRows(err) {
			return ErrNotFound
		}
		return fmt.Errorf("check recipe: %w", err)
	}
	if isPublic == 0 {
		return ErrNotFound
	}

	_, err = s.db.Exec(`INSERT INTO saved_recipes (user_id, recipe_id) VALUES (?, ?)`, userID, recipeID)
	if isUniqueViolation(err) {
		return ErrAlreadySaved
	}
	if err != nil {
		return fmt.Errorf("save recipe: %w", err)
	}
	return nil
}

func (s *RecipeStore) Unsave(userID, recipeID int64) error {
	result, err := s.db.Exec(`DELETE FROM saved_recipes WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
	if err != nil {
		return fmt.Errorf("unsave recipe: %w", err)
	}
	return expectOne(result)
}

func (s *RecipeStore) IsSaved(userID, recipeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM saved_recipes WHERE user_id = ? AND recipe_id = ?`,
		userID, recipeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check saved: %w", err)
	}
	return count > 0, nil
}

// ListSaved returns the recipes userID has saved, newest first.
func (s *RecipeStore) ListSaved(userID int64) ([]model.Recipe, error) {
	return s.queryRecipes(
		`JOIN saved_recipes sr ON sr.recipe_id = r.recipe_id
		 WHERE sr.user_id = ? ORDER BY r.created_at DESC, r.recipe_id DESC`,
		userID,
	)
}
