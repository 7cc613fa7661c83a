package store

import (
	"database/sql"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/units"
)

// recipeOfTheDayModulus bounds the date-seeded ordering key. It is prime so
// consecutive seeds scatter the ordering.
const recipeOfTheDayModulus = 1000003

type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

func scanRecipe(scanner interface{ Scan(...any) error }) (*model.Recipe, error) {
	var r model.Recipe
	var imagePath sql.NullString
	var isPublic int

	err := scanner.Scan(
		&r.ID, &r.UserID, &r.Title, &r.Ingredients, &r.Instructions,
		&imagePath, &isPublic, &r.CreatedAt, &r.Author,
	)
	if err != nil {
		return nil, err
	}
	r.ImagePath = imagePath.String
	r.IsPublic = isPublic != 0
	return &r, nil
}

const recipeCols = `r.recipe_id, r.user_id, r.title, r.ingredients, r.instructions, r.image_path, r.is_public, r.created_at, u.username`

const recipeFrom = ` FROM recipes r JOIN users u ON u.user_id = r.user_id`

func (s *RecipeStore) queryRecipes(query string, args ...any) ([]model.Recipe, error) {
	rows, err := s.db.Query(`SELECT `+recipeCols+recipeFrom+` `+query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

// Create validates and stores a recipe. Structured ingredients are written
// both inline as JSON and as ordered child rows, in one transaction.
func (s *RecipeStore) Create(ownerID int64, title string, ingredients model.Ingredients, instructions, imagePath string, isPublic bool) (*model.Recipe, error) {
	if err := validRecipe(title, ingredients, instructions); err != nil {
		return nil, err
	}
	inline, err := ingredients.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize ingredients: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO recipes (user_id, title, ingredients, instructions, image_path, is_public) VALUES (?, ?, ?, ?, ?, ?)`,
		ownerID, strings.TrimSpace(title), inline, instructions, nullString(imagePath), isPublic,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if ingredients.IsStructured() {
		if err := insertLines(tx, id, ingredients.Lines); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit recipe: %w", err)
	}
	return s.GetByID(id)
}

func (s *RecipeStore) GetByID(id int64) (*model.Recipe, error) {
	row := s.db.QueryRow(`SELECT `+recipeCols+recipeFrom+` WHERE r.recipe_id = ?`, id)
	r, err := scanRecipe(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return r, nil
}

// GetVisible returns the recipe when userID owns it or it is public.
func (s *RecipeStore) GetVisible(id, userID int64) (*model.Recipe, error) {
	row := s.db.QueryRow(
		`SELECT `+recipeCols+recipeFrom+` WHERE r.recipe_id = ? AND (r.user_id = ? OR r.is_public = 1)`,
		id, userID,
	)
	r, err := scanRecipe(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get visible recipe: %w", err)
	}
	return r, nil
}

// CanView reports whether userID owns the recipe or it is public.
func (s *RecipeStore) CanView(userID, recipeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM recipes WHERE recipe_id = ? AND (user_id = ? OR is_public = 1)`,
		recipeID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check recipe access: %w", err)
	}
	return count > 0, nil
}

// ListByOwner returns a user's cookbook, newest first.
func (s *RecipeStore) ListByOwner(userID int64) ([]model.Recipe, error) {
	return s.queryRecipes(`WHERE r.user_id = ? ORDER BY r.created_at DESC, r.recipe_id DESC`, userID)
}

func (s *RecipeStore) ListPublic() ([]model.Recipe, error) {
	return s.queryRecipes(`WHERE r.is_public = 1 ORDER BY r.created_at DESC, r.recipe_id DESC`)
}

// RandomPublic picks the recipe of the day. The choice depends only on the
// calendar day and the set of public recipes, so every caller sees the same
// one until midnight. Returns nil when nothing is public.
func (s *RecipeStore) RandomPublic(day time.Time) (*model.Recipe, error) {
	seed := daySeed(day)
	row := s.db.QueryRow(
		`SELECT `+recipeCols+recipeFrom+` WHERE r.is_public = 1
		 ORDER BY (r.recipe_id * ?) % ?, r.recipe_id ASC LIMIT 1`,
		seed, recipeOfTheDayModulus,
	)
	r, err := scanRecipe(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("recipe of the day: %w", err)
	}
	return r, nil
}

// daySeed hashes the calendar date into [1, recipeOfTheDayModulus).
func daySeed(day time.Time) int64 {
	h := fnv.New32a()
	h.Write([]byte(day.Format(DateLayout)))
	seed := int64(h.Sum32()) % recipeOfTheDayModulus
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Update rewrites a recipe. When ownerID is set the recipe must belong to
// that user. Structured ingredients replace the child rows in the same
// transaction as the parent update; legacy text leaves them alone.
func (s *RecipeStore) Update(id int64, ownerID *int64, title string, ingredients model.Ingredients, instructions, imagePath string, isPublic bool) (*model.Recipe, error) {
	if err := validRecipe(title, ingredients, instructions); err != nil {
		return nil, err
	}
	inline, err := ingredients.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize ingredients: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE recipes SET title = ?, ingredients = ?, instructions = ?, image_path = ?, is_public = ? WHERE recipe_id = ?`
	args := []any{strings.TrimSpace(title), inline, instructions, nullString(imagePath), isPublic, id}
	if ownerID != nil {
		query += ` AND user_id = ?`
		args = append(args, *ownerID)
	}
	result, err := tx.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if err := expectOne(result); err != nil {
		return nil, err
	}

	if ingredients.IsStructured() {
		if _, err := tx.Exec(`DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
			return nil, fmt.Errorf("clear ingredients: %w", err)
		}
		if err := insertLines(tx, id, ingredients.Lines); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit recipe: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a recipe and, through foreign keys, its ingredient rows and
// saved links. Meal plan entries keep their slot with a null recipe.
func (s *RecipeStore) Delete(id int64, ownerID *int64) error {
	query := `DELETE FROM recipes WHERE recipe_id = ?`
	args := []any{id}
	if ownerID != nil {
		query += ` AND user_id = ?`
		args = append(args, *ownerID)
	}
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return expectOne(result)
}

// Ingredients returns the structured lines ordered by order_index. When
// target is non-empty each quantity is converted for display; stored rows
// are never changed.
func (s *RecipeStore) Ingredients(recipeID int64, target units.System) ([]model.RecipeIngredient, error) {
	rows, err := s.db.Query(
		`SELECT ingredient_id, recipe_id, quantity, unit, name, order_index
		 FROM recipe_ingredients WHERE recipe_id = ? ORDER BY order_index ASC`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var lines []model.RecipeIngredient
	for rows.Next() {
		var ing model.RecipeIngredient
		var qty sql.NullFloat64
		var unit sql.NullString
		if err := rows.Scan(&ing.ID, &ing.RecipeID, &qty, &unit, &ing.Name, &ing.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ing.Quantity = floatPtr(qty)
		ing.Unit = unit.String
		if target != "" && ing.Quantity != nil {
			q, u := units.Convert(*ing.Quantity, ing.Unit, target)
			ing.Quantity, ing.Unit = &q, u
		}
		lines = append(lines, ing)
	}
	return lines, rows.Err()
}

func insertLines(tx *sql.Tx, recipeID int64, lines []model.IngredientLine) error {
	stmt, err := tx.Prepare(
		`INSERT INTO recipe_ingredients (recipe_id, quantity, unit, name, order_index) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, line := range lines {
		if _, err := stmt.Exec(recipeID, nullFloat(line.Quantity), nullString(line.Unit), strings.TrimSpace(line.Name), i); err != nil {
			return fmt.Errorf("insert ingredient %d: %w", i, err)
		}
	}
	return nil
}

// SetImage points an owned recipe at a new image key and returns the key it
// replaced, if any.
func (s *RecipeStore) SetImage(id, ownerID int64, imagePath string) (string, error) {
	var previous sql.NullString
	err := s.db.QueryRow(`SELECT image_path FROM recipes WHERE recipe_id = ? AND user_id = ?`, id, ownerID).Scan(&previous)
	if isNoRows(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get recipe image: %w", err)
	}

	result, err := s.db.Exec(`UPDATE recipes SET image_path = ? WHERE recipe_id = ? AND user_id = ?`, nullString(imagePath), id, ownerID)
	if err != nil {
		return "", fmt.Errorf("set recipe image: %w", err)
	}
	if err := expectOne(result); err != nil {
		return "", err
	}
	return previous.String, nil
}
