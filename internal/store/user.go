package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/recipebox/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Username, &u.Theme, &u.Units, &u.LandingPage)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `user_id, username, theme, units, landing_page`

// Create stores a user with an already-hashed password.
func (s *UserStore) Create(username, passwordHash string) (*model.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, invalid("password", "hash is required")
	}

	result, err := s.db.Exec(
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash,
	)
	if isUniqueViolation(err) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE user_id = ?`, id)
	u, err := scanUser(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(username string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// Credentials returns the id and password hash for username, or ErrNotFound.
func (s *UserStore) Credentials(username string) (int64, string, error) {
	var id int64
	var hash string
	err := s.db.QueryRow(
		`SELECT user_id, password_hash FROM users WHERE username = ?`, username,
	).Scan(&id, &hash)
	if isNoRows(err) {
		return 0, "", ErrNotFound
	}
	if err != nil {
		return 0, "", fmt.Errorf("get credentials: %w", err)
	}
	return id, hash, nil
}

func (s *UserStore) PasswordHash(id int64) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT password_hash FROM users WHERE user_id = ?`, id).Scan(&hash)
	if isNoRows(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

func (s *UserStore) UpdateUsername(id int64, username string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	result, err := s.db.Exec(`UPDATE users SET username = ? WHERE user_id = ?`, username, id)
	if isUniqueViolation(err) {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("update username: %w", err)
	}
	return expectOne(result)
}

func (s *UserStore) UpdatePasswordHash(id int64, passwordHash string) error {
	if passwordHash == "" {
		return invalid("password", "hash is required")
	}
	result, err := s.db.Exec(`UPDATE users SET password_hash = ? WHERE user_id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return expectOne(result)
}

func (s *UserStore) GetSettings(id int64) (*model.Settings, error) {
	u, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return &model.Settings{Theme: u.Theme, Units: u.Units, LandingPage: u.LandingPage}, nil
}

// UpdateSettings stores theme and landing page, and the unit system when
// system is non-empty. All fields are validated before the single write.
func (s *UserStore) UpdateSettings(id int64, theme, landingPage, system string) error {
	if err := validSettings(theme, landingPage); err != nil {
		return err
	}
	if system == "" {
		result, err := s.db.Exec(
			`UPDATE users SET theme = ?, landing_page = ? WHERE user_id = ?`,
			theme, landingPage, id,
		)
		if err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		return expectOne(result)
	}

	sys, err := validUnits(system)
	if err != nil {
		return err
	}
	result, err := s.db.Exec(
		`UPDATE users SET theme = ?, landing_page = ?, units = ? WHERE user_id = ?`,
		theme, landingPage, string(sys), id,
	)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return expectOne(result)
}

// UpdateUnits stores the preferred unit system ("metric" or "imperial").
func (s *UserStore) UpdateUnits(id int64, system string) error {
	sys, err := validUnits(system)
	if err != nil {
		return err
	}
	result, err := s.db.Exec(`UPDATE users SET units = ? WHERE user_id = ?`, string(sys), id)
	if err != nil {
		return fmt.Errorf("update units: %w", err)
	}
	return expectOne(result)
}

func (s *UserStore) Stats(id int64) (*model.Stats, error) {
	var st model.Stats
	err := s.db.QueryRow(
		`SELECT
			(SELECT COUNT(*) FROM recipes WHERE user_id = ?),
			(SELECT COUNT(*) FROM saved_recipes WHERE user_id = ?),
			(SELECT COUNT(*) FROM pantry WHERE user_id = ?),
			(SELECT COUNT(*) FROM shopping_list WHERE user_id = ?),
			(SELECT COUNT(*) FROM meal_plan WHERE user_id = ?)`,
		id, id, id, id, id,
	).Scan(&st.Recipes, &st.SavedRecipes, &st.PantryItems, &st.ShoppingItems, &st.PlannedMeals)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return &st, nil
}

// Delete removes the user; foreign keys cascade to everything they own.
func (s *UserStore) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM users WHERE user_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectOne(result)
}

// ResetData deletes everything the user owns and restores theme and
// landing page defaults, all in one transaction.
func (s *UserStore) ResetData(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE users SET theme = ?, landing_page = ? WHERE user_id = ?`,
		model.DefaultTheme, model.DefaultLandingPage, id,
	)
	if err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	if err := expectOne(result); err != nil {
		return err
	}

	for _, table := range []string{"meal_plan", "saved_recipes", "pantry", "shopping_list", "recipes"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// expectOne maps "no row touched" to ErrNotFound.
func expectOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
