package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/recipebox/internal/model"
)

type PantryStore struct {
	db *sql.DB
}

func NewPantryStore(db *sql.DB) *PantryStore {
	return &PantryStore{db: db}
}

func scanPantryItem(scanner interface{ Scan(...any) error }) (*model.PantryItem, error) {
	var p model.PantryItem
	var unit sql.NullString
	err := scanner.Scan(&p.ID, &p.UserID, &p.Name, &p.Quantity, &unit, &p.ExpirationDate, &p.LowThreshold)
	if err != nil {
		return nil, err
	}
	p.Unit = unit.String
	return &p, nil
}

const pantryCols = `pantry_id, user_id, name, quantity, unit, expiration_date, low_threshold`

func validPantryItem(name string, quantity float64, expirationDate string, lowThreshold *float64) (float64, error) {
	if err := requireText("name", name); err != nil {
		return 0, err
	}
	if err := positive("quantity", quantity); err != nil {
		return 0, err
	}
	if err := validDate("expiration_date", expirationDate); err != nil {
		return 0, err
	}
	threshold := model.DefaultLowThreshold
	if lowThreshold != nil {
		if *lowThreshold < 0 {
			return 0, invalid("low_threshold", "cannot be negative")
		}
		threshold = *lowThreshold
	}
	return threshold, nil
}

// Create adds a pantry item. A nil lowThreshold takes the default of 1.0.
func (s *PantryStore) Create(userID int64, name string, quantity float64, unit, expirationDate string, lowThreshold *float64) (*model.PantryItem, error) {
	threshold, err := validPantryItem(name, quantity, expirationDate, lowThreshold)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`INSERT INTO pantry (user_id, name, quantity, unit, expiration_date, low_threshold) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, strings.TrimSpace(name), quantity, nullString(strings.TrimSpace(unit)), expirationDate, threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("insert pantry item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(id, userID)
}

// Get returns the item if userID owns it, otherwise nil.
func (s *PantryStore) Get(id, userID int64) (*model.PantryItem, error) {
	row := s.db.QueryRow(`SELECT `+pantryCols+` FROM pantry WHERE pantry_id = ? AND user_id = ?`, id, userID)
	p, err := scanPantryItem(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pantry item: %w", err)
	}
	return p, nil
}

// ListByUser returns the pantry soonest-expiring first.
func (s *PantryStore) ListByUser(userID int64) ([]model.PantryItem, error) {
	rows, err := s.db.Query(
		`SELECT `+pantryCols+` FROM pantry WHERE user_id = ? ORDER BY expiration_date ASC, pantry_id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pantry: %w", err)
	}
	defer rows.Close()

	var items []model.PantryItem
	for rows.Next() {
		p, err := scanPantryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pantry item: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (s *PantryStore) Update(id, userID int64, name string, quantity float64, unit, expirationDate string, lowThreshold *float64) (*model.PantryItem, error) {
	threshold, err := validPantryItem(name, quantity, expirationDate, lowThreshold)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`UPDATE pantry SET name = ?, quantity = ?, unit = ?, expiration_date = ?, low_threshold = ?
		 WHERE pantry_id = ? AND user_id = ?`,
		strings.TrimSpace(name), quantity, nullString(strings.TrimSpace(unit)), expirationDate, threshold, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update pantry item: %w", err)
	}
	if err := expectOne(result); err != nil {
		return nil, err
	}
	return s.Get(id, userID)
}

func (s *PantryStore) Delete(id, userID int64) error {
	result, err := s.db.Exec(`DELETE FROM pantry WHERE pantry_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete pantry item: %w", err)
	}
	return expectOne(result)
}
