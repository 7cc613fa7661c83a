package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/recipebox/internal/model"
)

// PromotedShelfLifeDays is how long items moved into the pantry keep.
const PromotedShelfLifeDays = 30

type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

func scanShoppingItem(scanner interface{ Scan(...any) error }) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	var qty sql.NullFloat64
	var unit sql.NullString
	var checked int

	err := scanner.Scan(&item.ID, &item.UserID, &item.Name, &qty, &unit, &checked)
	if err != nil {
		return nil, err
	}
	item.Quantity = floatPtr(qty)
	item.Unit = unit.String
	item.Checked = checked != 0
	return &item, nil
}

const shoppingCols = `list_id, user_id, name, quantity, unit, is_checked`

func validShoppingItem(name string, quantity *float64) error {
	if err := requireText("name", name); err != nil {
		return err
	}
	if quantity != nil {
		return positive("quantity", *quantity)
	}
	return nil
}

func (s *ShoppingStore) Create(userID int64, name string, quantity *float64, unit string, checked bool) (*model.ShoppingItem, error) {
	if err := validShoppingItem(name, quantity); err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`INSERT INTO shopping_list (user_id, name, quantity, unit, is_checked) VALUES (?, ?, ?, ?, ?)`,
		userID, strings.TrimSpace(name), nullFloat(quantity), nullString(strings.TrimSpace(unit)), checked,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shopping item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(id, userID)
}

func (s *ShoppingStore) Get(id, userID int64) (*model.ShoppingItem, error) {
	row := s.db.QueryRow(`SELECT `+shoppingCols+` FROM shopping_list WHERE list_id = ? AND user_id = ?`, id, userID)
	item, err := scanShoppingItem(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping item: %w", err)
	}
	return item, nil
}

// ListByUser returns unchecked items first, then in insertion order.
func (s *ShoppingStore) ListByUser(userID int64) ([]model.ShoppingItem, error) {
	rows, err := s.db.Query(
		`SELECT `+shoppingCols+` FROM shopping_list WHERE user_id = ? ORDER BY is_checked ASC, list_id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ShoppingStore) Update(id, userID int64, name string, quantity *float64, unit string, checked bool) (*model.ShoppingItem, error) {
	if err := validShoppingItem(name, quantity); err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`UPDATE shopping_list SET name = ?, quantity = ?, unit = ?, is_checked = ? WHERE list_id = ? AND user_id = ?`,
		strings.TrimSpace(name), nullFloat(quantity), nullString(strings.TrimSpace(unit)), checked, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update shopping item: %w", err)
	}
	if err := expectOne(result); err != nil {
		return nil, err
	}
	return s.Get(id, userID)
}

func (s *ShoppingStore) ToggleChecked(id, userID int64) (*model.ShoppingItem, error) {
	result, err := s.db.Exec(
		`UPDATE shopping_list SET is_checked = 1 - is_checked WHERE list_id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle checked: %w", err)
	}
	if err := expectOne(result); err != nil {
		return nil, err
	}
	return s.Get(id, userID)
}

func (s *ShoppingStore) Delete(id, userID int64) error {
	result, err := s.db.Exec(`DELETE FROM shopping_list WHERE list_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete shopping item: %w", err)
	}
	return expectOne(result)
}

// ClearChecked deletes every checked item and returns how many went.
func (s *ShoppingStore) ClearChecked(userID int64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM shopping_list WHERE user_id = ? AND is_checked = 1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear checked: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// CountUnchecked returns how many items are still to buy.
func (s *ShoppingStore) CountUnchecked(userID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM shopping_list WHERE user_id = ? AND is_checked = 0`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unchecked: %w", err)
	}
	return count, nil
}

// PromoteChecked moves every checked item into the pantry with a 30-day
// expiration counted from today, a quantity of 1 when none was given, and
// the default low-stock threshold. Insert and delete share one transaction,
// so an item never ends up in both lists or in neither.
func (s *ShoppingStore) PromoteChecked(userID int64, today time.Time) (int, error) {
	expires := today.AddDate(0, 0, PromotedShelfLifeDays).Format(DateLayout)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		`SELECT `+shoppingCols+` FROM shopping_list WHERE user_id = ? AND is_checked = 1 ORDER BY list_id ASC`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("list checked: %w", err)
	}
	var checked []model.ShoppingItem
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan shopping item: %w", err)
		}
		checked = append(checked, *item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("list checked: %w", err)
	}

	for _, item := range checked {
		qty := 1.0
		if item.Quantity != nil {
			qty = *item.Quantity
		}
		if _, err := tx.Exec(
			`INSERT INTO pantry (user_id, name, quantity, unit, expiration_date, low_threshold) VALUES (?, ?, ?, ?, ?, ?)`,
			userID, item.Name, qty, nullString(item.Unit), expires, model.DefaultLowThreshold,
		); err != nil {
			return 0, fmt.Errorf("promote %q: %w", item.Name, err)
		}
		if _, err := tx.Exec(`DELETE FROM shopping_list WHERE list_id = ?`, item.ID); err != nil {
			return 0, fmt.Errorf("remove promoted %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit promote: %w", err)
	}
	return len(checked), nil
}
