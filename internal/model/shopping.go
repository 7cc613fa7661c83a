package model

type ShoppingItem struct {
	ID       int64    `json:"id"`
	UserID   int64    `json:"user_id"`
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
	Checked  bool     `json:"checked"`
}
