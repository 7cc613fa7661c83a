package model

const DefaultLowThreshold = 1.0

// PantryItem dates are ISO calendar dates (YYYY-MM-DD).
type PantryItem struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	ExpirationDate string  `json:"expiration_date"`
	LowThreshold   float64 `json:"low_threshold"`
}
