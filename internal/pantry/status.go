// Package pantry derives expiry and stock status for pantry items.
package pantry

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/store"
	"github.com/dukerupert/recipebox/internal/units"
)

type Status string

const (
	StatusExpired  Status = "expired"
	StatusExpiring Status = "expiring"
	StatusLow      Status = "low"
	StatusGood     Status = "good"
)

// ExpiringWindowDays is how far ahead an item counts as expiring soon.
const ExpiringWindowDays = 7

type Badge struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
}

// Alternate is the item's quantity shown in the other unit system.
type Alternate struct {
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Convertible bool    `json:"convertible"`
}

type ItemWithStatus struct {
	model.PantryItem
	DaysUntilExpiry int       `json:"days_until_expiry"`
	ExpiryValid     bool      `json:"expiry_valid"`
	IsExpired       bool      `json:"is_expired"`
	IsExpiring      bool      `json:"is_expiring"`
	IsLow           bool      `json:"is_low"`
	Primary         Status    `json:"primary_status"`
	Badges          []Badge   `json:"badges"`
	QuantityText    string    `json:"quantity_text"`
	Alternate       Alternate `json:"alternate"`
}

// DaysUntil counts calendar days from today to date; today is 0.
func DaysUntil(date string, today time.Time) (int, error) {
	exp, err := time.Parse(store.DateLayout, date)
	if err != nil {
		return 0, err
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(exp.Sub(start).Hours() / 24), nil
}

// FormatQuantity prints at most two decimals with trailing zeros dropped.
func FormatQuantity(q float64) string {
	return humanize.FtoaWithDigits(q, 2)
}

// ComputeStatus classifies one item. The expired, expiring and low facets
// are independent; Primary picks the first of expired, expiring, low, good.
// display is the viewer's unit system and drives Alternate. An unparseable
// expiration date leaves ExpiryValid false and sets no expiry facets.
func ComputeStatus(item model.PantryItem, today time.Time, display units.System) ItemWithStatus {
	s := ItemWithStatus{PantryItem: item}

	days, err := DaysUntil(item.ExpirationDate, today)
	if err == nil {
		s.ExpiryValid = true
		s.DaysUntilExpiry = days
		s.IsExpired = days < 0
		s.IsExpiring = days >= 0 && days <= ExpiringWindowDays
	}
	s.IsLow = item.Quantity <= item.LowThreshold

	s.QuantityText = strings.TrimSpace(FormatQuantity(item.Quantity) + " " + item.Unit)

	if s.IsExpired {
		s.Badges = append(s.Badges, Badge{StatusExpired, "Expired"})
	}
	if s.IsExpiring {
		s.Badges = append(s.Badges, Badge{StatusExpiring, expiringLabel(days)})
	}
	if s.IsLow {
		s.Badges = append(s.Badges, Badge{StatusLow, fmt.Sprintf("Low Stock (%s)", s.QuantityText)})
	}
	if len(s.Badges) == 0 {
		s.Badges = append(s.Badges, Badge{StatusGood, "Good"})
	}

	switch {
	case s.IsExpired:
		s.Primary = StatusExpired
	case s.IsExpiring:
		s.Primary = StatusExpiring
	case s.IsLow:
		s.Primary = StatusLow
	default:
		s.Primary = StatusGood
	}

	if display == "" {
		display = units.System(model.DefaultUnits)
	}
	q, u := units.Convert(item.Quantity, item.Unit, display.Opposite())
	s.Alternate = Alternate{
		Quantity:    q,
		Unit:        u,
		Convertible: item.Unit != "" && u != item.Unit,
	}
	return s
}

func expiringLabel(days int) string {
	switch days {
	case 0:
		return "Expires today"
	case 1:
		return "Expires tomorrow"
	}
	return fmt.Sprintf("Expires in %d days", days)
}

// ComputeAll classifies every item, keeping their order.
func ComputeAll(items []model.PantryItem, today time.Time, display units.System) []ItemWithStatus {
	out := make([]ItemWithStatus, 0, len(items))
	for _, item := range items {
		out = append(out, ComputeStatus(item, today, display))
	}
	return out
}
