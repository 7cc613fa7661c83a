package pantry

import (
	"testing"
	"time"

	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/units"
)

var today = time.Date(2026, 2, 5, 15, 30, 0, 0, time.UTC)

func item(name string, qty float64, unit, expires string) model.PantryItem {
	return model.PantryItem{ID: 1, Name: name, Quantity: qty, Unit: unit, ExpirationDate: expires, LowThreshold: 1.0}
}

func labels(badges []Badge) []string {
	out := make([]string, len(badges))
	for i, b := range badges {
		out[i] = b.Label
	}
	return out
}

func TestExpiredNotLow(t *testing.T) {
	s := ComputeStatus(item("Milk", 3, "cups", "2026-02-04"), today, units.Imperial)

	if !s.IsExpired || s.IsExpiring || s.IsLow {
		t.Errorf("facets = expired %v, expiring %v, low %v; want true, false, false", s.IsExpired, s.IsExpiring, s.IsLow)
	}
	if s.Primary != StatusExpired {
		t.Errorf("primary = %q, want %q", s.Primary, StatusExpired)
	}
	if s.DaysUntilExpiry != -1 {
		t.Errorf("days = %d, want -1", s.DaysUntilExpiry)
	}
}

func TestExpiringAndLow(t *testing.T) {
	s := ComputeStatus(item("Butter", 0.5, "lbs", "2026-02-08"), today, units.Imperial)

	if !s.IsExpiring || !s.IsLow || s.IsExpired {
		t.Errorf("facets = expired %v, expiring %v, low %v; want false, true, true", s.IsExpired, s.IsExpiring, s.IsLow)
	}
	if s.Primary != StatusExpiring {
		t.Errorf("primary = %q, want %q", s.Primary, StatusExpiring)
	}
	got := labels(s.Badges)
	want := []string{"Expires in 3 days", "Low Stock (0.5 lbs)"}
	if len(got) != len(want) {
		t.Fatalf("badges = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("badge[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpiredAndLowEmitsBoth(t *testing.T) {
	s := ComputeStatus(item("Eggs", 1, "", "2026-01-01"), today, units.Imperial)

	got := labels(s.Badges)
	if len(got) != 2 || got[0] != "Expired" || got[1] != "Low Stock (1)" {
		t.Errorf("badges = %v", got)
	}
	if s.Primary != StatusExpired {
		t.Errorf("primary = %q, want %q", s.Primary, StatusExpired)
	}
}

func TestExpiringLabels(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-02-05", "Expires today"},
		{"2026-02-06", "Expires tomorrow"},
		{"2026-02-12", "Expires in 7 days"},
	}
	for _, tt := range tests {
		s := ComputeStatus(item("Fish", 5, "", tt.date), today, units.Imperial)
		if len(s.Badges) != 1 || s.Badges[0].Label != tt.want {
			t.Errorf("%s badges = %v, want [%s]", tt.date, labels(s.Badges), tt.want)
		}
	}
}

func TestGood(t *testing.T) {
	s := ComputeStatus(item("Rice", 5, "cups", "2026-02-13"), today, units.Imperial)

	if s.Primary != StatusGood {
		t.Errorf("primary = %q, want %q", s.Primary, StatusGood)
	}
	if len(s.Badges) != 1 || s.Badges[0].Label != "Good" {
		t.Errorf("badges = %v, want [Good]", labels(s.Badges))
	}
}

func TestLowAtThreshold(t *testing.T) {
	it := item("Salt", 2, "oz", "2027-01-01")
	it.LowThreshold = 2
	s := ComputeStatus(it, today, units.Imperial)

	if !s.IsLow || s.Primary != StatusLow {
		t.Errorf("low = %v primary = %q, want true, low", s.IsLow, s.Primary)
	}
}

func TestInvalidDateFallsBack(t *testing.T) {
	s := ComputeStatus(item("Mystery", 5, "", "someday"), today, units.Imperial)

	if s.IsExpired || s.IsExpiring {
		t.Error("unparseable date should not count as expired or expiring")
	}
	if s.Primary != StatusGood {
		t.Errorf("primary = %q, want %q", s.Primary, StatusGood)
	}
	if s.ExpiryValid {
		t.Error("expiry_valid = true for an unparseable date")
	}
}

func TestAlternate(t *testing.T) {
	s := ComputeStatus(item("Flour", 2, "cups", "2027-01-01"), today, units.Imperial)
	if !s.Alternate.Convertible || s.Alternate.Unit != units.Milliliter || s.Alternate.Quantity != 473.2 {
		t.Errorf("alternate = %+v, want 473.2 ml", s.Alternate)
	}

	s = ComputeStatus(item("Apples", 4, "", "2027-01-01"), today, units.Imperial)
	if s.Alternate.Convertible {
		t.Errorf("unitless item marked convertible: %+v", s.Alternate)
	}

	s = ComputeStatus(item("Stock", 1, "l", "2027-01-01"), today, units.Metric)
	if !s.Alternate.Convertible || s.Alternate.Unit != units.Gallon {
		t.Errorf("alternate = %+v, want gallons", s.Alternate)
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2"},
		{2.5, "2.5"},
		{0.126, "0.13"},
		{1.10, "1.1"},
	}
	for _, tt := range tests {
		if got := FormatQuantity(tt.in); got != tt.want {
			t.Errorf("FormatQuantity(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
