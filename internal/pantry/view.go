package pantry

import (
	"fmt"
	"slices"
	"strings"
)

// Filter values accepted by Query. FilterAll keeps everything.
const FilterAll = "all"

type SortKey string

const (
	SortExpiration SortKey = "expiration"
	SortName       SortKey = "name"
	SortQuantity   SortKey = "quantity"
)

// Query narrows and orders a computed pantry list.
type Query struct {
	Search string
	Filter string
	Sort   SortKey
}

// ParseFilter accepts "", "all" or a primary status name.
func ParseFilter(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", FilterAll:
		return FilterAll, nil
	case string(StatusExpired), string(StatusExpiring), string(StatusLow), string(StatusGood):
		return s, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// ParseSort accepts "" (expiration) or a SortKey.
func ParseSort(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortExpiration:
		return SortExpiration, nil
	case SortName:
		return SortName, nil
	case SortQuantity:
		return SortQuantity, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// Apply searches names case-insensitively, keeps items whose primary status
// matches the filter, then sorts. The input slice is not modified.
func (q Query) Apply(items []ItemWithStatus) []ItemWithStatus {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]ItemWithStatus, 0, len(items))
	for _, it := range items {
		if needle != "" && !strings.Contains(strings.ToLower(it.Name), needle) {
			continue
		}
		if q.Filter != "" && q.Filter != FilterAll && string(it.Primary) != q.Filter {
			continue
		}
		out = append(out, it)
	}

	switch q.Sort {
	case SortName:
		slices.SortStableFunc(out, func(a, b ItemWithStatus) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortQuantity:
		slices.SortStableFunc(out, func(a, b ItemWithStatus) int {
			switch {
			case a.Quantity > b.Quantity:
				return -1
			case a.Quantity < b.Quantity:
				return 1
			}
			return 0
		})
	default:
		slices.SortStableFunc(out, compareExpiry)
	}
	return out
}

// compareExpiry orders soonest expiry first and unreadable dates last.
func compareExpiry(a, b ItemWithStatus) int {
	switch {
	case a.ExpiryValid != b.ExpiryValid:
		if a.ExpiryValid {
			return -1
		}
		return 1
	case !a.ExpiryValid:
		return 0
	}
	return a.DaysUntilExpiry - b.DaysUntilExpiry
}

// Summary counts items by primary status.
type Summary struct {
	Total    int `json:"total"`
	Expired  int `json:"expired"`
	Expiring int `json:"expiring"`
	Low      int `json:"low"`
	Good     int `json:"good"`
}

func Summarize(items []ItemWithStatus) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch it.Primary {
		case StatusExpired:
			s.Expired++
		case StatusExpiring:
			s.Expiring++
		case StatusLow:
			s.Low++
		default:
			s.Good++
		}
	}
	return s
}

// ExpiringSoon returns items that are expired or within the expiring window,
// soonest first. The dashboard shows these.
func ExpiringSoon(items []ItemWithStatus) []ItemWithStatus {
	var out []ItemWithStatus
	for _, it := range items {
		if it.IsExpired || it.IsExpiring {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, compareExpiry)
	return out
}
