// Package units normalizes ingredient quantity units and converts them
// between the metric and imperial systems.
package units

import (
	"fmt"
	"math"
	"strings"
)

type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// ParseSystem accepts "metric" or "imperial" (case-insensitive).
func ParseSystem(s string) (System, error) {
	switch System(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	}
	return "", fmt.Errorf("unknown unit system %q", s)
}

// Opposite returns the other system.
func (s System) Opposite() System {
	if s == Metric {
		return Imperial
	}
	return Metric
}

// Canonical unit tokens.
const (
	Pound      = "lbs"
	Ounce      = "oz"
	Gram       = "g"
	Kilogram   = "kg"
	Cup        = "cups"
	Tablespoon = "tbsp"
	Teaspoon   = "tsp"
	FluidOunce = "fl oz"
	Pint       = "pint"
	Quart      = "quart"
	Gallon     = "gallon"
	Milliliter = "ml"
	Liter      = "l"
)

var synonyms = map[string]string{
	"lb": Pound, "lbs": Pound, "pound": Pound, "pounds": Pound,
	"oz": Ounce, "ounce": Ounce, "ounces": Ounce,
	"g": Gram, "gram": Gram, "grams": Gram,
	"kg": Kilogram, "kilo": Kilogram, "kilogram": Kilogram,

	"cup": Cup, "cups": Cup,
	"tbsp": Tablespoon, "tablespoon": Tablespoon, "tablespoons": Tablespoon,
	"tsp": Teaspoon, "teaspoon": Teaspoon, "teaspoons": Teaspoon,
	"fl oz": FluidOunce, "fluid ounce": FluidOunce, "fluid ounces": FluidOunce,
	"pt": Pint, "pint": Pint, "pints": Pint,
	"qt": Quart, "quart": Quart, "quarts": Quart,
	"gal": Gallon, "gallon": Gallon, "gallons": Gallon,
	"ml": Milliliter, "milliliter": Milliliter, "milliliters": Milliliter,
	"l": Liter, "liter": Liter, "liters": Liter,
}

var systemOf = map[string]System{
	Pound: Imperial, Ounce: Imperial, Cup: Imperial, Tablespoon: Imperial,
	Teaspoon: Imperial, FluidOunce: Imperial, Pint: Imperial, Quart: Imperial,
	Gallon: Imperial,

	Kilogram: Metric, Gram: Metric, Milliliter: Metric, Liter: Metric,
}

type factor struct {
	multiplier float64
	unit       string
}

// conversions is keyed by canonical source unit. Every entry crosses systems.
var conversions = map[string]factor{
	Pound:      {0.453592, Kilogram},
	Ounce:      {28.3495, Gram},
	Cup:        {236.588, Milliliter},
	Tablespoon: {14.7868, Milliliter},
	Teaspoon:   {4.92892, Milliliter},
	FluidOunce: {29.5735, Milliliter},
	Pint:       {473.176, Milliliter},
	Quart:      {946.353, Milliliter},
	Gallon:     {3785.41, Milliliter},

	Kilogram:   {2.20462, Pound},
	Gram:       {0.035274, Ounce},
	Milliliter: {0.00422675, Cup},
	Liter:      {0.264172, Gallon},
}

// Canonical lowercases and trims unit and maps known spellings to a single
// token. Unknown units come back lowercased and trimmed.
func Canonical(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if c, ok := synonyms[u]; ok {
		return c
	}
	return u
}

// SystemOf reports which system the unit belongs to.
func SystemOf(unit string) (System, bool) {
	s, ok := systemOf[Canonical(unit)]
	return s, ok
}

// Convertible reports whether Convert would change the unit when asked
// for the target system.
func Convertible(unit string, target System) bool {
	s, ok := SystemOf(unit)
	return ok && s != target
}

// Convert expresses quantity in the target system. Empty units, unknown
// units and units already in the target system are returned untouched,
// with the caller's original spelling.
func Convert(quantity float64, unit string, target System) (float64, string) {
	canonical := Canonical(unit)
	sys, ok := systemOf[canonical]
	if !ok || sys == target {
		return quantity, unit
	}

	f, ok := conversions[canonical]
	if !ok {
		return quantity, unit
	}
	return roundQuantity(quantity * f.multiplier), f.unit
}

// roundQuantity keeps one decimal at 100 and above, two from 10, three below.
func roundQuantity(q float64) float64 {
	switch {
	case q >= 100:
		return roundTo(q, 1)
	case q >= 10:
		return roundTo(q, 2)
	default:
		return roundTo(q, 3)
	}
}

func roundTo(q float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(q*p) / p
}
