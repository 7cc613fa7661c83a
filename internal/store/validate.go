package store

import (
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/units"
)

// DateLayout is the storage format of every calendar date column.
const DateLayout = "2006-01-02"

const (
	MinUsernameLen = 3
	MaxUsernameLen = 50
	MinPasswordLen = 8
)

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "cannot be empty")
	}
	return nil
}

func validDate(field, value string) error {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return invalid(field, "must be in YYYY-MM-DD format")
	}
	return nil
}

func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return invalid(field, "must be greater than 0")
	}
	return nil
}

// ValidateUsername checks length and blankness. Length counts characters.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return invalid("username", "cannot be empty")
	}
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLen {
		return invalid("username", "must be at least %d characters", MinUsernameLen)
	}
	if n > MaxUsernameLen {
		return invalid("username", "must be at most %d characters", MaxUsernameLen)
	}
	return nil
}

func ValidatePassword(field, password string) error {
	if password == "" {
		return invalid(field, "cannot be empty")
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return invalid(field, "must be at least %d characters", MinPasswordLen)
	}
	return nil
}

func validMealType(mealType string) error {
	if !slices.Contains(model.MealTypes, mealType) {
		return invalid("meal_type", "must be one of: %s", strings.Join(model.MealTypes, ", "))
	}
	return nil
}

func validRecipe(title string, ingredients model.Ingredients, instructions string) error {
	if err := requireText("title", title); err != nil {
		return err
	}
	if ingredients.IsEmpty() {
		return invalid("ingredients", "cannot be empty")
	}
	for i, line := range ingredients.Lines {
		if strings.TrimSpace(line.Name) == "" {
			return invalid("ingredients", "line %d needs a name", i+1)
		}
		if line.Quantity != nil {
			if err := positive("ingredients", *line.Quantity); err != nil {
				return invalid("ingredients", "line %d quantity must be greater than 0", i+1)
			}
		}
	}
	return requireText("instructions", instructions)
}

func validSettings(theme, landingPage string) error {
	if !slices.Contains(model.Themes, theme) {
		return invalid("theme", "must be one of: %s", strings.Join(model.Themes, ", "))
	}
	if !slices.Contains(model.LandingPages, landingPage) {
		return invalid("landing_page", "must be one of: %s", strings.Join(model.LandingPages, ", "))
	}
	return nil
}

func validUnits(system string) (units.System, error) {
	s, err := units.ParseSystem(system)
	if err != nil {
		return "", invalid("units", "must be metric or imperial")
	}
	return s, nil
}
