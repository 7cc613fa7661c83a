package model

import (
	"encoding/json"
	"strings"
	"time"
)

type Recipe struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	ImagePath    string    `json:"image_path"`
	IsPublic     bool      `json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
	Author       string    `json:"author,omitempty"`
}

// Steps splits the instructions into non-blank lines.
func (r Recipe) Steps() []string {
	var steps []string
	for _, line := range strings.Split(r.Instructions, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}

// IngredientLine is one entry of a structured ingredient list.
type IngredientLine struct {
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
	Name     string   `json:"name"`
}

// RecipeIngredient is a persisted IngredientLine.
type RecipeIngredient struct {
	ID         int64    `json:"id"`
	RecipeID   int64    `json:"recipe_id"`
	Quantity   *float64 `json:"quantity"`
	Unit       string   `json:"unit"`
	Name       string   `json:"name"`
	OrderIndex int      `json:"order_index"`
}

// Ingredients is either a structured list or a legacy free-text blob.
// Exactly one of Lines and Text is meaningful; Lines wins when non-nil.
type Ingredients struct {
	Lines []IngredientLine
	Text  string
}

func StructuredIngredients(lines []IngredientLine) Ingredients {
	if lines == nil {
		lines = []IngredientLine{}
	}
	return Ingredients{Lines: lines}
}

func LegacyIngredients(text string) Ingredients {
	return Ingredients{Text: text}
}

func (i Ingredients) IsStructured() bool {
	return i.Lines != nil
}

func (i Ingredients) IsEmpty() bool {
	if i.IsStructured() {
		return len(i.Lines) == 0
	}
	return strings.TrimSpace(i.Text) == ""
}

// Serialize returns the inline column value: JSON for structured lists,
// the raw text otherwise.
func (i Ingredients) Serialize() (string, error) {
	if !i.IsStructured() {
		return i.Text, nil
	}
	b, err := json.Marshal(i.Lines)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseIngredients reads the inline column. Anything that isn't a JSON
// list of lines is treated as legacy text and left as-is.
func ParseIngredients(raw string) Ingredients {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		var lines []IngredientLine
		if err := json.Unmarshal([]byte(trimmed), &lines); err == nil {
			return StructuredIngredients(lines)
		}
	}
	return LegacyIngredients(raw)
}

// MarshalJSON emits the list for structured ingredients and the string
// for legacy ones.
func (i Ingredients) MarshalJSON() ([]byte, error) {
	if i.IsStructured() {
		return json.Marshal(i.Lines)
	}
	return json.Marshal(i.Text)
}

func (i *Ingredients) UnmarshalJSON(b []byte) error {
	var lines []IngredientLine
	if err := json.Unmarshal(b, &lines); err == nil {
		*i = StructuredIngredients(lines)
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return err
	}
	*i = LegacyIngredients(text)
	return nil
}
