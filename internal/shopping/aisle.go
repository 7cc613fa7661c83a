// Package shopping groups shopping-list items by store aisle.
package shopping

import (
	"strings"

	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/units"
)

type Aisle string

const (
	AisleProduce   Aisle = "Produce"
	AisleDairy     Aisle = "Dairy & Eggs"
	AisleMeat      Aisle = "Meat & Seafood"
	AisleBakery    Aisle = "Bakery"
	AislePantry    Aisle = "Pantry Staples"
	AisleSpices    Aisle = "Spices & Baking"
	AisleFrozen    Aisle = "Frozen"
	AisleBeverages Aisle = "Beverages"
	AisleOther     Aisle = "Other"
)

// Aisles is the walking order used when grouping.
var Aisles = []Aisle{
	AisleProduce, AisleBakery, AisleMeat, AisleDairy, AislePantry,
	AisleSpices, AisleFrozen, AisleBeverages, AisleOther,
}

// keywords maps a singular word to its aisle. Multi-word keys are matched
// as phrases before single words.
var keywords = map[string]Aisle{
	"apple": AisleProduce, "banana": AisleProduce, "lemon": AisleProduce, "lime": AisleProduce,
	"orange": AisleProduce, "berry": AisleProduce, "grape": AisleProduce, "avocado": AisleProduce,
	"tomato": AisleProduce, "potato": AisleProduce, "onion": AisleProduce, "garlic": AisleProduce,
	"carrot": AisleProduce, "celery": AisleProduce, "lettuce": AisleProduce, "spinach": AisleProduce,
	"kale": AisleProduce, "pepper": AisleProduce, "cucumber": AisleProduce, "zucchini": AisleProduce,
	"mushroom": AisleProduce, "broccoli": AisleProduce, "cilantro": AisleProduce, "parsley": AisleProduce,
	"basil": AisleProduce, "ginger": AisleProduce, "scallion": AisleProduce, "herb": AisleProduce,

	"milk": AisleDairy, "cheese": AisleDairy, "butter": AisleDairy, "yogurt": AisleDairy,
	"cream": AisleDairy, "egg": AisleDairy, "parmesan": AisleDairy, "mozzarella": AisleDairy,
	"cheddar": AisleDairy, "sour cream": AisleDairy,

	"chicken": AisleMeat, "beef": AisleMeat, "pork": AisleMeat, "bacon": AisleMeat,
	"sausage": AisleMeat, "turkey": AisleMeat, "lamb": AisleMeat, "ham": AisleMeat,
	"salmon": AisleMeat, "tuna": AisleMeat, "shrimp": AisleMeat, "fish": AisleMeat,
	"ground beef": AisleMeat,

	"bread": AisleBakery, "bagel": AisleBakery, "bun": AisleBakery, "roll": AisleBakery,
	"tortilla": AisleBakery, "croissant": AisleBakery, "pita": AisleBakery,

	"rice": AislePantry, "pasta": AislePantry, "spaghetti": AislePantry, "noodle": AislePantry,
	"bean": AislePantry, "lentil": AislePantry, "oat": AislePantry, "cereal": AislePantry,
	"oil": AislePantry, "vinegar": AislePantry, "sauce": AislePantry, "stock": AislePantry,
	"broth": AislePantry, "honey": AislePantry, "jam": AislePantry, "peanut butter": AislePantry,
	"olive oil": AislePantry, "soy sauce": AislePantry, "canned": AislePantry,

	"flour": AisleSpices, "sugar": AisleSpices, "salt": AisleSpices, "yeast": AisleSpices,
	"cinnamon": AisleSpices, "cumin": AisleSpices, "paprika": AisleSpices, "oregano": AisleSpices,
	"vanilla": AisleSpices, "baking soda": AisleSpices, "baking powder": AisleSpices,
	"black pepper": AisleSpices, "chocolate chip": AisleSpices,

	"frozen": AisleFrozen, "ice cream": AisleFrozen, "pea": AisleFrozen,

	"water": AisleBeverages, "juice": AisleBeverages, "coffee": AisleBeverages, "tea": AisleBeverages,
	"soda": AisleBeverages, "wine": AisleBeverages, "beer": AisleBeverages,
}

// singular strips common English plural endings.
func singular(w string) string {
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "oes") && len(w) > 4:
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ss"):
		return w
	case strings.HasSuffix(w, "s") && len(w) > 3:
		return w[:len(w)-1]
	}
	return w
}

// Categorize picks an aisle for an item name. Known two-word phrases win,
// then a leading "frozen", then the last known word ("chicken stock" is
// stock). Unknown names land in Other.
func Categorize(name string) Aisle {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})
	for i := range words {
		words[i] = singular(words[i])
	}

	for i := 0; i+1 < len(words); i++ {
		if a, ok := keywords[words[i]+" "+words[i+1]]; ok {
			return a
		}
	}
	if len(words) > 0 && words[0] == "frozen" {
		return AisleFrozen
	}
	for i := len(words) - 1; i >= 0; i-- {
		if a, ok := keywords[words[i]]; ok {
			return a
		}
	}
	return AisleOther
}

// Section is one aisle's worth of items.
type Section struct {
	Aisle Aisle                `json:"aisle"`
	Items []model.ShoppingItem `json:"items"`
}

// Group buckets unchecked items by aisle in walking order, skipping empty
// aisles. Checked items come back separately, in their original order.
func Group(items []model.ShoppingItem) (sections []Section, checked []model.ShoppingItem) {
	byAisle := make(map[Aisle][]model.ShoppingItem)
	for _, it := range items {
		if it.Checked {
			checked = append(checked, it)
			continue
		}
		a := Categorize(it.Name)
		byAisle[a] = append(byAisle[a], it)
	}
	for _, a := range Aisles {
		if len(byAisle[a]) > 0 {
			sections = append(sections, Section{Aisle: a, Items: byAisle[a]})
		}
	}
	return sections, checked
}

// Display converts an item's quantity for viewing. Items without a quantity
// come back unchanged.
func Display(item model.ShoppingItem, target units.System) model.ShoppingItem {
	if item.Quantity == nil || target == "" {
		return item
	}
	q, u := units.Convert(*item.Quantity, item.Unit, target)
	item.Quantity, item.Unit = &q, u
	return item
}
