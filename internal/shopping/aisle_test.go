package shopping

import (
	"testing"

	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/units"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		input string
		want  Aisle
	}{
		{"milk", AisleDairy},
		{"Eggs", AisleDairy},
		{"chicken breast", AisleMeat},
		{"boneless chicken thighs", AisleMeat},
		{"whole wheat bread", AisleBakery},
		{"canned black beans", AislePantry},
		{"chicken stock", AislePantry},
		{"peanut butter", AislePantry},
		{"black pepper", AisleSpices},
		{"red peppers", AisleProduce},
		{"Cherry Tomatoes", AisleProduce},
		{"berries", AisleProduce},
		{"frozen pizza", AisleFrozen},
		{"ICE CREAM", AisleFrozen},
		{"sparkling water bottles", AisleBeverages},
		{"greek yogurt cups", AisleDairy},
		{"chocolate chips", AisleSpices},
		{"hamburger buns", AisleBakery},
		{"dish soap", AisleOther},
		{"", AisleOther},
	}
	for _, tt := range tests {
		got := Categorize(tt.input)
		if got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGroup(t *testing.T) {
	items := []model.ShoppingItem{
		{ID: 1, Name: "Milk"},
		{ID: 2, Name: "Apples"},
		{ID: 3, Name: "Bread", Checked: true},
		{ID: 4, Name: "Cheddar"},
		{ID: 5, Name: "Batteries"},
	}

	sections, checked := Group(items)

	wantAisles := []Aisle{AisleProduce, AisleDairy, AisleOther}
	if len(sections) != len(wantAisles) {
		t.Fatalf("got %d sections, want %d", len(sections), len(wantAisles))
	}
	for i, a := range wantAisles {
		if sections[i].Aisle != a {
			t.Errorf("section[%d] = %q, want %q", i, sections[i].Aisle, a)
		}
	}
	if len(sections[1].Items) != 2 || sections[1].Items[0].ID != 1 || sections[1].Items[1].ID != 4 {
		t.Errorf("dairy items = %+v", sections[1].Items)
	}
	if len(checked) != 1 || checked[0].ID != 3 {
		t.Errorf("checked = %+v", checked)
	}
}

func TestDisplay(t *testing.T) {
	q := 2.0
	it := model.ShoppingItem{Name: "Milk", Quantity: &q, Unit: "cups"}

	got := Display(it, units.Metric)
	if got.Unit != units.Milliliter || *got.Quantity != 473.2 {
		t.Errorf("display = %v %q, want 473.2 ml", *got.Quantity, got.Unit)
	}
	if *it.Quantity != 2 || it.Unit != "cups" {
		t.Error("Display changed the original item")
	}

	loose := model.ShoppingItem{Name: "Basil"}
	if got := Display(loose, units.Metric); got.Quantity != nil {
		t.Error("quantity appeared from nowhere")
	}
}
