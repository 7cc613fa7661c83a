// Package export renders a user's data for download: a printable recipe
// card and a JSON archive.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/dukerupert/recipebox/internal/model"
)

const qrSize = 256

// CardIngredient formats one line as "2 cups flour".
func CardIngredient(ing model.RecipeIngredient) string {
	var parts []string
	if ing.Quantity != nil {
		parts = append(parts, humanize.FtoaWithDigits(*ing.Quantity, 3))
	}
	if ing.Unit != "" {
		parts = append(parts, ing.Unit)
	}
	parts = append(parts, ing.Name)
	return strings.Join(parts, " ")
}

// RecipeCard writes an A4 PDF for r. lines are the structured ingredients,
// already converted for the reader; when empty the raw ingredient text is
// printed instead. A non-empty shareURL adds a QR code pointing at it.
func RecipeCard(w io.Writer, r model.Recipe, lines []model.RecipeIngredient, shareURL string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(r.Title, true)
	pdf.SetAuthor(r.Author, true)
	pdf.AddPage()

	textWidth := 0.0
	if shareURL != "" {
		png, err := qrcode.Encode(shareURL, qrcode.Medium, qrSize)
		if err != nil {
			return fmt.Errorf("generate qr code: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("qr", 160, 10, 40, 40, false, opts, 0, "")
		textWidth = 140
	}

	pdf.SetFont("Arial", "B", 20)
	pdf.MultiCell(textWidth, 10, tr(r.Title), "", "L", false)

	pdf.SetFont("Arial", "I", 10)
	byline := "Added " + r.CreatedAt.Format("January 2, 2006")
	if r.Author != "" {
		byline = "By " + r.Author + " - " + byline
	}
	pdf.MultiCell(textWidth, 6, tr(byline), "", "L", false)
	pdf.Ln(6)
	if y := pdf.GetY(); shareURL != "" && y < 55 {
		pdf.SetY(55)
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Ingredients")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	if len(lines) > 0 {
		for _, ing := range lines {
			pdf.MultiCell(0, 6, tr("- "+CardIngredient(ing)), "", "L", false)
		}
	} else {
		for _, line := range strings.Split(r.Ingredients, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				pdf.MultiCell(0, 6, tr("- "+line), "", "L", false)
			}
		}
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Instructions")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	for i, step := range r.Steps() {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, step)), "", "L", false)
		pdf.Ln(2)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
