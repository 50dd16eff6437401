package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/zeebo/errs"
)

const (
	// DefaultPDFFileName is used when the caller does not name the export.
	DefaultPDFFileName = "rapport_paiement.pdf"

	// DefaultTitle is the title of batch reports.
	DefaultTitle = "Rapport d'exécution de paiements"

	pageWidth    = 210.0
	pageMargin   = 10.0
	cellHeight   = 8.0
	titleSize    = 16
	subtitleSize = 11
	tableSize    = 9
	tableFamily  = "Helvetica"
)

// Subtitle summarizes the counts and total amount of a batch.
func Subtitle(c Counts) string {
	return fmt.Sprintf("Réussis: %d | Échecs: %d | Total: %s FCFA", c.Success, c.Failed, c.SuccessAmount.StringFixed(0))
}

// WritePDF renders the rows as a single table under a title and an optional
// subtitle. DefaultColumns is used when cols is empty.
func WritePDF(w io.Writer, rows []Row, cols []Column, title, subtitle string) error {
	cols = columnsOrDefault(cols)
	if title == "" {
		title = DefaultTitle
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(tableFamily, "B", titleSize)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	if subtitle != "" {
		pdf.SetFont(tableFamily, "", subtitleSize)
		pdf.CellFormat(0, 8, tr(subtitle), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	width := (pageWidth - 2*pageMargin) / float64(len(cols))

	pdf.SetFont(tableFamily, "B", tableSize)
	pdf.SetFillColor(230, 230, 230)
	for _, header := range headers(cols) {
		pdf.CellFormat(width, cellHeight, tr(header), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(tableFamily, "", tableSize)
	for _, row := range rows {
		for _, value := range values(cols, row) {
			pdf.CellFormat(width, cellHeight, tr(truncate(pdf, value, width)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return errs.Wrap(err)
	}
	return errs.Wrap(pdf.Output(w))
}

// truncate shortens s so it fits in a cell of the given width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	const ellipsis = "..."
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+ellipsis) > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}
