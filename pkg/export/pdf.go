package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth = 277.0
	pdfMinCol    = 14.0
)

// Core PDF fonts are cp1252; the rupee sign is spelled out.
var pdfReplacer = strings.NewReplacer("₹", "Rs. ", "—", "-")

// PDFExporter renders datasets into a landscape table.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF with an optional title, a header row repeated per page and the footer.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(pdfReplacer.Replace(s)) }

	widths := columnWidths(data)
	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(243, 244, 246)
		for i, h := range data.Headers {
			pdf.CellFormat(widths[i], 7, text(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	if data.Title != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, text(data.Title), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}
	header()

	for _, row := range data.Rows {
		for i, value := range data.record(row) {
			pdf.CellFormat(widths[i], 6, text(truncate(value, widths[i])), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(data.Footer) > 0 {
		pdf.SetFont("Arial", "B", 8)
		for i, value := range data.record(data.Footer) {
			pdf.CellFormat(widths[i], 7, text(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths shares the page width in proportion to the longest value per column.
func columnWidths(data Dataset) []float64 {
	longest := make([]int, len(data.Headers))
	for i, h := range data.Headers {
		longest[i] = len(h)
	}
	for _, row := range data.Rows {
		for i, v := range data.record(row) {
			if n := len(v); n > longest[i] {
				longest[i] = n
			}
		}
	}
	total := 0
	for _, n := range longest {
		total += n
	}
	widths := make([]float64, len(longest))
	for i, n := range longest {
		w := pdfPageWidth / float64(len(longest))
		if total > 0 {
			w = pdfPageWidth * float64(n) / float64(total)
		}
		if w < pdfMinCol {
			w = pdfMinCol
		}
		widths[i] = w
	}
	return widths
}

func truncate(value string, width float64) string {
	limit := int(width / 1.6)
	runes := []rune(value)
	if limit < 4 || len(runes) <= limit {
		return value
	}
	return string(runes[:limit-3]) + "..."
}
