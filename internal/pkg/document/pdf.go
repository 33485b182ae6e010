package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily = "Helvetica"
	pageMargin = 15.0
)

type PDFOptions struct {
	Landscape bool
	// Compress deflates page streams. Tests turn it off to inspect the text.
	Compress bool
	// CreatedAt pins the document metadata date.
	CreatedAt time.Time
}

// PDF is an A4 gofpdf document using the core Helvetica fonts. Text is translated to
// cp1252 so Latin-1 names keep their accents.
type PDF struct {
	*gofpdf.Fpdf
	tr func(string) string
}

func NewPDF(opts PDFOptions) *PDF {
	orientation := "P"
	if opts.Landscape {
		orientation = "L"
	}
	f := gofpdf.New(orientation, "mm", "A4", "")
	f.SetCompression(opts.Compress)
	f.SetMargins(pageMargin, pageMargin, pageMargin)
	f.SetAutoPageBreak(true, pageMargin)
	if !opts.CreatedAt.IsZero() {
		f.SetCreationDate(opts.CreatedAt)
		f.SetModificationDate(opts.CreatedAt)
	}
	return &PDF{Fpdf: f, tr: f.UnicodeTranslatorFromDescriptor("")}
}

// Font sets Helvetica in style ("", "B", "I") at size points.
func (p *PDF) Font(style string, size float64) {
	p.SetFont(fontFamily, style, size)
}

// Width measures s in the current font after translation.
func (p *PDF) Width(s string) float64 {
	return p.GetStringWidth(p.tr(s))
}

// TextAt writes s with its left edge at x.
func (p *PDF) TextAt(x, y, h float64, s string) {
	p.SetXY(x, y)
	p.CellFormat(0, h, p.tr(s), "", 0, "L", false, 0, "")
}

// TextRight writes s so that it ends at right.
func (p *PDF) TextRight(right, y, h float64, s string) {
	w := p.Width(s)
	p.SetXY(right-w-2*p.GetCellMargin(), y)
	p.CellFormat(w+2*p.GetCellMargin(), h, p.tr(s), "", 0, "R", false, 0, "")
}

// Box writes s in a cell of width w. align is "L", "C" or "R"; text that does not fit
// is cut with an ellipsis.
func (p *PDF) Box(w, h float64, s, align string, fill bool, border string) {
	p.CellFormat(w, h, p.tr(p.fit(s, w)), border, 0, align, fill, 0, "")
}

func (p *PDF) fit(s string, w float64) string {
	limit := w - 2*p.GetCellMargin()
	if p.Width(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && p.Width(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Shade fills a rectangle with a grey level in 0..255.
func (p *PDF) Shade(x, y, w, h float64, grey int) {
	p.SetFillColor(grey, grey, grey)
	p.Rect(x, y, w, h, "F")
}

// Rule draws a horizontal line across the content width at y.
func (p *PDF) Rule(y float64) {
	left, _, right, _ := p.GetMargins()
	pageW, _ := p.GetPageSize()
	p.Line(left, y, pageW-right, y)
}

// ContentWidth is the page width between the margins.
func (p *PDF) ContentWidth() float64 {
	left, _, right, _ := p.GetMargins()
	pageW, _ := p.GetPageSize()
	return pageW - left - right
}

func (p *PDF) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
