// Package document writes tabular reports as xlsx workbooks, CSV or PDF.
package document

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

var Formats = []string{"xlsx", "csv", "pdf"}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Column describes one table column. Width is in spreadsheet character units and is
// scaled to the page for PDF output.
type Column struct {
	Header string
	Width  float64
	Money  bool
}

// Sheet is one named table. Cells hold string, int, float64, bool, decimal.Decimal
// or time.Time values.
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]interface{}
}

// Report is what every writer consumes.
type Report struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Sheets      []Sheet
}

// Render dispatches to the writer for format.
func Render(format Format, r Report) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return WriteXLSX(r)
	case FormatCSV:
		return WriteCSV(r)
	case FormatPDF:
		return WriteTablePDF(r, PDFOptions{Compress: true})
	}
	return nil, fmt.Errorf("unsupported document format %q", format)
}

// Text formats a cell for CSV and PDF.
func Text(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case decimal.Decimal:
		return x.StringFixed(2)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("02/01/2006")
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
