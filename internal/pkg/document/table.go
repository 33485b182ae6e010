package document

const (
	rowHeight    = 6.0
	headerHeight = 7.0
)

// WriteTablePDF lays each sheet out as a titled table. Wide tables switch to landscape
// and the header row repeats on every page.
func WriteTablePDF(r Report, opts PDFOptions) ([]byte, error) {
	for _, s := range r.Sheets {
		if len(s.Columns) > 8 {
			opts.Landscape = true
		}
	}
	p := NewPDF(opts)
	p.SetTitle(r.Title, true)
	p.AliasNbPages("")
	p.SetFooterFunc(func() {
		p.SetY(-12)
		p.Font("I", 8)
		p.CellFormat(0, 5, p.tr("Generated on "+r.GeneratedAt.Format("02/01/2006 15:04")), "", 0, "L", false, 0, "")
		p.SetX(pageMargin)
		p.CellFormat(0, 5, p.tr(pageLabel(p.PageNo())), "", 0, "R", false, 0, "")
	})
	p.AddPage()

	p.Font("B", 18)
	p.CellFormat(0, 10, p.tr(r.Title), "", 1, "C", false, 0, "")
	if r.Subtitle != "" {
		p.Font("", 11)
		p.CellFormat(0, 6, p.tr(r.Subtitle), "", 1, "C", false, 0, "")
	}
	p.Ln(4)

	for i, sheet := range r.Sheets {
		if i > 0 {
			p.Ln(6)
		}
		if len(r.Sheets) > 1 {
			p.Font("B", 12)
			p.CellFormat(0, 8, p.tr(sheet.Name), "", 1, "L", false, 0, "")
		}
		writeTable(p, sheet)
	}

	if err := p.Error(); err != nil {
		return nil, err
	}
	return p.Bytes()
}

func pageLabel(n int) string {
	return "Page " + Text(n) + " of {nb}"
}

func writeTable(p *PDF, sheet Sheet) {
	widths := scaledWidths(sheet.Columns, p.ContentWidth())
	_, pageH := p.GetPageSize()

	header := func() {
		p.Font("B", 9)
		p.SetFillColor(224, 224, 224)
		for i, c := range sheet.Columns {
			p.Box(widths[i], headerHeight, c.Header, "L", true, "1")
		}
		p.Ln(-1)
	}
	header()

	p.Font("", 8)
	for _, row := range sheet.Rows {
		if p.GetY()+rowHeight > pageH-pageMargin-10 {
			p.AddPage()
			header()
			p.Font("", 8)
		}
		for i := range sheet.Columns {
			var v interface{}
			if i < len(row) {
				v = row[i]
			}
			align := "L"
			if sheet.Columns[i].Money {
				align = "R"
			}
			p.Box(widths[i], rowHeight, Text(v), align, false, "B")
		}
		p.Ln(-1)
	}
}

// scaledWidths spreads total across columns in proportion to their widths.
func scaledWidths(cols []Column, total float64) []float64 {
	sum := 0.0
	for _, c := range cols {
		sum += columnWidth(c)
	}
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = total * columnWidth(c) / sum
	}
	return out
}

func columnWidth(c Column) float64 {
	if c.Width > 0 {
		return c.Width
	}
	return 12
}
