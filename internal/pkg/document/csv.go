package document

import (
	"bytes"
	"encoding/csv"
)

// WriteCSV writes each sheet as a header row plus data rows. With more than one sheet
// every table is preceded by a row holding the sheet name and followed by a blank line.
func WriteCSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	multi := len(r.Sheets) > 1

	for i, sheet := range r.Sheets {
		if multi {
			if i > 0 {
				buf.WriteString("\n")
			}
			if err := w.Write([]string{sheet.Name}); err != nil {
				return nil, err
			}
		}
		header := make([]string, len(sheet.Columns))
		for j, c := range sheet.Columns {
			header[j] = c.Header
		}
		if err := w.Write(header); err != nil {
			return nil, err
		}
		for _, row := range sheet.Rows {
			record := make([]string, len(row))
			for j, v := range row {
				record[j] = Text(v)
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
		w.Flush()
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
