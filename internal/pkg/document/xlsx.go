package document

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// numFmt 4 is the built-in "#,##0.00".
const moneyNumFmt = 4

// WriteXLSX writes one worksheet per sheet with a bold shaded header row frozen at
// the top. Money columns are stored as numbers.
func WriteXLSX(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	for i, sheet := range r.Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, err
		}
		if err := writeSheet(f, sheet, headerStyle, moneyStyle); err != nil {
			return nil, fmt.Errorf("failed to write sheet %s: %w", sheet.Name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle, moneyStyle int) error {
	header := make([]interface{}, len(sheet.Columns))
	for i, c := range sheet.Columns {
		header[i] = c.Header
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return err
	}
	if len(sheet.Columns) == 0 {
		return nil
	}

	lastCol, err := excelize.ColumnNumberToName(len(sheet.Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet.Name, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, row := range sheet.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, cell, &cells); err != nil {
			return err
		}
	}

	for i, c := range sheet.Columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if c.Width > 0 {
			if err := f.SetColWidth(sheet.Name, col, col, c.Width); err != nil {
				return err
			}
		}
		if c.Money && len(sheet.Rows) > 0 {
			if err := f.SetCellStyle(sheet.Name, col+"2", fmt.Sprintf("%s%d", col, len(sheet.Rows)+1), moneyStyle); err != nil {
				return err
			}
		}
	}

	return f.SetPanes(sheet.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func cellValue(v interface{}) interface{} {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case time.Time, bool, nil:
		return Text(x)
	}
	return v
}
