package document

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() Report {
	return Report{
		Title:       "Payroll Report",
		Subtitle:    "Period: April 2024",
		GeneratedAt: time.Date(2024, 4, 30, 18, 0, 0, 0, time.UTC),
		Sheets: []Sheet{
			{
				Name: "Payroll",
				Columns: []Column{
					{Header: "Employee", Width: 20},
					{Header: "Paid On", Width: 12},
					{Header: "Net Salary", Width: 14, Money: true},
					{Header: "Late", Width: 6},
				},
				Rows: [][]interface{}{
					{"José Müller", time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), decimal.RequireFromString("45250.5"), true},
					{"Asha Rao", nil, decimal.NewFromInt(92000), false},
				},
			},
			{
				Name:    "Summary",
				Columns: []Column{{Header: "Item"}, {Header: "Amount", Money: true}},
				Rows:    [][]interface{}{{"Net Profit", decimal.NewFromInt(90000)}},
			},
		},
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "12.50", Text(decimal.RequireFromString("12.5")))
	assert.Equal(t, "7.25", Text(7.25))
	assert.Equal(t, "Yes", Text(true))
	assert.Equal(t, "No", Text(false))
	assert.Equal(t, "05/04/2024", Text(time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", Text(time.Time{}))
	assert.Equal(t, "2024", Text(2024))
}

func TestFormat_ContentType(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatXLSX.ContentType())
}

func TestWriteCSV_SeparatesSheets(t *testing.T) {
	out, err := WriteCSV(sampleReport())
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Payroll"},
		{"Employee", "Paid On", "Net Salary", "Late"},
		{"José Müller", "05/04/2024", "45250.50", "Yes"},
		{"Asha Rao", "", "92000.00", "No"},
		{"Summary"},
		{"Item", "Amount"},
		{"Net Profit", "90000.00"},
	}, rows)
}

func TestWriteCSV_SingleSheetHasNoNameRow(t *testing.T) {
	rep := sampleReport()
	rep.Sheets = rep.Sheets[:1]

	out, err := WriteCSV(rep)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "Employee,Paid On,Net Salary,Late\n"))
}

func TestWriteXLSX(t *testing.T) {
	out, err := WriteXLSX(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Payroll", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Payroll", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Employee", "Paid On", "Net Salary", "Late"}, rows[0])
	assert.Equal(t, "José Müller", rows[1][0])
	assert.Equal(t, "05/04/2024", rows[1][1])
	assert.Equal(t, "45250.5", rows[1][2])
	assert.Equal(t, "Yes", rows[1][3])

	formatted, err := f.GetCellValue("Payroll", "C3")
	require.NoError(t, err)
	assert.Equal(t, "92,000.00", formatted)

	style, err := f.GetCellStyle("Payroll", "A1")
	require.NoError(t, err)
	header, err := f.GetStyle(style)
	require.NoError(t, err)
	require.NotNil(t, header.Font)
	assert.True(t, header.Font.Bold)

	panes, err := f.GetPanes("Payroll")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestWriteTablePDF(t *testing.T) {
	out, err := WriteTablePDF(sampleReport(), PDFOptions{})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "(Payroll Report)")
	assert.Contains(t, string(out), "(Jos\xe9 M\xfcller)")
	assert.Contains(t, string(out), "(45250.50)")
	assert.Contains(t, string(out), "(Page 1 of 1)")
}

func TestWriteTablePDF_RepeatsHeaderOnNewPages(t *testing.T) {
	rep := sampleReport()
	rep.Sheets = rep.Sheets[:1]
	for i := 0; i < 120; i++ {
		rep.Sheets[0].Rows = append(rep.Sheets[0].Rows, []interface{}{"Row", nil, decimal.NewFromInt(int64(i)), false})
	}

	out, err := WriteTablePDF(rep, PDFOptions{})
	require.NoError(t, err)

	pages := strings.Count(string(out), "/Type /Page\n")
	require.Greater(t, pages, 1)
	assert.Equal(t, pages, strings.Count(string(out), "(Net Salary)"))
}

func TestRender_RejectsUnknownFormat(t *testing.T) {
	_, err := Render("docx", sampleReport())
	assert.Error(t, err)
}
