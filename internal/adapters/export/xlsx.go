package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	domain "rollcall/internal/domain/export"
)

// SheetName is the worksheet holding the attendance table.
const SheetName = "Attendance"

// XLSXWriter renders a sheet as a single-worksheet workbook.
type XLSXWriter struct{}

// NewXLSXWriter creates an XLSX writer.
func NewXLSXWriter() XLSXWriter { return XLSXWriter{} }

// Format implements orchestrators.SheetWriter.
func (XLSXWriter) Format() string { return domain.FormatXLSX }

// ContentType implements orchestrators.SheetWriter.
func (XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write emits a bold Roll,Name,Status header, one row per student, a blank
// row, and the summary line.
// PRE: s is valid
func (XLSXWriter) Write(w io.Writer, s domain.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &[]any{"Roll", "Name", "Status"}); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "C1", bold); err != nil {
		return err
	}

	for i, r := range s.Rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(SheetName, cell, &[]any{r.Roll, r.Name, r.Status}); err != nil {
			return err
		}
	}

	summaryCell := fmt.Sprintf("A%d", len(s.Rows)+3)
	if err := f.SetCellValue(SheetName, summaryCell, s.Summary()); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, summaryCell, summaryCell, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 24); err != nil {
		return err
	}
	return f.Write(w)
}
