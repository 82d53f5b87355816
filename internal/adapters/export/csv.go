package export

import (
	"encoding/csv"
	"io"
	"strconv"

	domain "rollcall/internal/domain/export"
)

// CSVWriter renders a sheet as Roll,Name,Status rows.
type CSVWriter struct{}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter() CSVWriter { return CSVWriter{} }

// Format implements orchestrators.SheetWriter.
func (CSVWriter) Format() string { return domain.FormatCSV }

// ContentType implements orchestrators.SheetWriter.
func (CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }

// Write emits the header and one record per row. There is no summary record.
// PRE: s is valid
func (CSVWriter) Write(w io.Writer, s domain.Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Roll", "Name", "Status"}); err != nil {
		return err
	}
	for _, r := range s.Rows {
		if err := cw.Write([]string{strconv.Itoa(r.Roll), r.Name, r.Status}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
