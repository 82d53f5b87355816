package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Format constants for export file format.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Domain errors.
var (
	ErrFormatUnavailable = errors.New("export format is not available")
	ErrEmptySheet        = errors.New("sheet has no rows")
)

// Title is the heading printed on formatted exports.
const Title = "Attendance Sheet"

// Row is one student's line in an export.
type Row struct {
	Roll   int
	Name   string
	Status string
}

// Sheet is the read-only snapshot handed to format writers.
type Sheet struct {
	Section string
	Subject string
	Date    string
	Rows    []Row
	Present int
	Absent  int
}

// Validate checks the sheet can be written.
// INVARIANT: Present + Absent == len(Rows)
func (s Sheet) Validate() error {
	if len(s.Rows) == 0 {
		return ErrEmptySheet
	}
	if s.Present+s.Absent != len(s.Rows) {
		return fmt.Errorf("summary %d+%d does not match %d rows", s.Present, s.Absent, len(s.Rows))
	}
	return nil
}

// Summary is the trailing line printed under formatted exports.
func (s Sheet) Summary() string {
	return fmt.Sprintf("Attendance Summary: %d Present  &  %d Absent", s.Present, s.Absent)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Filename builds attendance_<section>_<date>_<unixmillis>.<ext>.
// The section is reduced to [A-Za-z0-9_-] so it is safe in a header value.
func Filename(section, date, format string, at time.Time) string {
	sec := strings.Trim(unsafeChars.ReplaceAllString(section, "-"), "-")
	return fmt.Sprintf("attendance_%s_%s_%d.%s", sec, date, at.UnixMilli(), format)
}
