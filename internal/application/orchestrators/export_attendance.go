package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"rollcall/internal/domain/export"
)

// SheetWriter renders a sheet in one file format.
type SheetWriter interface {
	Format() string
	ContentType() string
	Write(w io.Writer, s export.Sheet) error
}

// ExportAttendanceInput carries input for the export orchestrator.
type ExportAttendanceInput struct {
	Format string
	Sheet  export.Sheet
}

// ExportAttendanceDeps holds dependencies for ExportAttendance.
type ExportAttendanceDeps struct {
	Writers []SheetWriter
	Now     func() time.Time // injectable for testing
}

// ExportResult is a fully rendered export file.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// UnavailableMessage is the notice shown when format cannot be exported.
func UnavailableMessage(format string) string {
	return strings.ToUpper(format) + " export is not available."
}

// ExecuteExportAttendance renders the sheet in the requested format.
// PRE: Sheet was built from the full roster
// POST: on success Body holds the complete file; on error nothing is returned
// INVARIANT: the sheet is read, never modified
func ExecuteExportAttendance(ctx context.Context, input ExportAttendanceInput, deps ExportAttendanceDeps) (ExportResult, error) {
	format := strings.ToLower(strings.TrimSpace(input.Format))

	var writer SheetWriter
	for _, w := range deps.Writers {
		if w.Format() == format {
			writer = w
			break
		}
	}
	if writer == nil {
		return ExportResult{}, fmt.Errorf("%s: %w", format, export.ErrFormatUnavailable)
	}
	if err := input.Sheet.Validate(); err != nil {
		return ExportResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return ExportResult{}, err
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf, input.Sheet); err != nil {
		return ExportResult{}, fmt.Errorf("render %s: %w", format, err)
	}

	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	result := ExportResult{
		Filename:    export.Filename(input.Sheet.Section, input.Sheet.Date, format, now),
		ContentType: writer.ContentType(),
		Body:        buf.Bytes(),
	}
	slog.Info("export_event", "event", "attendance_exported", "format", format, "rows", len(input.Sheet.Rows), "bytes", len(result.Body))
	return result, nil
}
