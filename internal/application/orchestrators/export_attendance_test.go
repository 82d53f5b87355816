package orchestrators

import (
	"context"
	"errors"
	"testing"

	"rollcall/internal/domain/export"
)

func testSheet() export.Sheet {
	return export.Sheet{
		Section: "7B",
		Subject: "Maths",
		Date:    "2026-10-14",
		Rows: []export.Row{
			{Roll: 1, Name: "Student 1", Status: "Present"},
			{Roll: 2, Name: "Student 2", Status: "Absent"},
			{Roll: 3, Name: "Student 3", Status: "Present"},
		},
		Present: 2,
		Absent:  1,
	}
}

// TestExecuteExportAttendance_Success tests a rendered file and its filename.
func TestExecuteExportAttendance_Success(t *testing.T) {
	deps := ExportAttendanceDeps{Writers: []SheetWriter{stubWriter{format: "csv"}}, Now: fixedNow}
	res, err := ExecuteExportAttendance(context.Background(), ExportAttendanceInput{Format: "CSV", Sheet: testSheet()}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "attendance_7B_2026-10-14_1791970200000.csv"; res.Filename != want {
		t.Errorf("filename = %s, want %s", res.Filename, want)
	}
	if string(res.Body) != "1 Present\n2 Absent\n3 Present\n" {
		t.Errorf("unexpected body %q", res.Body)
	}
	if res.ContentType != "text/plain" {
		t.Errorf("content type = %s", res.ContentType)
	}
}

// TestExecuteExportAttendance_Unavailable tests the missing-format path.
func TestExecuteExportAttendance_Unavailable(t *testing.T) {
	deps := ExportAttendanceDeps{Writers: []SheetWriter{stubWriter{format: "csv"}}, Now: fixedNow}
	_, err := ExecuteExportAttendance(context.Background(), ExportAttendanceInput{Format: "pdf", Sheet: testSheet()}, deps)
	if !errors.Is(err, export.ErrFormatUnavailable) {
		t.Fatalf("expected ErrFormatUnavailable, got %v", err)
	}
	if got := UnavailableMessage("pdf"); got != "PDF export is not available." {
		t.Errorf("message = %q", got)
	}
}

// TestExecuteExportAttendance_WriterFails tests that no partial file is returned.
func TestExecuteExportAttendance_WriterFails(t *testing.T) {
	deps := ExportAttendanceDeps{Writers: []SheetWriter{stubWriter{format: "csv", err: errStorage}}, Now: fixedNow}
	res, err := ExecuteExportAttendance(context.Background(), ExportAttendanceInput{Format: "csv", Sheet: testSheet()}, deps)
	if !errors.Is(err, errStorage) {
		t.Fatalf("expected writer error, got %v", err)
	}
	if res.Body != nil || res.Filename != "" {
		t.Errorf("expected empty result, got %+v", res)
	}
}

// TestExecuteExportAttendance_InvalidSheet tests sheet validation.
func TestExecuteExportAttendance_InvalidSheet(t *testing.T) {
	deps := ExportAttendanceDeps{Writers: []SheetWriter{stubWriter{format: "csv"}}}
	_, err := ExecuteExportAttendance(context.Background(), ExportAttendanceInput{Format: "csv", Sheet: export.Sheet{}}, deps)
	if !errors.Is(err, export.ErrEmptySheet) {
		t.Errorf("expected ErrEmptySheet, got %v", err)
	}
}
