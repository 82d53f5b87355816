package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	domain "rollcall/internal/domain/export"
)

func sampleSheet(n int) domain.Sheet {
	s := domain.Sheet{Section: "7B", Subject: "Maths", Date: "2026-10-14"}
	for i := 1; i <= n; i++ {
		st := "Present"
		if i%4 == 0 {
			st = "Absent"
			s.Absent++
		} else {
			s.Present++
		}
		s.Rows = append(s.Rows, domain.Row{Roll: i, Name: fmt.Sprintf("Student %d", i), Status: st})
	}
	return s
}

// TestCSVWriter tests the header, row order, and absence of a summary record.
func TestCSVWriter(t *testing.T) {
	s := domain.Sheet{
		Rows: []domain.Row{
			{Roll: 1, Name: "Student 1", Status: "Present"},
			{Roll: 2, Name: "O'Neil, Sam", Status: "Absent"},
		},
		Present: 1,
		Absent:  1,
	}
	var buf bytes.Buffer
	if err := NewCSVWriter().Write(&buf, s); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "Roll,Name,Status\n1,Student 1,Present\n2,\"O'Neil, Sam\",Absent\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

// TestPDFWriter tests the document structure of an uncompressed export.
func TestPDFWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (PDFWriter{Compress: false}).Write(&buf, sampleSheet(80)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-") {
		t.Fatalf("missing PDF header: %q", out[:min(len(out), 16)])
	}
	for _, want := range []string{"Attendance Sheet", "Section: 7B", "Subject: Maths", "Date: 2026-10-14", "Roll No.", "Page 1 of ", "Attendance Summary: 60 Present  &  20 Absent"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if strings.Contains(out, pdfPageAlias) {
		t.Error("page count alias was not replaced")
	}
}

// TestPDFWriter_Compressed tests the default writer produces a valid document.
func TestPDFWriter_Compressed(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPDFWriter().Write(&buf, sampleSheet(3)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) || !bytes.Contains(buf.Bytes(), []byte("%%EOF")) {
		t.Error("expected a complete PDF document")
	}
}

// TestXLSXWriter tests the worksheet contents by reading the workbook back.
func TestXLSXWriter(t *testing.T) {
	s := sampleSheet(4)
	var buf bytes.Buffer
	if err := NewXLSXWriter().Write(&buf, s); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("expected 7 rows, got %d: %v", len(rows), rows)
	}
	if strings.Join(rows[0], ",") != "Roll,Name,Status" {
		t.Errorf("header = %v", rows[0])
	}
	if strings.Join(rows[4], ",") != "4,Student 4,Absent" {
		t.Errorf("row 4 = %v", rows[4])
	}
	if rows[6][0] != "Attendance Summary: 3 Present  &  1 Absent" {
		t.Errorf("summary = %v", rows[6])
	}
}

// TestFormats tests each writer reports its format.
func TestFormats(t *testing.T) {
	tests := map[string]interface{ Format() string }{
		domain.FormatCSV:  NewCSVWriter(),
		domain.FormatPDF:  NewPDFWriter(),
		domain.FormatXLSX: NewXLSXWriter(),
	}
	for want, w := range tests {
		if w.Format() != want {
			t.Errorf("got %s, want %s", w.Format(), want)
		}
	}
}
