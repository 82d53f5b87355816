package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	domain "rollcall/internal/domain/export"
)

const (
	pdfMargin     = 15.0
	pdfRowHeight  = 8.0
	pdfRollWidth  = 40.0
	pdfStatusWide = 60.0
	pdfPageAlias  = "{nb}"
)

var (
	presentFill = [3]int{198, 239, 206}
	absentFill  = [3]int{255, 199, 206}
	headerFill  = [3]int{221, 221, 221}
)

// PDFWriter renders a sheet as an A4 attendance table.
type PDFWriter struct {
	Compress bool
}

// NewPDFWriter creates a PDF writer with stream compression on.
func NewPDFWriter() PDFWriter { return PDFWriter{Compress: true} }

// Format implements orchestrators.SheetWriter.
func (PDFWriter) Format() string { return domain.FormatPDF }

// ContentType implements orchestrators.SheetWriter.
func (PDFWriter) ContentType() string { return "application/pdf" }

// Write lays out the title, metadata lines, a Roll No./Status table with
// coloured status cells, a page footer, and the summary line.
// PRE: s is valid
func (p PDFWriter) Write(w io.Writer, s domain.Sheet) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(p.Compress)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AliasNbPages(pdfPageAlias)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of %s", pdf.PageNo(), pdfPageAlias), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, domain.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{"Section: " + s.Section, "Subject: " + s.Subject, "Date: " + s.Date} {
		pdf.CellFormat(0, 7, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	left := (210 - pdfRollWidth - pdfStatusWide) / 2
	tableHeader := func() {
		pdf.SetX(left)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
		pdf.CellFormat(pdfRollWidth, pdfRowHeight, "Roll No.", "1", 0, "C", true, 0, "")
		pdf.CellFormat(pdfStatusWide, pdfRowHeight, "Status", "1", 1, "C", true, 0, "")
		pdf.SetFont("Helvetica", "", 11)
	}
	tableHeader()

	_, pageHeight := pdf.GetPageSize()
	bottom := pageHeight - pdfMargin - 10
	for _, r := range s.Rows {
		if pdf.GetY()+pdfRowHeight > bottom {
			pdf.AddPage()
			tableHeader()
		}
		fill := presentFill
		if r.Status == "Absent" {
			fill = absentFill
		}
		pdf.SetX(left)
		pdf.CellFormat(pdfRollWidth, pdfRowHeight, strconv.Itoa(r.Roll), "1", 0, "C", false, 0, "")
		pdf.SetFillColor(fill[0], fill[1], fill[2])
		pdf.CellFormat(pdfStatusWide, pdfRowHeight, r.Status, "1", 1, "C", true, 0, "")
	}

	if pdf.GetY()+2*pdfRowHeight > bottom {
		pdf.AddPage()
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, pdfRowHeight, s.Summary(), "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
