package pdf

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	bottomMargin = 18.0
	lineHeight   = 6.0
	cellPadding  = 1.0
)

// Options tunes rendering. The zero value renders A4 portrait.
type Options struct {
	Landscape bool
	// CreatedAt fixes the PDF creation date, for reproducible output
	CreatedAt time.Time
}

// Render writes doc as PDF to w
func Render(doc *Document, w io.Writer, opts Options) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	r := newRenderer(doc, opts)
	r.cover()
	r.pdf.AddPage()
	for _, s := range doc.Sections {
		r.section(s)
	}

	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// RenderFile writes doc as PDF to path
func RenderFile(doc *Document, path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := Render(doc, f, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type renderer struct {
	doc *Document
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newRenderer(doc *Document, opts Options) *renderer {
	orientation := "P"
	if opts.Landscape {
		orientation = "L"
	}

	p := fpdf.New(orientation, "mm", "A4", "")
	p.SetAutoPageBreak(true, bottomMargin)
	p.SetTitle(doc.Title, true)
	if doc.Author != "" {
		p.SetAuthor(doc.Author, true)
	}
	if !opts.CreatedAt.IsZero() {
		p.SetCreationDate(opts.CreatedAt)
		p.SetModificationDate(opts.CreatedAt)
	}

	r := &renderer{doc: doc, pdf: p, tr: p.UnicodeTranslatorFromDescriptor("")}
	p.SetHeaderFunc(r.pageHeader)
	p.SetFooterFunc(r.pageFooter)
	return r
}

func (r *renderer) pageHeader() {
	if r.pdf.PageNo() == 1 {
		return
	}
	r.pdf.SetFont("Helvetica", "B", 12)
	r.pdf.SetTextColor(40, 40, 40)
	r.pdf.CellFormat(0, 10, r.tr(r.doc.header()), "", 1, "C", false, 0, "")
	r.pdf.Ln(2)
}

func (r *renderer) pageFooter() {
	if r.pdf.PageNo() == 1 {
		return
	}
	r.pdf.SetY(-15)
	r.pdf.SetFont("Helvetica", "I", 8)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", r.pdf.PageNo()), "", 0, "C", false, 0, "")
}

func (r *renderer) cover() {
	r.pdf.AddPage()
	r.pdf.SetFont("Helvetica", "B", 22)
	r.pdf.SetTextColor(30, 30, 80)
	r.pdf.Ln(60)
	r.pdf.CellFormat(0, 20, r.tr(r.doc.Title), "", 1, "C", false, 0, "")
	if r.doc.Subtitle != "" {
		r.pdf.SetFont("Helvetica", "", 14)
		r.pdf.SetTextColor(60, 60, 60)
		r.pdf.CellFormat(0, 10, r.tr(r.doc.Subtitle), "", 1, "C", false, 0, "")
	}
}

func (r *renderer) section(s Section) {
	if s.Title != "" {
		r.pdf.Ln(8)
		r.pdf.SetFont("Helvetica", "B", 13)
		r.pdf.SetTextColor(0, 70, 140)
		r.pdf.CellFormat(0, 10, r.tr(s.Title), "", 1, "L", false, 0, "")
	}
	if s.Body != "" {
		r.pdf.SetFont("Helvetica", "", 11)
		r.pdf.SetTextColor(30, 30, 30)
		r.pdf.MultiCell(0, 8, r.tr(s.Body), "", "L", false)
		r.pdf.Ln(2)
	}
	if s.Table != nil {
		r.table(s.Table)
	}
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *renderer) table(t *Table) {
	widths := r.columnWidths(t)

	r.tableHeader(t.Columns, widths)
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.SetTextColor(0, 0, 0)

	_, pageHeight := r.pdf.GetPageSize()
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		copy(cells, row)

		height := r.rowHeight(cells, widths)
		if r.pdf.GetY()+height > pageHeight-bottomMargin {
			r.pdf.AddPage()
			r.tableHeader(t.Columns, widths)
			r.pdf.SetFont("Helvetica", "", 10)
		}

		left, _, _, _ := r.pdf.GetMargins()
		y := r.pdf.GetY()
		x := left
		for i, cell := range cells {
			r.pdf.Rect(x, y, widths[i], height, "D")
			r.pdf.SetXY(x+cellPadding, y)
			r.pdf.MultiCell(widths[i]-2*cellPadding, lineHeight, r.tr(cell), "", "L", false)
			x += widths[i]
		}
		r.pdf.SetXY(left, y+height)
	}
	r.pdf.Ln(4)
}

func (r *renderer) tableHeader(columns []string, widths []float64) {
	r.pdf.SetFont("Helvetica", "B", 11)
	r.pdf.SetFillColor(220, 230, 241)
	r.pdf.SetTextColor(0, 0, 0)
	for i, col := range columns {
		r.pdf.CellFormat(widths[i], 10, r.tr(col), "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(10)
}

// rowHeight is the height of the tallest wrapped cell in the row
func (r *renderer) rowHeight(cells []string, widths []float64) float64 {
	lines := 1
	for i, cell := range cells {
		n := len(r.pdf.SplitLines([]byte(r.tr(cell)), widths[i]-2*cellPadding))
		if n > lines {
			lines = n
		}
	}
	return float64(lines) * lineHeight
}

func (r *renderer) columnWidths(t *Table) []float64 {
	if len(t.Widths) == len(t.Columns) {
		return t.Widths
	}
	pageWidth, _ := r.pdf.GetPageSize()
	left, _, right, _ := r.pdf.GetMargins()
	each := (pageWidth - left - right) / float64(len(t.Columns))

	widths := make([]float64, len(t.Columns))
	for i := range widths {
		widths[i] = each
	}
	return widths
}
