package codec

import (
	"fmt"
	"io"
	"time"

	"panokit/internal/domain"
	"panokit/internal/pdf"
)

// PDFCodec exports a table as a PDF report with a cover page. Export only.
type PDFCodec struct {
	// Now stamps the cover subtitle and creation date
	Now func() time.Time
}

// NewPDFCodec creates a new PDF codec
func NewPDFCodec() *PDFCodec {
	return &PDFCodec{Now: time.Now}
}

// Format returns the codec format identifier
func (c *PDFCodec) Format() string {
	return "pdf"
}

// Extension returns the file extension
func (c *PDFCodec) Extension() string {
	return "pdf"
}

// Export renders the table in landscape so wide reports fit
func (c *PDFCodec) Export(table *domain.Table, w io.Writer) error {
	now := c.Now()
	title := table.Title
	if title == "" {
		title = table.Name
	}
	if title == "" {
		title = "Report"
	}

	doc := &pdf.Document{
		Title:    title,
		Subtitle: fmt.Sprintf("Generated %s", now.Format("2006-01-02 15:04:05")),
		Sections: []pdf.Section{{
			Title: fmt.Sprintf("%d rows", table.Len()),
			Table: &pdf.Table{Columns: table.Columns, Rows: table.Rows},
		}},
	}
	if len(table.Columns) == 0 {
		doc.Sections[0].Table = nil
	}

	return pdf.Render(doc, w, pdf.Options{Landscape: true, CreatedAt: now})
}
