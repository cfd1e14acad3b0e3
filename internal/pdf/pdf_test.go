package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
title: Generic PDF Document
subtitle: A Template for Any Structured PDF
sections:
  - title: Introduction
    body: |
      This is a generic PDF document.
      Sections hold any text.
  - title: Details
    body: Each section can carry a table.
    table:
      columns: [Item, Quantity, Price]
      widths: [40, 40, 40]
      rows:
        - [Apple, "3", "$2"]
        - [Banana, "5"]
  - title: Summary
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "Generic PDF Document", doc.Title)
	assert.Equal(t, "Generic PDF Document", doc.header(), "header defaults to title")
	require.Len(t, doc.Sections, 3)
	assert.Nil(t, doc.Sections[0].Table)
	require.NotNil(t, doc.Sections[1].Table)
	assert.Equal(t, []float64{40, 40, 40}, doc.Sections[1].Table.Widths)
	assert.Equal(t, []string{"Banana", "5"}, doc.Sections[1].Table.Rows[1])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr string
	}{
		{"ok", Document{Title: "T"}, ""},
		{"no title", Document{}, "title is required"},
		{"no columns", Document{Title: "T", Sections: []Section{{Table: &Table{}}}}, "no columns"},
		{"width count", Document{Title: "T", Sections: []Section{{Table: &Table{Columns: []string{"a", "b"}, Widths: []float64{10}}}}}, "2 columns but 1 widths"},
		{"zero width", Document{Title: "T", Sections: []Section{{Table: &Table{Columns: []string{"a"}, Widths: []float64{0}}}}}, "must be positive"},
		{"long row", Document{Title: "T", Sections: []Section{{Table: &Table{Columns: []string{"a"}, Rows: [][]string{{"1", "2"}}}}}}, "row 1 has 2 cells"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRender(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(doc, &buf, Options{CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderRejectsInvalid(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&Document{}, &buf, Options{})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestLongTableBreaksPages(t *testing.T) {
	table := &Table{Columns: []string{"name", "value"}}
	for i := 0; i < 120; i++ {
		table.Rows = append(table.Rows, []string{"object", "10.0.0.1"})
	}
	doc := &Document{Title: "Long", Sections: []Section{{Title: "Objects", Table: table}}}

	r := newRenderer(doc, Options{})
	r.cover()
	r.pdf.AddPage()
	r.section(doc.Sections[0])

	require.NoError(t, r.pdf.Error())
	assert.Greater(t, r.pdf.PageCount(), 3, "cover, first page and at least one continuation")
}

func TestColumnWidthsSplitEvenly(t *testing.T) {
	doc := &Document{Title: "T"}
	r := newRenderer(doc, Options{})

	widths := r.columnWidths(&Table{Columns: []string{"a", "b"}})
	require.Len(t, widths, 2)
	assert.Equal(t, widths[0], widths[1])
	assert.InDelta(t, 210-2*10.0, widths[0]+widths[1], 0.5, "A4 width minus default 1cm margins")
}

func TestLoadDocumentAndRenderFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(src, []byte(sampleYAML), 0o644))

	doc, err := LoadDocument(src)
	require.NoError(t, err)

	out := filepath.Join(dir, "doc.pdf")
	require.NoError(t, RenderFile(doc, out, Options{Landscape: true}))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = LoadDocument(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
