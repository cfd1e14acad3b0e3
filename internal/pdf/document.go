package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document describes a PDF report
type Document struct {
	Title    string    `yaml:"title"`
	Subtitle string    `yaml:"subtitle,omitempty"`
	// Header is printed at the top of every page after the cover.
	// Defaults to Title.
	Header   string    `yaml:"header,omitempty"`
	Author   string    `yaml:"author,omitempty"`
	Sections []Section `yaml:"sections"`
}

// Section is a titled block of text with an optional table
type Section struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body,omitempty"`
	Table *Table `yaml:"table,omitempty"`
}

// Table is a grid of text cells. Widths are in millimetres; when empty the
// usable page width is split evenly across the columns.
type Table struct {
	Columns []string   `yaml:"columns"`
	Widths  []float64  `yaml:"widths,omitempty"`
	Rows    [][]string `yaml:"rows"`
}

// LoadDocument reads a YAML document description from path
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	doc, err := ParseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument decodes and validates a YAML document description
func ParseDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that the document can be rendered
func (d *Document) Validate() error {
	var errs []error
	if d.Title == "" {
		errs = append(errs, errors.New("document title is required"))
	}
	for i, s := range d.Sections {
		if s.Table == nil {
			continue
		}
		if err := s.Table.validate(); err != nil {
			errs = append(errs, fmt.Errorf("section %d (%s): %w", i+1, s.Title, err))
		}
	}
	return errors.Join(errs...)
}

func (t *Table) validate() error {
	if len(t.Columns) == 0 {
		return errors.New("table has no columns")
	}
	if len(t.Widths) > 0 && len(t.Widths) != len(t.Columns) {
		return fmt.Errorf("table has %d columns but %d widths", len(t.Columns), len(t.Widths))
	}
	for _, w := range t.Widths {
		if w <= 0 {
			return fmt.Errorf("column width must be positive, got %v", w)
		}
	}
	for i, row := range t.Rows {
		if len(row) > len(t.Columns) {
			return fmt.Errorf("row %d has %d cells for %d columns", i+1, len(row), len(t.Columns))
		}
	}
	return nil
}

func (d *Document) header() string {
	if d.Header != "" {
		return d.Header
	}
	return d.Title
}
