package domain

import "fmt"

// Table is a format-neutral tabular report handed to exporters
type Table struct {
	// Name identifies the report (used for file prefixes and SQL tables)
	Name string `json:"name"`
	// Title is a human-readable heading (PDF exports)
	Title   string     `json:"title,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewTable creates an empty table with the given columns
func NewTable(name, title string, columns ...string) *Table {
	return &Table{
		Name:    name,
		Title:   title,
		Columns: columns,
		Rows:    make([][]string, 0),
	}
}

// AddRow appends a row. Short rows are padded with empty cells; rows longer
// than the column list are rejected.
func (t *Table) AddRow(cells ...string) error {
	if len(cells) > len(t.Columns) {
		return fmt.Errorf("row has %d cells, table %s has %d columns", len(cells), t.Name, len(t.Columns))
	}
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Maps returns every row keyed by column name, for structured encoders
func (t *Table) Maps() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			m[col] = row[i]
		}
		out = append(out, m)
	}
	return out
}
