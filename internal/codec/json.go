package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"panokit/internal/domain"
)

// JSONCodec handles JSON import/export. Tables are encoded as an array of
// objects keyed by column name.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Extension returns the file extension
func (c *JSONCodec) Extension() string {
	return "json"
}

type jsonTable struct {
	Name    string              `json:"name"`
	Title   string              `json:"title,omitempty"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// Parse imports a table from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Table, error) {
	var jt jsonTable
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&jt); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return fromMaps(jt.Name, jt.Title, jt.Columns, jt.Rows)
}

// Export exports a table to JSON
func (c *JSONCodec) Export(table *domain.Table, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	jt := jsonTable{
		Name:    table.Name,
		Title:   table.Title,
		Columns: table.Columns,
		Rows:    table.Maps(),
	}
	if err := encoder.Encode(jt); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// fromMaps rebuilds a table from keyed rows, taking cell order from columns
func fromMaps(name, title string, columns []string, rows []map[string]string) (*domain.Table, error) {
	table := domain.NewTable(name, title, columns...)
	for _, m := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = m[col]
		}
		if err := table.AddRow(cells...); err != nil {
			return nil, err
		}
	}
	return table, nil
}
