package codec

import (
	"fmt"
	"io"

	"panokit/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Extension returns the file extension
func (c *YAMLCodec) Extension() string {
	return "yaml"
}

// yamlTable represents the YAML structure for table data
type yamlTable struct {
	Name    string      `yaml:"name"`
	Title   string      `yaml:"title,omitempty"`
	Columns []string    `yaml:"columns"`
	Rows    []yaml.Node `yaml:"rows"`
}

// Parse imports a table from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Table, error) {
	var yt yamlTable
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yt); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	rows := make([]map[string]string, 0, len(yt.Rows))
	for i := range yt.Rows {
		var m map[string]string
		if err := yt.Rows[i].Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to parse YAML row %d: %w", i+1, err)
		}
		rows = append(rows, m)
	}

	return fromMaps(yt.Name, yt.Title, yt.Columns, rows)
}

// Export exports a table to YAML. Row keys keep column order.
func (c *YAMLCodec) Export(table *domain.Table, w io.Writer) error {
	yt := yamlTable{
		Name:    table.Name,
		Title:   table.Title,
		Columns: table.Columns,
		Rows:    make([]yaml.Node, 0, len(table.Rows)),
	}

	for _, row := range table.Rows {
		node := yaml.Node{Kind: yaml.MappingNode}
		for i, col := range table.Columns {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: row[i]},
			)
		}
		yt.Rows = append(yt.Rows, node)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yt); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
