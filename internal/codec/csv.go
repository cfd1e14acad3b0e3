package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"panokit/internal/domain"
)

// CSVCodec handles CSV import/export. The first record is the header.
type CSVCodec struct{}

// NewCSVCodec creates a new CSV codec
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{}
}

// Format returns the codec format identifier
func (c *CSVCodec) Format() string {
	return "csv"
}

// Extension returns the file extension
func (c *CSVCodec) Extension() string {
	return "csv"
}

// Parse reads a header row followed by data rows. Rows may be shorter or
// longer than the header; short rows are padded and extra cells dropped.
func (c *CSVCodec) Parse(r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.NewTable("", ""), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}

	table := domain.NewTable("", "", header...)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		if len(record) > len(header) {
			record = record[:len(header)]
		}
		if err := table.AddRow(record...); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// Export writes the header and every row
func (c *CSVCodec) Export(table *domain.Table, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	return nil
}
