package codec

import (
	"fmt"
	"io"
	"strings"

	"panokit/internal/domain"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// XLSXCodec handles Excel workbooks with the table on a single sheet
type XLSXCodec struct{}

// NewXLSXCodec creates a new XLSX codec
func NewXLSXCodec() *XLSXCodec {
	return &XLSXCodec{}
}

// Format returns the codec format identifier
func (c *XLSXCodec) Format() string {
	return "xlsx"
}

// Extension returns the file extension
func (c *XLSXCodec) Extension() string {
	return "xlsx"
}

// Parse reads the first sheet of a workbook. The first row is the header.
func (c *XLSXCodec) Parse(r io.Reader) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.NewTable("", ""), nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return domain.NewTable(sheets[0], ""), nil
	}

	table := domain.NewTable(sheets[0], "", rows[0]...)
	for _, row := range rows[1:] {
		if len(row) > len(table.Columns) {
			row = row[:len(table.Columns)]
		}
		if err := table.AddRow(row...); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// Export writes the table to one sheet named after the table, with a
// styled header row
func (c *XLSXCodec) Export(table *domain.Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(table.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeSheetRow(f, sheet, 1, table.Columns); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := writeSheetRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if len(table.Columns) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCE6F1"}},
		})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(table.Columns), 1)
		if err != nil {
			return fmt.Errorf("failed to address header: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	values := make([]any, len(cells))
	for i, v := range cells {
		values[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// sheetName makes a valid worksheet name from a table name
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.Trim(name, "'"))
	if name == "" {
		return "Report"
	}
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return name
}
