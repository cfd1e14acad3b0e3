// Package codec converts report tables to and from file formats.
package codec

import (
	"fmt"
	"io"
	"sort"

	"panokit/internal/domain"
)

// Importer interface for reading tables from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Table, error)
	Format() string
	Extension() string
}

// Exporter interface for writing tables to various formats
type Exporter interface {
	Export(table *domain.Table, w io.Writer) error
	Format() string
	// Extension is the file extension without the dot
	Extension() string
}

var exporters = map[string]func() Exporter{
	"csv":  func() Exporter { return NewCSVCodec() },
	"json": func() Exporter { return NewJSONCodec() },
	"yaml": func() Exporter { return NewYAMLCodec() },
	"xlsx": func() Exporter { return NewXLSXCodec() },
	"pdf":  func() Exporter { return NewPDFCodec() },
}

var importers = map[string]func() Importer{
	"csv":  func() Importer { return NewCSVCodec() },
	"json": func() Importer { return NewJSONCodec() },
	"yaml": func() Importer { return NewYAMLCodec() },
	"xlsx": func() Importer { return NewXLSXCodec() },
}

// LookupImporter returns the importer for a format name
func LookupImporter(format string) (Importer, error) {
	newImporter, ok := importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown import format %q", format)
	}
	return newImporter(), nil
}

// ImportFormats lists the importer format names in sorted order
func ImportFormats() []string {
	names := make([]string, 0, len(importers))
	for name := range importers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the exporter for a format name
func Lookup(format string) (Exporter, error) {
	newExporter, ok := exporters[format]
	if !ok {
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	return newExporter(), nil
}

// Formats lists the exporter format names in sorted order
func Formats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
