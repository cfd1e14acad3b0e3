// Package csvmerge combines every report file in a folder into one CSV file
// whose header is the union of all input headers. Only CSV inputs are read
// unless other input formats are asked for.
package csvmerge

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"panokit/internal/codec"
	"panokit/internal/domain"
)

// DefaultOutput is the merged file name
const DefaultOutput = "merge.csv"

const bom = "\ufeff"

// Result describes a finished merge
type Result struct {
	Path    string
	Files   []string
	Columns int
	Rows    int
}

// Merge reads every input file in dir except output, in lexical order, and
// writes dir/output as CSV. Inputs are the files whose extension matches
// one of formats (codec import format names, csv when none are given).
// Columns appear in first-seen order; cells a file does not have are left
// empty. An empty output name means DefaultOutput.
func Merge(dir, output string, formats ...string) (*Result, error) {
	if dir == "" {
		dir = "."
	}
	if output == "" {
		output = DefaultOutput
	}
	if len(formats) == 0 {
		formats = []string{"csv"}
	}

	byExt := make(map[string]codec.Importer, len(formats))
	for _, format := range formats {
		imp, err := codec.LookupImporter(format)
		if err != nil {
			return nil, err
		}
		byExt["."+imp.Extension()] = imp
	}

	files, err := inputFiles(dir, output, byExt)
	if err != nil {
		return nil, err
	}

	csvCodec := codec.NewCSVCodec()
	merged := domain.NewTable(strings.TrimSuffix(output, filepath.Ext(output)), "")
	index := make(map[string]int)

	var tables []*domain.Table
	for _, name := range files {
		table, err := readFile(byExt[filepath.Ext(name)], filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		for _, col := range table.Columns {
			if _, ok := index[col]; !ok {
				index[col] = len(merged.Columns)
				merged.Columns = append(merged.Columns, col)
			}
		}
		tables = append(tables, table)
	}

	for _, table := range tables {
		for _, row := range table.Rows {
			cells := make([]string, len(merged.Columns))
			// a repeated header keeps its last value
			for i, col := range table.Columns {
				cells[index[col]] = row[i]
			}
			if err := merged.AddRow(cells...); err != nil {
				return nil, err
			}
		}
	}

	path := filepath.Join(dir, output)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if err := csvCodec.Export(merged, f); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", path, err)
	}

	log.Printf("csvmerge: merged %d files into %s", len(files), path)
	return &Result{
		Path:    path,
		Files:   files,
		Columns: len(merged.Columns),
		Rows:    merged.Len(),
	}, nil
}

// inputFiles lists regular files in dir with an importable extension,
// except output, sorted
func inputFiles(dir, output string, byExt map[string]codec.Importer) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || byExt[filepath.Ext(name)] == nil || name == output {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func readFile(imp codec.Importer, path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := imp.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(table.Columns) > 0 {
		table.Columns[0] = strings.TrimPrefix(table.Columns[0], bom)
	}
	return table, nil
}
