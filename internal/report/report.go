// Package report writes tables to timestamped files in every configured
// format.
package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"panokit/internal/codec"
	"panokit/internal/domain"
	"panokit/internal/repository"
	"panokit/internal/repository/sqlite"
)

// FormatSQLite stores tables in a SQLite database instead of a flat file
const FormatSQLite = "sqlite"

// TimestampLayout is the file name timestamp, e.g. 20250131_142501
const TimestampLayout = "20060102_150405"

// StoreOpener opens the report store for a database path
type StoreOpener func(path string) (repository.ReportStore, error)

// Writer writes report tables to an output directory
type Writer struct {
	dir        string
	formats    []string
	sqlitePath string
	host       string
	now        func() time.Time
	openStore  StoreOpener
}

// Option configures a Writer
type Option func(*Writer)

// WithSQLitePath stores sqlite output in one fixed database instead of a
// timestamped file per report
func WithSQLitePath(path string) Option {
	return func(w *Writer) { w.sqlitePath = path }
}

// WithHost records the Panorama host on stored runs
func WithHost(host string) Option {
	return func(w *Writer) { w.host = host }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithStoreOpener replaces the SQLite store
func WithStoreOpener(open StoreOpener) Option {
	return func(w *Writer) { w.openStore = open }
}

// NewWriter creates a writer for dir and formats. Unknown formats are
// rejected here so no file is written for a bad configuration.
func NewWriter(dir string, formats []string, opts ...Option) (*Writer, error) {
	if len(formats) == 0 {
		formats = []string{"csv"}
	}
	var errs []error
	for _, f := range formats {
		if f == FormatSQLite {
			continue
		}
		if _, err := codec.Lookup(f); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "."
	}

	w := &Writer{
		dir:     dir,
		formats: uniqueFormats(formats),
		now:     time.Now,
		openStore: func(path string) (repository.ReportStore, error) {
			return sqlite.New(path)
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// KnownFormats lists every accepted output format
func KnownFormats() []string {
	return append(codec.Formats(), FormatSQLite)
}

// Write stores table once per format as <dir>/<prefix>_<timestamp>.<ext>
// and returns the written paths. All formats share one timestamp.
func (w *Writer) Write(ctx context.Context, table *domain.Table, prefix string) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	now := w.now()
	base := filepath.Join(w.dir, prefix+"_"+now.Format(TimestampLayout))

	var paths []string
	for _, format := range w.formats {
		var (
			path string
			err  error
		)
		if format == FormatSQLite {
			path, err = w.writeSQLite(ctx, table, base, now)
		} else {
			path, err = w.writeFile(table, base, format)
		}
		if err != nil {
			return paths, err
		}
		log.Printf("report: wrote %d rows to %s", table.Len(), path)
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) writeFile(table *domain.Table, base, format string) (string, error) {
	exp, err := codec.Lookup(format)
	if err != nil {
		return "", err
	}

	path := base + "." + exp.Extension()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := exp.Export(table, f); err != nil {
		f.Close()
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func (w *Writer) writeSQLite(ctx context.Context, table *domain.Table, base string, now time.Time) (string, error) {
	path := w.sqlitePath
	if path == "" {
		path = base + ".db"
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create sqlite dir: %w", err)
	}

	store, err := w.openStore(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer store.Close()

	run := repository.NewRun(table.Name, w.host, now)
	if err := store.CreateRun(ctx, run); err != nil {
		return "", err
	}
	if err := store.SaveTable(ctx, run.ID, table); err != nil {
		return "", err
	}
	return path, nil
}

// uniqueFormats drops repeated formats, keeping first-seen order
func uniqueFormats(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
