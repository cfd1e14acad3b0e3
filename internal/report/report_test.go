package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"panokit/internal/domain"
	"panokit/internal/repository"
	"panokit/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 31, 14, 25, 1, 0, time.Local)

func tagsTable(t *testing.T) *domain.Table {
	t.Helper()
	table := domain.NewTable("tags", "Tags", "device_group", "tag_name", "color", "comments")
	require.NoError(t, table.AddRow("EU", "prod", "color1", "production"))
	return table
}

func TestWriteEveryFormat(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, []string{"csv", "json", "yaml", "xlsx", "pdf", "csv"}, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	paths, err := w.Write(context.Background(), tagsTable(t), "panorama_export_tags")
	require.NoError(t, err)

	base := filepath.Join(dir, "panorama_export_tags_20250131_142501")
	assert.Equal(t, []string{base + ".csv", base + ".json", base + ".yaml", base + ".xlsx", base + ".pdf"}, paths)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), p)
	}

	data, err := os.ReadFile(base + ".csv")
	require.NoError(t, err)
	assert.Equal(t, "device_group,tag_name,color,comments\nEU,prod,color1,production\n", string(data))
}

func TestWriteCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := NewWriter(dir, nil, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	paths, err := w.Write(context.Background(), tagsTable(t), "r")
	require.NoError(t, err)
	require.Len(t, paths, 1, "csv is the default format")
	assert.FileExists(t, paths[0])
}

func TestNewWriterRejectsUnknownFormats(t *testing.T) {
	_, err := NewWriter(t.TempDir(), []string{"csv", "docx", "html"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docx")
	assert.Contains(t, err.Error(), "html")
}

func TestWriteSQLite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, []string{FormatSQLite}, WithClock(func() time.Time { return fixedNow }), WithHost("pano1"))
	require.NoError(t, err)

	paths, err := w.Write(context.Background(), tagsTable(t), "panorama_export_tags")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "panorama_export_tags_20250131_142501.db")}, paths)

	store, err := sqlite.New(paths[0])
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "tags", runs[0].Command)
	assert.Equal(t, "pano1", runs[0].Host)

	got, err := store.LoadTable(context.Background(), runs[0].ID, "tags")
	require.NoError(t, err)
	assert.Equal(t, tagsTable(t).Rows, got.Rows)
}

func TestWriteSQLiteFixedPathAccumulatesRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db", "panokit.db")
	w, err := NewWriter(t.TempDir(), []string{FormatSQLite}, WithSQLitePath(dbPath))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		paths, err := w.Write(context.Background(), tagsTable(t), "tags")
		require.NoError(t, err)
		assert.Equal(t, []string{dbPath}, paths)
	}

	store, err := sqlite.New(dbPath)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestWriteSQLiteOpenError(t *testing.T) {
	boom := errors.New("boom")
	w, err := NewWriter(t.TempDir(), []string{"csv", FormatSQLite},
		WithStoreOpener(func(string) (repository.ReportStore, error) { return nil, boom }))
	require.NoError(t, err)

	paths, err := w.Write(context.Background(), tagsTable(t), "tags")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, paths, 1, "formats written before the failure are reported")
}

func TestKnownFormats(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "pdf", "xlsx", "yaml", "sqlite"}, KnownFormats())
}
