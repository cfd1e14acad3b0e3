package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"panokit/internal/domain"
	"panokit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestRun(t *testing.T, repo *Repository, command string, at time.Time) *repository.Run {
	t.Helper()
	run := repository.NewRun(command, "panorama.example.com", at)
	require.NoError(t, repo.CreateRun(context.Background(), run))
	return run
}

func duplicatesTable(t *testing.T, rows ...[]string) *domain.Table {
	t.Helper()
	table := domain.NewTable("duplicates", "Duplicate Objects", domain.DuplicateColumns...)
	for _, row := range rows {
		require.NoError(t, table.AddRow(row...))
	}
	return table
}

func TestSaveAndLoadTable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	run := newTestRun(t, repo, "duplicates", time.Now())

	src := duplicatesTable(t,
		[]string{"EU", "web", "10.0.0.1", "value", "web-alt"},
		[]string{"EU", "web-alt", "10.0.0.1/32", "value", "web"},
		[]string{"EU", "db", "", "name", "db"},
	)
	require.NoError(t, repo.SaveTable(ctx, run.ID, src))

	got, err := repo.LoadTable(ctx, run.ID, "duplicates")
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestSaveTableReplacesRowsForSameRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	run := newTestRun(t, repo, "duplicates", time.Now())

	require.NoError(t, repo.SaveTable(ctx, run.ID, duplicatesTable(t, []string{"EU", "a"}, []string{"EU", "b"})))
	require.NoError(t, repo.SaveTable(ctx, run.ID, duplicatesTable(t, []string{"US", "c"})))

	got, err := repo.LoadTable(ctx, run.ID, "duplicates")
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "c", got.Rows[0][1])
}

func TestRunsAreIsolated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	first := newTestRun(t, repo, "tags", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	second := newTestRun(t, repo, "tags", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	tags := func(name string) *domain.Table {
		table := domain.NewTable("tags", "", "device_group", "tag_name")
		require.NoError(t, table.AddRow("EU", name))
		return table
	}
	require.NoError(t, repo.SaveTable(ctx, first.ID, tags("red")))
	require.NoError(t, repo.SaveTable(ctx, second.ID, tags("blue")))

	got, err := repo.LoadTable(ctx, first.ID, "tags")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"EU", "red"}}, got.Rows)

	runs, err := repo.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.ID, runs[0].ID)
	assert.Equal(t, "panorama.example.com", runs[0].Host)
	assert.True(t, first.StartedAt.Equal(runs[0].StartedAt))
}

func TestSaveTableAddsNewColumns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	old := newTestRun(t, repo, "policies", time.Now())
	cur := newTestRun(t, repo, "policies", time.Now())

	narrow := domain.NewTable("policies", "", "rule_name")
	require.NoError(t, narrow.AddRow("allow-web"))
	require.NoError(t, repo.SaveTable(ctx, old.ID, narrow))

	wide := domain.NewTable("policies", "", "rule_name", "rulebase")
	require.NoError(t, wide.AddRow("deny-all", "post"))
	require.NoError(t, repo.SaveTable(ctx, cur.ID, wide))

	got, err := repo.LoadTable(ctx, cur.ID, "policies")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"deny-all", "post"}}, got.Rows)

	got, err = repo.LoadTable(ctx, old.ID, "policies")
	require.NoError(t, err)
	assert.Equal(t, []string{"rule_name"}, got.Columns)
	assert.Equal(t, [][]string{{"allow-web"}}, got.Rows)
}

func TestSaveTableQuotesIdentifiers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	run := newTestRun(t, repo, "merge", time.Now())

	table := domain.NewTable(`weird "name"; DROP TABLE runs`, "", `col "a"`, "select", "Mixed Case")
	require.NoError(t, table.AddRow("1", "2", "3"))
	require.NoError(t, repo.SaveTable(ctx, run.ID, table))

	got, err := repo.LoadTable(ctx, run.ID, table.Name)
	require.NoError(t, err)
	assert.Equal(t, table.Rows, got.Rows)

	runs, err := repo.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSaveTableErrors(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.SaveTable(ctx, "missing-run", duplicatesTable(t))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	run := newTestRun(t, repo, "tags", time.Now())
	for _, cols := range [][]string{{"a", "A"}, {"run_id"}, {""}} {
		err := repo.SaveTable(ctx, run.ID, domain.NewTable("bad", "", cols...))
		assert.Error(t, err, cols)
	}

	assert.Error(t, repo.CreateRun(ctx, run), "run IDs are unique")
}

func TestLoadTableNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.LoadTable(context.Background(), "nope", "duplicates")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.db")
	ctx := context.Background()

	repo, err := New(path)
	require.NoError(t, err)
	run := repository.NewRun("info", "", time.Now())
	require.NoError(t, repo.CreateRun(ctx, run))
	require.NoError(t, repo.SaveTable(ctx, run.ID, duplicatesTable(t, []string{"EU", "x"})))
	require.NoError(t, repo.Close())

	repo, err = New(path)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.LoadTable(ctx, run.ID, "duplicates")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestReportTableName(t *testing.T) {
	assert.Equal(t, "duplicates", reportTableName("duplicates"))
	assert.Equal(t, "report_runs", reportTableName("runs"))
	assert.Equal(t, "report", reportTableName(""))
	assert.Equal(t, "tag_export", reportTableName("Tag-Export"))
}
