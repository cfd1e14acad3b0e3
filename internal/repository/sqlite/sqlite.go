package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"panokit/internal/domain"
	"panokit/internal/repository"

	_ "modernc.org/sqlite"
)

// runIDColumn is the first column of every report table
const runIDColumn = "run_id"

// Repository implements repository.ReportStore using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.ReportStore = (*Repository)(nil)

// New creates a new SQLite repository. dbPath may be ":memory:".
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every pooled connection to :memory: would be a separate database
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		host TEXT,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reports (
		run_id TEXT NOT NULL,
		name TEXT NOT NULL,
		table_name TEXT NOT NULL,
		title TEXT,
		columns JSON NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, name),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// CreateRun records a run
func (r *Repository) CreateRun(ctx context.Context, run *repository.Run) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, command, host, started_at) VALUES (?, ?, ?, ?)
	`, run.ID, run.Command, stringToNull(run.Host), formatTime(run.StartedAt))
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

// SaveTable stores every row of table under runID in one transaction
func (r *Repository) SaveTable(ctx context.Context, runID string, table *domain.Table) error {
	if err := checkColumns(table.Columns); err != nil {
		return fmt.Errorf("report %s: %w", table.Name, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to look up run: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("run %s: %w", runID, repository.ErrNotFound)
	}

	tableName := reportTableName(table.Name)
	if err := ensureReportTable(ctx, tx, tableName, table.Columns); err != nil {
		return err
	}

	columnsJSON, err := marshalColumns(table.Columns)
	if err != nil {
		return fmt.Errorf("failed to encode columns: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO reports (run_id, name, table_name, title, columns, row_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, name) DO UPDATE SET
			table_name = excluded.table_name,
			title = excluded.title,
			columns = excluded.columns,
			row_count = excluded.row_count
	`, runID, table.Name, tableName, stringToNull(table.Title), columnsJSON, table.Len())
	if err != nil {
		return fmt.Errorf("failed to record report %s: %w", table.Name, err)
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, quoteIdent(tableName), runIDColumn), runID)
	if err != nil {
		return fmt.Errorf("failed to clear report %s: %w", table.Name, err)
	}

	if len(table.Columns) > 0 {
		if err := insertRows(ctx, tx, tableName, runID, table); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report %s: %w", table.Name, err)
	}

	log.Printf("sqlite: stored %d rows of %s for run %s", table.Len(), table.Name, runID)
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, tableName, runID string, table *domain.Table) error {
	quoted := make([]string, 0, len(table.Columns)+1)
	quoted = append(quoted, runIDColumn)
	for _, col := range table.Columns {
		quoted = append(quoted, quoteIdent(col))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(quoted)), ", ")

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(tableName), strings.Join(quoted, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(quoted))
	args[0] = runID
	for i, row := range table.Rows {
		for j := range table.Columns {
			args[j+1] = row[j]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d of %s: %w", i+1, table.Name, err)
		}
	}
	return nil
}

// ensureReportTable creates the report table or adds columns it lacks
func ensureReportTable(ctx context.Context, tx *sql.Tx, tableName string, columns []string) error {
	defs := []string{runIDColumn + " TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE"}
	for _, col := range columns {
		defs = append(defs, quoteIdent(col)+" TEXT")
	}
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s)`,
		quoteIdent(tableName), strings.Join(defs, ", ")))
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	existing, err := tableColumns(ctx, tx, tableName)
	if err != nil {
		return err
	}
	for _, col := range columns {
		if existing[strings.ToLower(col)] {
			continue
		}
		_, err := tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s TEXT`, quoteIdent(tableName), quoteIdent(col)))
		if err != nil {
			return fmt.Errorf("failed to add column %s to %s: %w", col, tableName, err)
		}
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s(%s)`,
		quoteIdent("idx_"+tableName+"_run"), quoteIdent(tableName), runIDColumn))
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", tableName, err)
	}
	return nil
}

// tableColumns returns the lower-cased column names of a table
func tableColumns(ctx context.Context, tx *sql.Tx, tableName string) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", tableName, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		cols[strings.ToLower(name)] = true
	}
	return cols, rows.Err()
}

// checkColumns rejects names SQLite would treat as the same column
func checkColumns(columns []string) error {
	seen := map[string]bool{runIDColumn: true}
	for _, col := range columns {
		key := strings.ToLower(col)
		if col == "" {
			return errors.New("empty column name")
		}
		if seen[key] {
			return fmt.Errorf("duplicate or reserved column %q", col)
		}
		seen[key] = true
	}
	return nil
}

// ListRuns returns all runs, oldest first
func (r *Repository) ListRuns(ctx context.Context) ([]repository.Run, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, command, host, started_at FROM runs ORDER BY started_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []repository.Run
	for rows.Next() {
		var (
			run     repository.Run
			host    sql.NullString
			started string
		)
		if err := rows.Scan(&run.ID, &run.Command, &host, &started); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Host = nullToString(host)
		if run.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadTable reads a stored report back in insertion order
func (r *Repository) LoadTable(ctx context.Context, runID, name string) (*domain.Table, error) {
	var (
		tableName   string
		title       sql.NullString
		columnsJSON string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT table_name, title, columns FROM reports WHERE run_id = ? AND name = ?
	`, runID, name).Scan(&tableName, &title, &columnsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s in run %s: %w", name, runID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	columns, err := unmarshalColumns(columnsJSON)
	if err != nil {
		return nil, err
	}
	table := domain.NewTable(name, nullToString(title), columns...)
	if len(columns) == 0 {
		return table, nil
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
	}
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? ORDER BY rowid`,
		strings.Join(quoted, ", "), quoteIdent(tableName), runIDColumn), runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tableName, err)
	}
	defer rows.Close()

	cells := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, len(columns))
		for i, c := range cells {
			row[i] = nullToString(c)
		}
		if err := table.AddRow(row...); err != nil {
			return nil, err
		}
	}
	return table, rows.Err()
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
