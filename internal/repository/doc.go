// Package repository defines storage for report runs.
//
// A run is one invocation of a panokit command. Each run stores one or more
// report tables. The only implementation lives in the sqlite subpackage.
//
// # SQLite Layout
//
// The sqlite store keeps three kinds of tables:
//
//   - runs: one row per run, keyed by a UUID
//   - reports: one row per (run, report) with the column list as JSON
//   - one table per report name (for example "duplicates") with a run_id
//     column followed by the report's own columns, so results can be
//     queried directly with SQL
//
// Report tables gain columns automatically when a later run writes a
// column the table does not have yet. Existing rows keep NULL there.
package repository
