package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"panokit/internal/report"
	"panokit/internal/repository"
	"panokit/internal/service"
)

// reportPrefixes maps stored report names to the file prefix of the
// command that produced them
var reportPrefixes = map[string]string{
	service.DuplicateTable: duplicatesPrefix,
	service.TagTable:       tagsPrefix,
	service.PolicyTable:    policiesPrefix,
}

func (a *app) handleRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	cf := addCommonFlags(fs)
	db := fs.String("db", "", "SQLite database (default: output.sqlite_path from the config)")
	show := fs.String("show", "", "run ID or unique ID prefix to export again")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: panokit runs [flags]\n\n")
		fmt.Fprintf(fs.Output(), "List the reports stored with -format sqlite. With -show, write the\n")
		fmt.Fprintf(fs.Output(), "stored report of one run to files again.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := a.loadConfig(cf)
	if err != nil {
		return err
	}
	path := *db
	if path == "" {
		path = cfg.Output.SQLitePath
	}
	if path == "" {
		return errors.New("no database given: pass -db or set output.sqlite_path")
	}

	store, err := a.openStore(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}

	if *show == "" {
		if len(runs) == 0 {
			fmt.Fprintf(a.out, "No runs stored in %s\n", path)
			return nil
		}
		fmt.Fprintf(a.out, "%-36s  %-19s  %-10s  %s\n", "ID", "STARTED", "REPORT", "HOST")
		for _, run := range runs {
			fmt.Fprintf(a.out, "%-36s  %-19s  %-10s  %s\n",
				run.ID, run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.Command, run.Host)
		}
		return nil
	}

	run, err := findRun(runs, *show)
	if err != nil {
		return err
	}
	table, err := store.LoadTable(ctx, run.ID, run.Command)
	if err != nil {
		return err
	}

	var formats []string
	for _, f := range cfg.Output.Formats {
		if f != report.FormatSQLite {
			formats = append(formats, f)
		}
	}
	w, err := report.NewWriter(cfg.Output.Dir, formats,
		report.WithClock(func() time.Time { return run.StartedAt.Local() }),
	)
	if err != nil {
		return err
	}

	prefix, ok := reportPrefixes[table.Name]
	if !ok {
		prefix = table.Name
	}
	paths, err := w.Write(ctx, table, prefix)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(a.out, "Exported %d rows of run %s to %s\n", table.Len(), run.ID, strings.Join(paths, ", "))
	return nil
}

// findRun matches a full run ID or a prefix shared by exactly one run
func findRun(runs []repository.Run, id string) (repository.Run, error) {
	var matches []repository.Run
	for _, run := range runs {
		if run.ID == id {
			return run, nil
		}
		if strings.HasPrefix(run.ID, id) {
			matches = append(matches, run)
		}
	}
	switch len(matches) {
	case 0:
		return repository.Run{}, fmt.Errorf("run %s: %w", id, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return repository.Run{}, fmt.Errorf("run ID prefix %q matches %d runs", id, len(matches))
	}
}
