// Command panokit runs read-only reports against a Panorama management
// server and includes helpers for merging CSV files and building PDFs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"panokit/internal/config"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run dispatches one command
func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "version", "--version":
		fmt.Fprintf(a.out, "panokit %s\n", version)
		return nil
	case "help", "-h", "--help":
		printUsageTo(a.out)
		return nil
	case "info":
		return a.handleInfo(ctx, args)
	case "duplicates":
		return a.handleDuplicates(ctx, args)
	case "tags":
		return a.handleTags(ctx, args)
	case "policies":
		return a.handlePolicies(ctx, args)
	case "runs":
		return a.handleRuns(ctx, args)
	case "merge":
		return a.handleMerge(args)
	case "pdf":
		return a.handlePDF(args)
	default:
		printUsageTo(a.errOut)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	printUsageTo(os.Stderr)
}

func printUsageTo(w io.Writer) {
	fmt.Fprint(w, `panokit - read-only Panorama reports

Usage:
  panokit <command> [flags]

Commands:
  info        Test login and show system info, device groups and shared objects
  duplicates  Find duplicate address objects (by name and by value) per device group
  tags        Export tags of selected device groups
  policies    Export security rules of selected device groups
  runs        List reports stored in SQLite and export one again
  merge       Merge every CSV file in a folder into merge.csv
  pdf         Render a PDF from a YAML document description
  version     Print the version
  help        Show this help

Run 'panokit <command> -h' for command flags.

Credentials are read from PANORAMA_API_KEY, or PANORAMA_USERNAME and
PANORAMA_PASSWORD, and are prompted for otherwise. A .env file in the
working directory is loaded first.
`)
}
