package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"panokit/internal/adapter"
	"panokit/internal/config"
	"panokit/internal/prompt"
	"panokit/internal/report"
	"panokit/internal/repository"
	"panokit/internal/repository/sqlite"
	"panokit/internal/service"
)

// panoramaClient is what the commands need from adapter.Client
type panoramaClient interface {
	adapter.Fetcher
	adapter.Authenticator
	SetAPIKey(key string)
	Endpoint() string
}

// app carries the process environment so commands can be driven in tests
type app struct {
	out       io.Writer
	errOut    io.Writer
	prompter  *prompt.Prompter
	lookupEnv func(string) (string, bool)
	now       func() time.Time
	dial      func(cfg adapter.ClientConfig) (panoramaClient, error)
	openStore report.StoreOpener
}

func newApp() *app {
	return &app{
		out:       os.Stdout,
		errOut:    os.Stderr,
		prompter:  prompt.NewTerminal(),
		lookupEnv: os.LookupEnv,
		now:       time.Now,
		dial: func(cfg adapter.ClientConfig) (panoramaClient, error) {
			client, err := adapter.NewClient(cfg)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		openStore: func(path string) (repository.ReportStore, error) {
			return sqlite.New(path)
		},
	}
}

// commonFlags are shared by every command that talks to Panorama
type commonFlags struct {
	configPath string
	host       string
	outDir     string
	formats    string
	verbose    bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	cf := &commonFlags{}
	fs.StringVar(&cf.configPath, "config", "", "config file (default: search "+config.EnvConfigPath+", ./panokit.yaml, ...)")
	fs.StringVar(&cf.host, "host", "", "Panorama IP or hostname (env "+config.EnvHost+")")
	fs.StringVar(&cf.outDir, "o", "", "output directory (env "+config.EnvOutputDir+")")
	fs.StringVar(&cf.formats, "format", "", "comma-separated output formats: "+strings.Join(report.KnownFormats(), ", "))
	fs.BoolVar(&cf.verbose, "v", false, "log diagnostics to stderr")
	return cf
}

// flagWasSet reports whether name was given on the command line
func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// splitList splits a comma-separated flag value, dropping empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (a *app) setupLogging(verbose bool) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if verbose {
		log.SetOutput(a.errOut)
		return
	}
	log.SetOutput(io.Discard)
}

// loadConfig reads the config file, applies environment and flag
// overrides and validates the result
func (a *app) loadConfig(cf *commonFlags) (*config.Config, error) {
	a.setupLogging(cf.verbose)

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if cf.configPath != "" {
		cfg, path, err = config.LoadFromPath(cf.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Printf("config: loaded %s", path)
	}

	cfg.ApplyEnv(a.lookupEnv)
	if cf.host != "" {
		cfg.Panorama.Host = cf.host
	}
	if cf.outDir != "" {
		cfg.Output.Dir = cf.outDir
	}
	if cf.formats != "" {
		cfg.Output.Formats = splitList(cf.formats)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Printf("config: %s", strings.ReplaceAll(cfg.Summary(), "\n", "; "))
	return cfg, nil
}

// connect resolves the host, creates the client and obtains an API key.
// A configured API key skips login; a username and password from the
// environment are tried once; otherwise the user is prompted.
func (a *app) connect(ctx context.Context, cfg *config.Config) (panoramaClient, error) {
	host := cfg.Panorama.Host
	if host == "" {
		var err error
		if host, err = a.prompter.Line("Enter Panorama IP or hostname"); err != nil {
			return nil, err
		}
		if host == "" {
			return nil, errors.New("no Panorama host given")
		}
		cfg.Panorama.Host = host
	}

	client, err := a.dial(adapter.ClientConfig{
		Host:               host,
		Timeout:            cfg.Panorama.Timeout.Duration(),
		InsecureSkipVerify: cfg.Panorama.SkipVerify(),
	})
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.Panorama.APIKey != "":
		client.SetAPIKey(cfg.Panorama.APIKey)
		log.Printf("panorama: using configured API key for %s", client.Endpoint())
		return client, nil
	case cfg.Panorama.Username != "" && cfg.Panorama.Password != "":
		if _, err := client.Keygen(ctx, cfg.Panorama.Username, cfg.Panorama.Password); err != nil {
			return nil, err
		}
	default:
		if _, err := a.prompter.Login(ctx, cfg.Panorama.Username, client.Keygen, cfg.Panorama.MaxLoginAttempts); err != nil {
			return nil, err
		}
	}

	fmt.Fprintln(a.out, "Login successful! API key obtained.")
	return client, nil
}

// newWriter builds the report writer for cfg
func (a *app) newWriter(cfg *config.Config) (*report.Writer, error) {
	return report.NewWriter(cfg.Output.Dir, cfg.Output.Formats,
		report.WithSQLitePath(cfg.Output.SQLitePath),
		report.WithHost(cfg.Panorama.Host),
		report.WithClock(a.now),
		report.WithStoreOpener(a.openStore),
	)
}

// progress prints service events as they happen
func (a *app) progress() *service.EventBus {
	bus := service.NewEventBus()
	bus.Subscribe(func(e service.Event) {
		switch e.Type {
		case service.EventScopeStarted:
			fmt.Fprintf(a.out, "%s for device group: %s\n", e.Task, e.Scope)
		case service.EventScopeFailed:
			fmt.Fprintf(a.out, "  Failed for %s: %v\n", e.Scope, e.Err)
		}
	})
	return bus
}

// writeResult writes a service result and reports where it went
func (a *app) writeResult(ctx context.Context, w *report.Writer, res *service.Result, prefix, what string) error {
	paths, err := w.Write(ctx, res.Table, prefix)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Fprintf(a.out, "\n%s complete. %d rows saved to %s\n", what, res.Table.Len(), strings.Join(paths, ", "))
	if !res.OK() {
		fmt.Fprintf(a.out, "%d of %d device groups failed:\n", len(res.Failures), len(res.Scopes))
		for _, f := range res.Failures {
			fmt.Fprintf(a.out, "  %v\n", f)
		}
	}
	return nil
}
