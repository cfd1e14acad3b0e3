package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"panokit/internal/config"
	"panokit/internal/domain"
	"panokit/internal/report"
	"panokit/internal/service"
)

const (
	tagsPrefix     = "panorama_export_tags_from_device_groups"
	policiesPrefix = "panorama_export_policies"
)

// exportFunc exports the selected device groups once
type exportFunc func(deviceGroups []string) (*service.Result, error)

// exportCommand holds what the tags and policies commands share
type exportCommand struct {
	name    string
	banner  string
	summary string
	prefix  string
	what    string
}

func (a *app) parseExportFlags(cmd exportCommand, args []string, extra func(fs *flag.FlagSet)) (*flag.FlagSet, *commonFlags, *string, error) {
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	cf := addCommonFlags(fs)
	groups := fs.String("dg", "", "comma-separated device groups; skips the selection menu")
	if extra != nil {
		extra(fs)
	}
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: panokit %s [flags]\n\n", cmd.name)
		fmt.Fprintf(fs.Output(), "%s\n\n", cmd.summary)
		fmt.Fprintf(fs.Output(), "Without -dg a numbered device group menu is shown and the export\n")
		fmt.Fprintf(fs.Output(), "can be repeated for another selection.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return fs, nil, nil, err
	}
	return fs, cf, groups, nil
}

func (a *app) handleTags(ctx context.Context, args []string) error {
	cmd := exportCommand{
		name:    "tags",
		banner:  "=== Palo Alto Panorama Tag Exporter ===",
		summary: "Export the tag objects (name, color, comments) of device groups.",
		prefix:  tagsPrefix,
		what:    "Tag export",
	}
	_, cf, groups, err := a.parseExportFlags(cmd, args, nil)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	return a.runExport(ctx, cmd, cf, splitList(*groups), func(client panoramaClient, _ *config.Config) exportFunc {
		svc := service.NewTagService(client, a.progress())
		return func(dgs []string) (*service.Result, error) {
			return svc.Export(ctx, dgs)
		}
	})
}

func (a *app) handlePolicies(ctx context.Context, args []string) error {
	cmd := exportCommand{
		name:    "policies",
		banner:  "=== Palo Alto Panorama Policy Exporter ===",
		summary: "Export the security rules of device groups from the pre rulebase,\nthe post rulebase or both.",
		prefix:  policiesPrefix,
		what:    "Policy export",
	}
	var rulebase string
	fs, cf, groups, err := a.parseExportFlags(cmd, args, func(fs *flag.FlagSet) {
		fs.StringVar(&rulebase, "rulebase", "", "rulebase to export: pre, post or both (default from config, else pre)")
	})
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagWasSet(fs, "rulebase") && !domain.Rulebase(strings.ToLower(rulebase)).IsValid() {
		return fmt.Errorf("invalid rulebase %q: must be pre, post or both", rulebase)
	}

	return a.runExport(ctx, cmd, cf, splitList(*groups), func(client panoramaClient, cfg *config.Config) exportFunc {
		rb := cfg.Policies.Rulebase
		if flagWasSet(fs, "rulebase") {
			rb = domain.Rulebase(strings.ToLower(rulebase))
		}
		svc := service.NewPolicyService(client, a.progress())
		return func(dgs []string) (*service.Result, error) {
			return svc.Export(ctx, dgs, rb)
		}
	})
}

// runExport logs in and runs the export once for fixed device groups, or
// repeatedly through the menu until the user declines another run
func (a *app) runExport(ctx context.Context, cmd exportCommand, cf *commonFlags, fixed []string, build func(panoramaClient, *config.Config) exportFunc) error {
	cfg, err := a.loadConfig(cf)
	if err != nil {
		return err
	}
	writer, err := a.newWriter(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, cmd.banner)
	fmt.Fprintln(a.out)
	client, err := a.connect(ctx, cfg)
	if err != nil {
		return err
	}
	export := build(client, cfg)

	if len(fixed) > 0 {
		return a.exportOnce(ctx, writer, cmd, export, fixed)
	}

	groups, err := a.menuGroups(ctx, client, cfg)
	if err != nil {
		return err
	}
	for {
		selected, err := a.prompter.SelectDeviceGroups(groups)
		if err != nil {
			return err
		}
		if err := a.exportOnce(ctx, writer, cmd, export, selected); err != nil {
			return err
		}

		again, err := a.prompter.Confirm("\nDo you want to run the export again (device group selection and export)?")
		if err != nil || !again {
			return err
		}
	}
}

func (a *app) exportOnce(ctx context.Context, w *report.Writer, cmd exportCommand, export exportFunc, dgs []string) error {
	res, err := export(dgs)
	if err != nil {
		return err
	}
	return a.writeResult(ctx, w, res, cmd.prefix, cmd.what)
}

// menuGroups returns the configured device groups, or every device group
// on the server, in case-insensitive order
func (a *app) menuGroups(ctx context.Context, client panoramaClient, cfg *config.Config) ([]string, error) {
	groups := cfg.DeviceGroups
	if len(groups) == 0 {
		var err error
		if groups, err = client.DeviceGroups(ctx); err != nil {
			return nil, err
		}
	}
	if len(groups) == 0 {
		return nil, errors.New("device group list is empty")
	}
	return service.SortDeviceGroups(groups), nil
}
