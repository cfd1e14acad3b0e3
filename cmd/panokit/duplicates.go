package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"panokit/internal/service"
)

const duplicatesPrefix = "panorama_duplicate_objects"

func (a *app) handleDuplicates(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("duplicates", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	cf := addCommonFlags(fs)
	groups := fs.String("dg", "", "comma-separated device groups to check, or \"all\"")
	shared := fs.Bool("shared", false, "also check the shared scope")
	exemptEmpty := fs.Bool("exempt-empty", false, "do not treat objects without a value as duplicates of each other")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: panokit duplicates [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Report address objects that share a name or a normalized value\n")
		fmt.Fprintf(fs.Output(), "with another object of the same device group.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nExamples:\n")
		fmt.Fprintf(fs.Output(), "  panokit duplicates -dg all\n")
		fmt.Fprintf(fs.Output(), "  panokit duplicates -dg EU,US -shared -format csv,xlsx\n")
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
	if flagWasSet(fs, "shared") {
		cfg.Duplicates.IncludeShared = *shared
	}
	if flagWasSet(fs, "exempt-empty") {
		cfg.Duplicates.ExemptEmptyValues = *exemptEmpty
	}
	writer, err := a.newWriter(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "=== Panorama Duplicate Address Object Checker ===")
	fmt.Fprintln(a.out)
	client, err := a.connect(ctx, cfg)
	if err != nil {
		return err
	}

	requested := splitList(*groups)
	if len(requested) == 0 {
		requested = cfg.DeviceGroups
	}
	if len(requested) == 0 {
		answer, err := a.prompter.WithDefault("Enter device group to check (or leave blank for all)", service.AllScopes)
		if err != nil {
			return err
		}
		requested = splitList(answer)
	}

	svc := service.NewDuplicateService(client, a.progress(), service.DuplicateOptions{
		IncludeShared:     cfg.Duplicates.IncludeShared,
		ExemptEmptyValues: cfg.Duplicates.ExemptEmptyValues,
	})
	scopes, err := svc.ResolveScopes(ctx, requested)
	if err != nil {
		return err
	}
	if len(scopes) == 0 {
		return errors.New("no device groups to check")
	}

	res, err := svc.Check(ctx, scopes)
	if err != nil {
		return err
	}
	return a.writeResult(ctx, writer, res, duplicatesPrefix, "Check")
}
