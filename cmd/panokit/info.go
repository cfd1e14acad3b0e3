package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"panokit/internal/service"
)

func (a *app) handleInfo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	cf := addCommonFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: panokit info [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Log in and display basic system information.\n\n")
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

	fmt.Fprintln(a.out, "=== Panorama Login Test ===")
	fmt.Fprintln(a.out)
	client, err := a.connect(ctx, cfg)
	if err != nil {
		return err
	}

	sum, err := service.NewInfoService(client).Summary(ctx)
	if err != nil {
		return err
	}
	a.printSummary(sum)
	return nil
}

func (a *app) printSummary(sum *service.Summary) {
	fmt.Fprintln(a.out, "\n=== Testing API Calls ===")

	fmt.Fprintln(a.out, "1. Getting system information...")
	if sum.SystemErr != nil {
		fmt.Fprintf(a.out, "   Error getting system info: %v\n", sum.SystemErr)
	} else {
		fmt.Fprintf(a.out, "   Hostname: %s\n", sum.System.Hostname)
		if sum.System.Model != "" {
			fmt.Fprintf(a.out, "   Model: %s\n", sum.System.Model)
		}
		fmt.Fprintf(a.out, "   Version: %s\n", sum.System.Version)
		fmt.Fprintf(a.out, "   Uptime: %s\n", sum.System.Uptime)
	}

	fmt.Fprintln(a.out, "2. Getting device groups...")
	if sum.DeviceGroupsErr != nil {
		fmt.Fprintf(a.out, "   Error getting device groups: %v\n", sum.DeviceGroupsErr)
	} else {
		fmt.Fprintf(a.out, "   Number of device groups: %d\n", len(sum.DeviceGroups))
		if len(sum.DeviceGroups) > 0 {
			fmt.Fprintf(a.out, "   Device groups: %s\n", sum.DeviceGroupPreview())
		}
	}

	fmt.Fprintln(a.out, "3. Getting address objects...")
	if sum.SharedObjectsErr != nil {
		fmt.Fprintf(a.out, "   Error getting address objects: %v\n", sum.SharedObjectsErr)
	} else {
		fmt.Fprintf(a.out, "   Number of shared address objects: %d\n", sum.SharedObjects)
	}

	fmt.Fprintln(a.out, "\n=== Test Complete ===")
	fmt.Fprintln(a.out, "If you see the system information above, your login is working correctly!")
}
