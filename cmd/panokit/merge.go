package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"panokit/internal/codec"
	"panokit/internal/csvmerge"
)

func (a *app) handleMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	dir := fs.String("dir", "", "folder containing the CSV files (prompted when omitted)")
	output := fs.String("o", csvmerge.DefaultOutput, "merged file name, written inside the folder")
	inputs := fs.String("inputs", "csv", "comma-separated input formats: "+strings.Join(codec.ImportFormats(), ", "))
	verbose := fs.Bool("v", false, "log diagnostics to stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: panokit merge [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Merge every CSV file in a folder into one CSV file. The header is\n")
		fmt.Fprintf(fs.Output(), "the union of all headers; missing cells are left empty. -inputs also\n")
		fmt.Fprintf(fs.Output(), "reads json, yaml or xlsx reports.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	a.setupLogging(*verbose)

	folder := *dir
	if !flagWasSet(fs, "dir") {
		var err error
		folder, err = a.prompter.WithDefault("Enter the path to the folder containing CSV files", ".")
		if err != nil {
			return err
		}
	}

	res, err := csvmerge.Merge(folder, *output, splitList(*inputs)...)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Merged %d CSV files into %s\n", len(res.Files), res.Path)
	return nil
}
