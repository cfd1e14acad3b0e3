package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"panokit/internal/pdf"
)

func (a *app) handlePDF(args []string) error {
	fs := flag.NewFlagSet("pdf", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	output := fs.String("o", "", "output file (default: the document path with a .pdf extension)")
	landscape := fs.Bool("landscape", false, "use landscape pages")
	verbose := fs.Bool("v", false, "log diagnostics to stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: panokit pdf [flags] <document.yaml>\n\n")
		fmt.Fprintf(fs.Output(), "Render a PDF with a cover page and titled sections, each with\n")
		fmt.Fprintf(fs.Output(), "optional text and an optional table.\n\n")
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

	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("pdf command requires exactly one document file")
	}
	src := fs.Arg(0)

	doc, err := pdf.LoadDocument(src)
	if err != nil {
		return err
	}

	dst := *output
	if dst == "" {
		dst = strings.TrimSuffix(src, filepath.Ext(src)) + ".pdf"
	}
	if err := pdf.RenderFile(doc, dst, pdf.Options{Landscape: *landscape, CreatedAt: a.now()}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "PDF created successfully at %s\n", dst)
	return nil
}
