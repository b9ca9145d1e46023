// Command render draws the scatter plot for a local penguins CSV to a
// standalone SVG file, optionally with one species highlighted. It uses
// the same chart package as the service, so its output matches what
// GET /chart.svg would serve for that data.
//
// Usage:
//
//	go run ./cmd/render \
//	  -csv data/penguins_cleaned.csv \
//	  -hover Gentoo \
//	  -out penguins.svg
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/couchcryptid/penguin-scatter/internal/adapter/dataset"
	"github.com/couchcryptid/penguin-scatter/internal/chart"
	"github.com/couchcryptid/penguin-scatter/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "path to the penguins CSV file")
	hover := flag.String("hover", "", "species to highlight")
	out := flag.String("out", "", "output SVG path (default stdout)")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -csv")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		return fmt.Errorf("open CSV: %w", err)
	}
	defer f.Close()

	records, err := dataset.ReadRecords(f)
	if err != nil {
		return err
	}
	ds := domain.NewDataset(records, *csvPath)
	if ds.Report.Rejected > 0 {
		log.Printf("skipped %d rows with invalid numbers", ds.Report.Rejected)
	}

	plot := chart.Build(ds.Rows, domain.Focused(*hover), chart.DefaultAccessors(), chart.DefaultLayout())

	if *out == "" {
		return plot.WriteSVG(os.Stdout)
	}

	w, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := plot.WriteSVG(w); err != nil {
		w.Close()
		return fmt.Errorf("write SVG: %w", err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	log.Printf("wrote %d rows to %s", len(ds.Rows), *out)
	return nil
}
