// Command validate checks a penguins CSV before it is served: the header,
// the numeric columns, the species categories, and that every row lands
// inside the plot area.
//
// Usage:
//
//	go run ./cmd/validate -csv data/penguins_cleaned.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/penguin-scatter/internal/adapter/dataset"
	"github.com/couchcryptid/penguin-scatter/internal/chart"
	"github.com/couchcryptid/penguin-scatter/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("csv", "", "path to the penguins CSV file")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*path))
}

func run(path string) int {
	fmt.Println("=== Penguin Dataset Validation ===")
	fmt.Println()

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open CSV: %v\n", err)
		return 1
	}
	defer f.Close()

	records, err := dataset.ReadRecords(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read CSV: %v\n", err)
		return 1
	}
	ds := domain.NewDataset(records, path)

	phases := []*phase{
		validateNumbers(ds),
		validateCategories(ds),
		validatePlacement(ds),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d read, %d accepted, %d rejected\n",
		len(records), ds.Report.Accepted, ds.Report.Rejected)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Numeric columns ──

func validateNumbers(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 1: Numeric columns"}
	for _, r := range ds.Report.Rejections {
		p.errorf("line %d: %s", r.Line, r.Reason)
	}
	if hidden := ds.Report.Rejected - len(ds.Report.Rejections); hidden > 0 {
		p.errorf("%d more rows rejected", hidden)
	}
	if len(ds.Rows) == 0 {
		p.errorf("no usable rows")
	}
	return p
}

// ── Phase 2: Categories ──

func validateCategories(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 2: Species categories"}

	species := make([]string, 0, len(ds.Rows))
	for i, r := range ds.Rows {
		if r.Species == "" {
			p.errorf("row %d: empty species", i+1)
		}
		species = append(species, r.Species)
	}
	color := chart.NewOrdinal(species, chart.SpeciesPalette)
	if n := len(color.Domain()); n > len(chart.SpeciesPalette) {
		p.errorf("%d species share %d colors: %v", n, len(chart.SpeciesPalette), color.Domain())
	}
	return p
}

// ── Phase 3: Placement ──
// Every mark must fall inside the inner plot area.

func validatePlacement(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 3: Mark placement"}

	l := chart.DefaultLayout()
	plot := chart.Build(ds.Rows, domain.Idle, chart.DefaultAccessors(), l)
	w, h := float64(l.InnerWidth()), float64(l.InnerHeight())

	for i, m := range plot.Base {
		if m.X < 0 || m.X > w || m.Y < 0 || m.Y > h {
			p.errorf("row %d (%s): mark at (%.1f, %.1f) outside %gx%g", i+1, m.Category, m.X, m.Y, w, h)
		}
	}
	if len(plot.XTicks) == 0 || len(plot.YTicks) == 0 {
		p.errorf("axes have no ticks")
	}
	return p
}
