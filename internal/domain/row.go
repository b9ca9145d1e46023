package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names of the penguins CSV header.
const (
	ColSpecies         = "species"
	ColIsland          = "island"
	ColBillLengthMM    = "bill_length_mm"
	ColBillDepthMM     = "bill_depth_mm"
	ColFlipperLengthMM = "flipper_length_mm"
	ColBodyMassG       = "body_mass_g"
	ColSex             = "sex"
)

// Columns lists every column a penguins CSV must provide.
var Columns = []string{
	ColSpecies, ColIsland, ColBillLengthMM, ColBillDepthMM,
	ColFlipperLengthMM, ColBodyMassG, ColSex,
}

// maxRejections caps how many individual rejection reasons a LoadReport keeps.
const maxRejections = 20

// ErrInvalidNumber is returned when a numeric column cannot be coerced.
var ErrInvalidNumber = errors.New("invalid number")

// RawRecord is one CSV data row with every column still as text.
type RawRecord struct {
	Line            int // 1-based line number in the source file
	Species         string
	Island          string
	BillLengthMM    string
	BillDepthMM     string
	FlipperLengthMM string
	BodyMassG       string
	Sex             string
}

// Row is a single penguin observation after numeric coercion.
type Row struct {
	Species         string  `json:"species"`
	Island          string  `json:"island"`
	BillLengthMM    float64 `json:"bill_length_mm"`
	BillDepthMM     float64 `json:"bill_depth_mm"`
	FlipperLengthMM float64 `json:"flipper_length_mm"`
	BodyMassG       float64 `json:"body_mass_g"`
	Sex             string  `json:"sex"`
}

// NumericField reads a continuous value from a row.
type NumericField func(Row) float64

// CategoryField reads a discrete value from a row.
type CategoryField func(Row) string

// BillLength, BillDepth and Species are the accessors the plot binds to
// its x, y and color channels.
var (
	BillLength NumericField  = func(r Row) float64 { return r.BillLengthMM }
	BillDepth  NumericField  = func(r Row) float64 { return r.BillDepthMM }
	Species    CategoryField = func(r Row) string { return r.Species }
)

// Rejection records why a raw record was dropped during ingestion.
type Rejection struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// LoadReport summarises one ingestion of the dataset.
type LoadReport struct {
	Source     string      `json:"source"`
	Accepted   int         `json:"accepted"`
	Rejected   int         `json:"rejected"`
	Rejections []Rejection `json:"rejections,omitempty"`
	LoadedAt   time.Time   `json:"loaded_at"`
}

// Dataset is an immutable, ordered set of rows. It is replaced wholesale,
// never mutated in place.
type Dataset struct {
	Version uint64
	Rows    []Row
	Report  LoadReport
}

// ParseRecord coerces the four numeric columns of rec. Text columns are
// copied as-is.
func ParseRecord(rec RawRecord) (Row, error) {
	row := Row{
		Species: rec.Species,
		Island:  rec.Island,
		Sex:     rec.Sex,
	}
	fields := []struct {
		col string
		raw string
		dst *float64
	}{
		{ColBillLengthMM, rec.BillLengthMM, &row.BillLengthMM},
		{ColBillDepthMM, rec.BillDepthMM, &row.BillDepthMM},
		{ColFlipperLengthMM, rec.FlipperLengthMM, &row.FlipperLengthMM},
		{ColBodyMassG, rec.BodyMassG, &row.BodyMassG},
	}
	for _, f := range fields {
		v, err := parseNumber(f.raw)
		if err != nil {
			return Row{}, fmt.Errorf("%s: %w", f.col, err)
		}
		*f.dst = v
	}
	return row, nil
}

// parseNumber parses a trimmed decimal value, rejecting empty, NaN and
// infinite values so they never reach a scale.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidNumber)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidNumber, s)
	}
	return v, nil
}

// NewDataset parses records in order, keeping the rows that coerce cleanly
// and reporting the rest.
func NewDataset(records []RawRecord, source string) Dataset {
	rows := make([]Row, 0, len(records))
	report := LoadReport{Source: source, LoadedAt: Now()}

	for _, rec := range records {
		row, err := ParseRecord(rec)
		if err != nil {
			report.Rejected++
			if len(report.Rejections) < maxRejections {
				report.Rejections = append(report.Rejections, Rejection{Line: rec.Line, Reason: err.Error()})
			}
			continue
		}
		rows = append(rows, row)
	}
	report.Accepted = len(rows)

	return Dataset{Rows: rows, Report: report}
}
