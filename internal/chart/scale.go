package chart

import (
	"math"

	"github.com/aclements/go-moremath/scale"

	"github.com/couchcryptid/penguin-scatter/internal/domain"
)

// DefaultTickCount is the number of ticks a linear scale aims for when
// nothing else is requested.
const DefaultTickCount = 10

// maxNiceIterations bounds the nice loop. The tick step normally
// settles after one or two rounds.
const maxNiceIterations = 10

// Linear maps a continuous domain onto a continuous pixel range.
type Linear struct {
	s      scale.Linear
	r0, r1 float64
}

// NewLinear returns a linear scale from [d0,d1] to [r0,r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{s: scale.Linear{Min: d0, Max: d1}, r0: r0, r1: r1}
}

// Domain returns the domain bounds.
func (l Linear) Domain() (float64, float64) { return l.s.Min, l.s.Max }

// Range returns the range bounds.
func (l Linear) Range() (float64, float64) { return l.r0, l.r1 }

// Map maps x from the domain to the range. A degenerate domain maps
// everything to the middle of the range.
func (l Linear) Map(x float64) float64 {
	if l.s.Min == l.s.Max {
		return (l.r0 + l.r1) / 2
	}
	return l.r0 + l.s.Map(x)*(l.r1-l.r0)
}

// Ticks returns round values inside the domain spaced by the step
// tickIncrement picks for count, in increasing order. count is a target;
// the result may hold a few more or fewer ticks.
func (l Linear) Ticks(count int) []float64 {
	lo, hi := l.bounds()
	if lo == hi && isFinite(lo) && count > 0 {
		return []float64{lo}
	}
	inc := tickIncrement(lo, hi, count)
	if inc == 0 || !isFinite(inc) {
		return nil
	}

	var ticks []float64
	if inc > 0 {
		r0, r1 := roundHalfUp(lo/inc), roundHalfUp(hi/inc)
		if r0*inc < lo {
			r0++
		}
		if r1*inc > hi {
			r1--
		}
		for k := r0; k <= r1; k++ {
			ticks = append(ticks, k*inc)
		}
		return ticks
	}

	// Fractional steps are kept as their inverse and divided by so that
	// values such as 0.3 come out exact.
	inv := -inc
	r0, r1 := roundHalfUp(lo*inv), roundHalfUp(hi*inv)
	if r0/inv < lo {
		r0++
	}
	if r1/inv > hi {
		r1--
	}
	for k := r0; k <= r1; k++ {
		ticks = append(ticks, k/inv)
	}
	return ticks
}

// Nice returns a copy of l whose domain is extended outward to
// multiples of its tick step, repeated until the step settles. If it
// never settles the domain is left as is. The range is unchanged.
func (l Linear) Nice(count int) Linear {
	lo, hi := l.bounds()
	prev := math.NaN()
	for range maxNiceIterations {
		inc := tickIncrement(lo, hi, count)
		switch {
		case inc == prev:
			if l.s.Min > l.s.Max {
				lo, hi = hi, lo
			}
			return NewLinear(lo, hi, l.r0, l.r1)
		case inc > 0 && isFinite(inc):
			lo = math.Floor(lo/inc) * inc
			hi = math.Ceil(hi/inc) * inc
		case inc < 0 && isFinite(inc):
			lo = math.Ceil(lo*inc) / inc
			hi = math.Floor(hi*inc) / inc
		default:
			return l
		}
		prev = inc
	}
	return l
}

func (l Linear) bounds() (float64, float64) {
	if l.s.Min > l.s.Max {
		return l.s.Max, l.s.Min
	}
	return l.s.Min, l.s.Max
}

// Step thresholds between the 1, 2, 5 and 10 multipliers.
var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement returns the tick step for about count ticks over
// [lo,hi]. Steps of at least one are returned as is; a fractional step
// 1/k is returned as -k.
func tickIncrement(lo, hi float64, count int) float64 {
	step := (hi - lo) / float64(max(0, count))
	power := math.Floor(math.Log(step) / math.Ln10)
	e := step / math.Pow(10, power)

	mult := 1.0
	switch {
	case e >= e10:
		mult = 10
	case e >= e5:
		mult = 5
	case e >= e2:
		mult = 2
	}
	if power >= 0 {
		return mult * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / mult
}

// roundHalfUp rounds to the nearest integer with halves going up, so
// -2.5 rounds to -2.
func roundHalfUp(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// SpeciesPalette is the three-color range of the species scale.
var SpeciesPalette = []string{"#E6842A", "#137B80", "#8E6C8A"}

// Ordinal maps categories to colors in first-occurrence order, cycling
// through the palette when there are more categories than colors.
type Ordinal struct {
	domain  []string
	index   map[string]int
	palette []string
}

// NewOrdinal builds an ordinal scale whose domain is the distinct values
// of values in the order they first appear.
func NewOrdinal(values []string, palette []string) Ordinal {
	o := Ordinal{index: make(map[string]int), palette: palette}
	for _, v := range values {
		if _, ok := o.index[v]; ok {
			continue
		}
		o.index[v] = len(o.domain)
		o.domain = append(o.domain, v)
	}
	return o
}

// Domain returns the categories in first-occurrence order.
func (o Ordinal) Domain() []string {
	return append([]string(nil), o.domain...)
}

// Map returns the palette entry for category. A category outside the
// domain is colored as if it were appended to it.
func (o Ordinal) Map(category string) string {
	if len(o.palette) == 0 {
		return ""
	}
	i, ok := o.index[category]
	if !ok {
		i = len(o.domain)
	}
	return o.palette[i%len(o.palette)]
}

// Accessors bind row fields to the plot channels.
type Accessors struct {
	X     domain.NumericField
	Y     domain.NumericField
	Color domain.CategoryField
}

// DefaultAccessors plots bill length against bill depth, colored by species.
func DefaultAccessors() Accessors {
	return Accessors{X: domain.BillLength, Y: domain.BillDepth, Color: domain.Species}
}

// Scales are the three scales derived from one dataset.
type Scales struct {
	X     Linear
	Y     Linear
	Color Ordinal
}

// BuildScales derives the plot scales from rows. Only the x scale is
// niced; the y scale keeps the exact data extent.
func BuildScales(rows []domain.Row, acc Accessors, l Layout) Scales {
	xMin, xMax := extent(rows, acc.X)
	yMin, yMax := extent(rows, acc.Y)

	categories := make([]string, len(rows))
	for i, r := range rows {
		categories[i] = acc.Color(r)
	}

	return Scales{
		X:     NewLinear(xMin, xMax, 0, float64(l.InnerWidth())).Nice(DefaultTickCount),
		Y:     NewLinear(yMin, yMax, 0, float64(l.InnerHeight())),
		Color: NewOrdinal(categories, SpeciesPalette),
	}
}

// extent returns the minimum and maximum of f over rows, or 0, 0 for no rows.
func extent(rows []domain.Row, f domain.NumericField) (float64, float64) {
	if len(rows) == 0 {
		return 0, 0
	}
	lo, hi := f(rows[0]), f(rows[0])
	for _, r := range rows[1:] {
		v := f(r)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
