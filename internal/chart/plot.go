package chart

import "github.com/couchcryptid/penguin-scatter/internal/domain"

// Plot is the complete visual tree for one dataset and hover state.
type Plot struct {
	Layout Layout
	Scales Scales

	XTicks []Tick
	YTicks []Tick
	Legend []LegendEntry

	// Base holds every row and is drawn first at BaseOpacity. Overlay
	// holds the focused rows and is drawn on top at full opacity.
	Base        []Mark
	BaseOpacity float64
	Overlay     []Mark
}

// Build derives the plot from rows and the current hover state.
func Build(rows []domain.Row, hover domain.HoverState, acc Accessors, l Layout) Plot {
	s := BuildScales(rows, acc, l)
	hl := NewHighlight(rows, hover, acc.Color, l.FadeOpacity)

	return Plot{
		Layout:      l,
		Scales:      s,
		XTicks:      Ticks(s.X, XTickFormat),
		YTicks:      Ticks(s.Y, nil),
		Legend:      Legend(s.Color, hover, l),
		Base:        Marks(rows, s, acc, l.CircleRadius, XTickFormat),
		BaseOpacity: hl.BaseOpacity,
		Overlay:     Marks(hl.Rows, s, acc, l.CircleRadius, XTickFormat),
	}
}
