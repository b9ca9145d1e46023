// Package chart builds the penguin scatter plot: scales, axis ticks,
// marks, the color legend and the highlight layers, and writes the
// result as SVG.
package chart

// Margin is the space between the outer SVG edge and the plot area.
type Margin struct {
	Top, Right, Bottom, Left int
}

// Layout holds the fixed visual constants of the plot.
type Layout struct {
	Width, Height int
	Margin        Margin

	CircleRadius float64
	FadeOpacity  float64

	// Legend entries are stacked LegendSpacing apart, starting at
	// (InnerWidth+LegendOffsetX, LegendOffsetY).
	LegendSpacing    float64
	LegendSwatch     float64
	LegendTextOffset float64
	LegendOffsetX    int
	LegendOffsetY    int

	XLabelOffset int
	YLabelOffset int
	TickOffset   int

	XLabel      string
	YLabel      string
	LegendLabel string
}

// DefaultLayout returns the 960x500 penguin plot layout.
func DefaultLayout() Layout {
	const circleRadius = 7
	return Layout{
		Width:  960,
		Height: 500,
		Margin: Margin{Top: 20, Right: 200, Bottom: 65, Left: 90},

		CircleRadius: circleRadius,
		FadeOpacity:  0.2,

		LegendSpacing: 22,
		// The legend swatch shares the mark radius rather than the
		// 10px default; see DESIGN.md.
		LegendSwatch:     circleRadius,
		LegendTextOffset: 12,
		LegendOffsetX:    60,
		LegendOffsetY:    60,

		XLabelOffset: 50,
		YLabelOffset: 45,
		TickOffset:   5,

		XLabel:      "Bill Length",
		YLabel:      "Bill Depth",
		LegendLabel: "Species",
	}
}

// InnerWidth is the plot area width.
func (l Layout) InnerWidth() int { return l.Width - l.Margin.Left - l.Margin.Right }

// InnerHeight is the plot area height.
func (l Layout) InnerHeight() int { return l.Height - l.Margin.Top - l.Margin.Bottom }
