package chart

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"
)

// WriteSVG renders p as a standalone SVG document.
func (p Plot) WriteSVG(w io.Writer) error {
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	l := p.Layout
	innerW, innerH := l.InnerWidth(), l.InnerHeight()

	canvas.Start(l.Width, l.Height)
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", l.Margin.Left, l.Margin.Top))

	for _, t := range p.XTicks {
		canvas.Group(`class="tick"`, fmt.Sprintf(`transform="translate(%s,0)"`, num(t.Pos)))
		canvas.Line(0, 0, 0, innerH)
		canvas.Text(0, innerH+l.TickOffset, t.Label, `text-anchor="middle"`, `dy=".71em"`)
		canvas.Gend()
	}

	canvas.Text(0, 0, l.YLabel,
		`class="axis-label"`, `text-anchor="middle"`,
		fmt.Sprintf(`transform="translate(%d,%s) rotate(-90)"`, -l.YLabelOffset, num(float64(innerH)/2)))

	for _, t := range p.YTicks {
		canvas.Group(`class="tick"`, fmt.Sprintf(`transform="translate(0,%s)"`, num(t.Pos)))
		canvas.Line(0, 0, innerW, 0)
		canvas.Text(-l.TickOffset, 0, t.Label, `text-anchor="end"`, `dy=".32em"`)
		canvas.Gend()
	}

	canvas.Text(innerW/2, innerH+l.XLabelOffset, l.XLabel, `class="axis-label"`, `text-anchor="middle"`)

	canvas.Group(`class="legend"`, fmt.Sprintf(`transform="translate(%d,%d)"`, innerW+l.LegendOffsetX, l.LegendOffsetY))
	canvas.Text(35, -25, l.LegendLabel, `class="axis-label"`, `text-anchor="middle"`)
	for _, e := range p.Legend {
		canvas.Group(`class="tick"`,
			fmt.Sprintf(`data-category="%s"`, html.EscapeString(e.Category)),
			fmt.Sprintf(`transform="translate(0,%s)"`, num(e.Y)),
			fmt.Sprintf(`opacity="%s"`, num(e.Opacity)))
		canvas.Circle(0, 0, radius(e.Radius), fmt.Sprintf(`fill="%s"`, e.Fill))
		canvas.Text(int(e.TextOffset), 0, e.Category, `dy=".32em"`)
		canvas.Gend()
	}
	canvas.Gend()

	canvas.Group(`class="marks"`, fmt.Sprintf(`opacity="%s"`, num(p.BaseOpacity)))
	writeMarks(canvas, p.Base)
	canvas.Gend()

	canvas.Group(`class="marks highlight"`)
	writeMarks(canvas, p.Overlay)
	canvas.Gend()

	canvas.Gend()
	canvas.End()
	return bw.Flush()
}

func writeMarks(canvas *svg.SVG, marks []Mark) {
	for _, m := range marks {
		if !isFinite(m.X) || !isFinite(m.Y) {
			continue
		}
		canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", num(m.X), num(m.Y)))
		canvas.Title(m.Tooltip)
		canvas.Circle(0, 0, radius(m.Radius), `class="mark"`, fmt.Sprintf(`fill="%s"`, m.Fill))
		canvas.Gend()
	}
}

func radius(r float64) int { return int(math.Round(r)) }

// num prints a coordinate with at most three decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
