package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/penguin-scatter/internal/domain"
)

// threeRows is the smallest dataset with a repeated category.
func threeRows() []domain.Row {
	return []domain.Row{
		{Species: "A", BillLengthMM: 10, BillDepthMM: 1},
		{Species: "B", BillLengthMM: 20, BillDepthMM: 2},
		{Species: "A", BillLengthMM: 15, BillDepthMM: 3},
	}
}

func TestNewHighlight_Focused(t *testing.T) {
	rows := threeRows()

	hl := NewHighlight(rows, domain.Focused("A"), domain.Species, 0.2)

	assert.Equal(t, []domain.Row{rows[0], rows[2]}, hl.Rows)
	assert.Equal(t, 0.2, hl.BaseOpacity)
}

func TestNewHighlight_Idle(t *testing.T) {
	hl := NewHighlight(threeRows(), domain.HoverState{}, domain.Species, 0.2)

	assert.NotNil(t, hl.Rows)
	assert.Empty(t, hl.Rows)
	assert.Equal(t, 1.0, hl.BaseOpacity)
}

func TestNewHighlight_AfterExit(t *testing.T) {
	hover := domain.HoverState{}.Enter("A").Exit()

	hl := NewHighlight(threeRows(), hover, domain.Species, 0.2)

	assert.Empty(t, hl.Rows)
	assert.Equal(t, 1.0, hl.BaseOpacity)
}

func TestNewHighlight_UnknownCategory(t *testing.T) {
	hl := NewHighlight(threeRows(), domain.Focused("Z"), domain.Species, 0.2)

	assert.Empty(t, hl.Rows)
	assert.Equal(t, 0.2, hl.BaseOpacity)
}

func TestLegend(t *testing.T) {
	color := NewOrdinal([]string{adelie, chinstrap, gentoo}, SpeciesPalette)
	l := DefaultLayout()

	entries := Legend(color, domain.HoverState{}, l)

	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, float64(i)*22, e.Y)
		assert.Equal(t, 7.0, e.Radius)
		assert.Equal(t, 12.0, e.TextOffset)
		assert.Equal(t, 1.0, e.Opacity)
		assert.Equal(t, SpeciesPalette[i], e.Fill)
	}
	assert.Equal(t, chinstrap, entries[1].Category)
}

func TestLegend_FadesOthers(t *testing.T) {
	color := NewOrdinal([]string{adelie, chinstrap, gentoo}, SpeciesPalette)

	entries := Legend(color, domain.Focused(chinstrap), DefaultLayout())

	require.Len(t, entries, 3)
	assert.Equal(t, 0.2, entries[0].Opacity)
	assert.Equal(t, 1.0, entries[1].Opacity)
	assert.Equal(t, 0.2, entries[2].Opacity)
}

func TestTicks(t *testing.T) {
	s := NewLinear(30, 60, 0, 600)

	ticks := Ticks(s, XTickFormat)

	require.Len(t, ticks, 16)
	assert.Equal(t, Tick{Value: 30, Pos: 0, Label: "30"}, ticks[0])
	assert.Equal(t, "40", ticks[5].Label)
	assert.InDelta(t, 200, ticks[5].Pos, 1e-9)
	assert.InDelta(t, 600, ticks[15].Pos, 1e-9)
}

func TestTicks_DefaultFormat(t *testing.T) {
	ticks := Ticks(NewLinear(0, 1, 0, 10), nil)

	require.Len(t, ticks, 11)
	assert.Equal(t, "0.5", ticks[5].Label)
	assert.Equal(t, "1", ticks[10].Label)
}

func TestMarks(t *testing.T) {
	rows := threeRows()
	s := Scales{
		X:     NewLinear(0, 40, 0, 400),
		Y:     NewLinear(1, 3, 0, 200),
		Color: NewOrdinal([]string{"A", "B"}, SpeciesPalette),
	}

	marks := Marks(rows, s, DefaultAccessors(), 7, XTickFormat)

	require.Len(t, marks, 3)
	assert.Equal(t, Mark{X: 100, Y: 0, Radius: 7, Fill: SpeciesPalette[0], Category: "A", Tooltip: "10"}, marks[0])
	assert.Equal(t, SpeciesPalette[1], marks[1].Fill)
	assert.InDelta(t, 150, marks[2].X, 1e-9)
	assert.InDelta(t, 200, marks[2].Y, 1e-9)
}

func TestBuild_Focused(t *testing.T) {
	p := Build(threeRows(), domain.Focused("A"), DefaultAccessors(), DefaultLayout())

	assert.Len(t, p.Base, 3)
	assert.Equal(t, 0.2, p.BaseOpacity)
	require.Len(t, p.Overlay, 2)
	assert.Equal(t, p.Base[0], p.Overlay[0], "overlay marks sit exactly on their base marks")
	assert.Equal(t, p.Base[2], p.Overlay[1])
	assert.Len(t, p.Legend, 2)
}

func TestBuild_Idle(t *testing.T) {
	p := Build(threeRows(), domain.HoverState{}, DefaultAccessors(), DefaultLayout())

	assert.Len(t, p.Base, 3)
	assert.Empty(t, p.Overlay)
	assert.Equal(t, 1.0, p.BaseOpacity)
	assert.NotEmpty(t, p.XTicks)
	assert.NotEmpty(t, p.YTicks)
}
