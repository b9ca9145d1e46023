package chart

import "github.com/couchcryptid/penguin-scatter/internal/domain"

// LegendEntry is one category row of the color legend.
type LegendEntry struct {
	Category   string
	Fill       string
	Y          float64
	Radius     float64
	TextOffset float64
	Opacity    float64
}

// Legend lists the color scale's categories top to bottom. While a
// category is focused every other entry is faded.
func Legend(color Ordinal, hover domain.HoverState, l Layout) []LegendEntry {
	categories := color.Domain()
	entries := make([]LegendEntry, len(categories))
	for i, c := range categories {
		opacity := 1.0
		if hover.IsFocused() && !hover.Matches(c) {
			opacity = l.FadeOpacity
		}
		entries[i] = LegendEntry{
			Category:   c,
			Fill:       color.Map(c),
			Y:          float64(i) * l.LegendSpacing,
			Radius:     l.LegendSwatch,
			TextOffset: l.LegendTextOffset,
			Opacity:    opacity,
		}
	}
	return entries
}
