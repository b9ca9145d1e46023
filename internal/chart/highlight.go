package chart

import "github.com/couchcryptid/penguin-scatter/internal/domain"

// Highlight is the view derived from the hover state: the rows drawn
// on the overlay layer and the opacity of the full base layer.
type Highlight struct {
	Rows        []domain.Row
	BaseOpacity float64
}

// NewHighlight filters rows to the focused category, keeping their
// order. When nothing is focused the overlay is empty and the base
// layer is fully opaque.
func NewHighlight(rows []domain.Row, hover domain.HoverState, category domain.CategoryField, fade float64) Highlight {
	if !hover.IsFocused() {
		return Highlight{Rows: []domain.Row{}, BaseOpacity: 1}
	}
	filtered := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		if hover.Matches(category(r)) {
			filtered = append(filtered, r)
		}
	}
	return Highlight{Rows: filtered, BaseOpacity: fade}
}
