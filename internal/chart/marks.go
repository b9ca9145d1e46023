package chart

import "github.com/couchcryptid/penguin-scatter/internal/domain"

// Mark is one plotted glyph.
type Mark struct {
	X, Y     float64
	Radius   float64
	Fill     string
	Category string
	Tooltip  string
}

// Marks places one circle per row. The tooltip shows the formatted x
// value of the row.
func Marks(rows []domain.Row, s Scales, acc Accessors, radius float64, tooltip Formatter) []Mark {
	if tooltip == nil {
		tooltip = FormatNumber
	}
	marks := make([]Mark, len(rows))
	for i, r := range rows {
		x, category := acc.X(r), acc.Color(r)
		marks[i] = Mark{
			X:        s.X.Map(x),
			Y:        s.Y.Map(acc.Y(r)),
			Radius:   radius,
			Fill:     s.Color.Map(category),
			Category: category,
			Tooltip:  tooltip(x),
		}
	}
	return marks
}
