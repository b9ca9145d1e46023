package chart

// Tick is one labeled reference mark along an axis.
type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// Ticks lays out the default ticks of s. A nil format prints the raw value.
func Ticks(s Linear, format Formatter) []Tick {
	if format == nil {
		format = FormatNumber
	}
	values := s.Ticks(DefaultTickCount)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Value: v, Pos: s.Map(v), Label: format(v)}
	}
	return ticks
}
