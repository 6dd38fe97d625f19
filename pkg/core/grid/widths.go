package grid

import "math"

// Widths returns the allowed field widths as normalized fractions, ascending.
func (c Config) Widths() []float64 {
	if c.Columns <= 0 {
		return nil
	}
	widths := make([]float64, len(c.WidthSpans))
	for i, span := range c.WidthSpans {
		widths[i] = float64(span) / float64(c.Columns)
	}
	return widths
}

// MinWidth returns the narrowest allowed width.
func (c Config) MinWidth() float64 {
	if w := c.Widths(); len(w) > 0 {
		return w[0]
	}
	return 0
}

// MaxWidth returns the widest allowed width.
func (c Config) MaxWidth() float64 {
	if w := c.Widths(); len(w) > 0 {
		return w[len(w)-1]
	}
	return 0
}

// DefaultWidth is the width a field without one is shown and placed at.
func (c Config) DefaultWidth() float64 { return c.MaxWidth() }

// IsAllowedWidth reports whether w is one of the allowed widths.
func (c Config) IsAllowedWidth(w float64) bool {
	for _, a := range c.Widths() {
		if SameWidth(a, w) {
			return true
		}
	}
	return false
}

// NextWidth returns the smallest allowed width strictly greater than w.
func (c Config) NextWidth(w float64) (float64, bool) {
	for _, a := range c.Widths() {
		if a > w+widthTolerance {
			return a, true
		}
	}
	return w, false
}

// PrevWidth returns the largest allowed width strictly smaller than w.
func (c Config) PrevWidth(w float64) (float64, bool) {
	widths := c.Widths()
	for i := len(widths) - 1; i >= 0; i-- {
		if widths[i] < w-widthTolerance {
			return widths[i], true
		}
	}
	return w, false
}

// NearestWidth snaps w onto the allowed set. Ties go to the wider value.
func (c Config) NearestWidth(w float64) float64 {
	widths := c.Widths()
	if len(widths) == 0 {
		return w
	}
	best := widths[0]
	for _, a := range widths[1:] {
		if math.Abs(a-w) <= math.Abs(best-w)+eps {
			best = a
		}
	}
	return best
}

// LargestWidthAtMost returns the widest allowed width that does not exceed limit.
func (c Config) LargestWidthAtMost(limit float64) (float64, bool) {
	widths := c.Widths()
	for i := len(widths) - 1; i >= 0; i-- {
		if widths[i] <= limit+widthTolerance {
			return widths[i], true
		}
	}
	return 0, false
}

// SameWidth reports whether two widths are equal up to float noise.
func SameWidth(a, b float64) bool {
	return math.Abs(a-b) <= widthTolerance
}
