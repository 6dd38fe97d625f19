package grid

import "math"

// Position is the top-left corner of a field. X is normalized to the
// container width; Y is in layout units.
type Position struct {
	X, Y float64
}

// HiddenPosition parks a field outside the grid.
var HiddenPosition = Position{X: -1, Y: -1}

// Placement is where a single field sits on the grid.
type Placement struct {
	ID       string
	Width    float64
	Position Position
}

// Hidden reports whether the placement is excluded from the grid.
func (p Placement) Hidden() bool {
	return p.Width <= 0 || p.Position.X < 0 || p.Position.Y < 0
}

// Visible is the negation of Hidden.
func (p Placement) Visible() bool { return !p.Hidden() }

// Left returns the normalized left edge.
func (p Placement) Left() float64 { return p.Position.X }

// Right returns the normalized right edge.
func (p Placement) Right() float64 { return p.Position.X + p.Width }

// CenterX returns the normalized horizontal center.
func (p Placement) CenterX() float64 { return p.Position.X + p.Width/2 }

// Row returns the row the placement occupies.
func (p Placement) Row(c Config) int { return c.RowOf(p.Position.Y) }

// Column returns the column of the left edge.
func (p Placement) Column(c Config) int { return c.ColumnOf(p.Position.X) }

// At returns a copy of p moved to x in row.
func (p Placement) At(x float64, row int, c Config) Placement {
	p.Position = Position{X: x, Y: c.RowY(row)}
	return p
}

// WithWidth returns a copy of p with a new width.
func (p Placement) WithWidth(w float64) Placement {
	p.Width = w
	return p
}

// Hide returns a copy of p parked at HiddenPosition. The width is kept so
// the field can come back at the same size.
func (p Placement) Hide() Placement {
	p.Position = HiddenPosition
	return p
}

// Equal compares two placements up to float noise.
func (p Placement) Equal(o Placement) bool {
	return p.ID == o.ID &&
		math.Abs(p.Width-o.Width) <= eps &&
		math.Abs(p.Position.X-o.Position.X) <= eps &&
		math.Abs(p.Position.Y-o.Position.Y) <= eps
}
