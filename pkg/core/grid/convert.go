package grid

import (
	"math"

	"github.com/matzehuels/magnetgrid/pkg/document"
	"github.com/matzehuels/magnetgrid/pkg/errors"
)

// Export converts a layout to the serialized format.
//
// Records are written in ID order so that the same layout always produces
// the same bytes, which keeps cache entries and diffs stable.
func Export(l Layout, key string) document.Layout {
	doc := document.Layout{
		Version: document.FormatVersion,
		Key:     key,
		Fields:  make([]document.Field, 0, len(l)),
	}
	for _, id := range l.IDs() {
		p := l[id]
		doc.Fields = append(doc.Fields, document.Field{
			ID:    id,
			Width: p.Width,
			X:     p.Position.X,
			Y:     p.Position.Y,
		})
	}
	return doc
}

// Parse converts a serialized layout back into a Layout.
// Returns an INVALID_LAYOUT error for empty or duplicate IDs.
func Parse(doc document.Layout) (Layout, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	l := make(Layout, len(doc.Fields))
	for _, f := range doc.Fields {
		l[f.ID] = Placement{
			ID:       f.ID,
			Width:    f.Width,
			Position: Position{X: f.X, Y: f.Y},
		}
	}
	return l, nil
}

// Sanitize snaps every visible placement of l back onto the grid: widths
// onto the allowed set, x inside the row, y onto a row boundary. It is used
// on layouts that come from outside the engine (files, HTTP bodies), never
// on layouts the engine produced itself.
func (c Config) Sanitize(l Layout) Layout {
	out := make(Layout, len(l))
	for _, id := range l.IDs() {
		p := l[id]
		p.ID = id
		if p.Visible() {
			p.Width = c.NearestWidth(p.Width)
			p.Position.X = ClampX(p.Position.X, p.Width)
			p.Position.Y = c.RowY(p.Row(c))
		}
		out[id] = p
	}
	return out
}

// Check returns an INVALID_LAYOUT error when a visible placement breaks the
// committed-layout invariants (allowed width, row-aligned y, inside the row).
func (c Config) Check(l Layout) error {
	for _, id := range l.IDs() {
		p := l[id]
		if p.Hidden() {
			continue
		}
		switch {
		case !c.IsAllowedWidth(p.Width):
			return errors.New(errors.ErrCodeInvalidLayout, "field %q has width %g outside the allowed set", id, p.Width)
		case p.Right() > 1+eps:
			return errors.New(errors.ErrCodeInvalidLayout, "field %q extends past the row (x=%g, width=%g)", id, p.Position.X, p.Width)
		case !rowAligned(p.Position.Y, c.RowHeight):
			return errors.New(errors.ErrCodeInvalidLayout, "field %q is not row aligned (y=%g)", id, p.Position.Y)
		}
	}
	return nil
}

func rowAligned(y, rowHeight float64) bool {
	if rowHeight <= 0 {
		return false
	}
	r := y / rowHeight
	return math.Abs(r-math.Round(r)) < 1e-6
}
