// Package compact tidies a committed layout: it removes empty rows and
// lets fields grow into leftover space.
package compact

import (
	"math"

	"github.com/matzehuels/magnetgrid/pkg/core/collision"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

const eps = 1e-9

// Option configures a Compactor.
type Option func(*Compactor)

// WithLogger sets the logger for compaction passes.
func WithLogger(l grid.Logger) Option {
	return func(c *Compactor) {
		if l != nil {
			c.logger = l
		}
	}
}

// Compactor runs the post-commit passes. It is stateless apart from its
// configuration.
type Compactor struct {
	cfg    grid.Config
	logger grid.Logger
}

// New returns a Compactor for the given grid. ExpandThreshold and
// EqualWidthTolerance come from cfg.
func New(cfg grid.Config, opts ...Option) *Compactor {
	c := &Compactor{cfg: cfg.Clone(), logger: grid.NopLogger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize runs PullUp and then AutoExpand.
func (c *Compactor) Normalize(l grid.Layout) grid.Layout {
	return c.AutoExpand(c.PullUp(l))
}

// PullUp renumbers the occupied rows to 0..n-1, keeping their order.
// Columns and widths are preserved and hidden fields are left alone.
// PullUp is idempotent.
func (c *Compactor) PullUp(l grid.Layout) grid.Layout {
	out := l.Clone()
	for i, row := range l.RowIndexes(c.cfg) {
		if row == i {
			continue
		}
		for _, p := range l.Row(c.cfg, row, "") {
			out[p.ID] = p.At(p.Position.X, i, c.cfg)
		}
		c.logger.Debug("pull up row", "from", row, "to", i)
	}
	return out
}

// AutoExpand grows fields into free space, row by row. A row is only
// touched when its free share exceeds the expand threshold.
//
// A lone field takes the whole row. Equally wide fields are spread over
// equal slots. Otherwise the field closest to the largest gap grows into
// it, snapped to an allowed width that does not overlap anything.
func (c *Compactor) AutoExpand(l grid.Layout) grid.Layout {
	out := l.Clone()
	for row, fields := range l.Rows(c.cfg) {
		free := collision.FreeWidth(c.cfg, l, row, "")
		if free <= c.cfg.ExpandThreshold+eps {
			continue
		}
		switch {
		case len(fields) == 1:
			c.expandSingle(out, fields[0], row)
		case c.equalWidths(fields):
			if !c.redistribute(out, fields, row) {
				c.fillLargestGap(out, row)
			}
		default:
			c.fillLargestGap(out, row)
		}
	}
	return out
}

func (c *Compactor) expandSingle(out grid.Layout, p grid.Placement, row int) {
	w := c.cfg.MaxWidth()
	out[p.ID] = p.WithWidth(w).At(0, row, c.cfg)
	c.logger.Debug("expand single field", "field", p.ID, "row", row, "width", w)
}

func (c *Compactor) equalWidths(fields []grid.Placement) bool {
	for _, p := range fields[1:] {
		if math.Abs(p.Width-fields[0].Width) > c.cfg.EqualWidthTolerance {
			return false
		}
	}
	return true
}

// redistribute spreads fields over len(fields) equal slots. It reports false
// when no allowed width would make the fields wider.
func (c *Compactor) redistribute(out grid.Layout, fields []grid.Placement, row int) bool {
	n := float64(len(fields))
	w, ok := c.cfg.LargestWidthAtMost(1 / n)
	if !ok || w <= fields[0].Width+eps || w*n > 1+eps {
		return false
	}
	for i, p := range fields {
		out[p.ID] = p.WithWidth(w).At(float64(i)*w, row, c.cfg)
	}
	c.logger.Debug("redistribute row", "row", row, "fields", len(fields), "width", w)
	return true
}

// fillLargestGap grows the field nearest to the widest gap of row.
func (c *Compactor) fillLargestGap(out grid.Layout, row int) {
	gaps := collision.Gaps(c.cfg, out, row, "")
	if len(gaps) == 0 {
		return
	}
	gap := gaps[0]
	for _, g := range gaps[1:] {
		if g.Width() > gap.Width()+eps {
			gap = g
		}
	}

	mid := (gap.Left + gap.Right) / 2
	var (
		best  grid.Placement
		found bool
	)
	for _, p := range out.Row(c.cfg, row, "") {
		if !found || math.Abs(p.CenterX()-mid) < math.Abs(best.CenterX()-mid)-eps {
			best, found = p, true
		}
	}
	if !found {
		return
	}

	limit := best.Width + gap.Width()
	w := c.cfg.NearestWidth(limit)
	if w > limit+1e-6 {
		var ok bool
		if w, ok = c.cfg.LargestWidthAtMost(limit); !ok {
			return
		}
	}
	if w <= best.Width+eps {
		return
	}

	x := best.Position.X
	if best.Left() >= gap.Right-1e-6 {
		// The gap is on the left: keep the right edge.
		x = best.Right() - w
	}
	grown := best.WithWidth(w).At(grid.ClampX(x, w), row, c.cfg)
	if !collision.Fits(c.cfg, grown, out, best.ID) {
		return
	}
	out[best.ID] = grown
	c.logger.Debug("expand into gap", "field", best.ID, "row", row, "from", best.Width, "to", w)
}
