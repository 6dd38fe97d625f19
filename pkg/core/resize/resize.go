// Package resize turns edge drags into discrete width steps and settles the
// field on release.
//
// A gesture accumulates pointer travel. Each time the accumulator crosses
// ResizeStepFraction of the container width, the field steps to the next or
// previous allowed width and the accumulator resets. The edge opposite the
// dragged one stays put. While the gesture runs the field may overlap its
// neighbours; [Controller.End] resolves that by snapping to a nearby edge,
// searching for the nearest valid configuration, or reverting.
package resize

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/magnetgrid/pkg/core/collision"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

// Edge is the side of a field being dragged.
type Edge int

const (
	EdgeRight Edge = iota
	EdgeLeft
)

func (e Edge) String() string {
	if e == EdgeLeft {
		return "left"
	}
	return "right"
}

// Outcome says how a gesture was settled.
type Outcome int

const (
	// OutcomeKept means the resized field was valid as it was.
	OutcomeKept Outcome = iota
	// OutcomeSnapped means an edge was aligned to a nearby edge.
	OutcomeSnapped
	// OutcomeRelocated means the nearest valid width and position was used.
	OutcomeRelocated
	// OutcomeReverted means the field went back to its starting state.
	OutcomeReverted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSnapped:
		return "snapped"
	case OutcomeRelocated:
		return "relocated"
	case OutcomeReverted:
		return "reverted"
	default:
		return "kept"
	}
}

// Gesture is one active edge drag.
type Gesture struct {
	FieldID        string
	Edge           Edge
	Snapshot       grid.Placement
	Current        grid.Placement
	Accumulator    float64
	ContainerWidth float64
	Steps          int
}

// Result is the settled placement of a finished gesture.
type Result struct {
	Placement grid.Placement
	Outcome   Outcome
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for resize decisions.
func WithLogger(l grid.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller drives resize gestures on one grid.
type Controller struct {
	cfg    grid.Config
	logger grid.Logger
}

// New returns a Controller for the given grid.
func New(cfg grid.Config, opts ...Option) *Controller {
	c := &Controller{cfg: cfg.Clone(), logger: grid.NopLogger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin starts a gesture on p. A non-positive containerWidth treats deltas
// as normalized distances.
func (c *Controller) Begin(p grid.Placement, edge Edge, containerWidth float64) *Gesture {
	if containerWidth <= 0 {
		containerWidth = 1
	}
	return &Gesture{
		FieldID:        p.ID,
		Edge:           edge,
		Snapshot:       p,
		Current:        p,
		ContainerWidth: containerWidth,
	}
}

// Move feeds pointer travel into g. Positive deltas move the edge right.
// It reports whether the width stepped.
func (c *Controller) Move(g *Gesture, delta float64) bool {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return false
	}
	g.Accumulator += delta
	if math.Abs(g.Accumulator) < g.ContainerWidth*c.cfg.ResizeStepFraction {
		return false
	}

	expanding := (g.Edge == EdgeRight) == (g.Accumulator > 0)
	g.Accumulator = 0

	cur := g.Current
	var (
		w  float64
		ok bool
	)
	if expanding {
		w, ok = c.cfg.NextWidth(cur.Width)
	} else {
		w, ok = c.cfg.PrevWidth(cur.Width)
	}
	if !ok {
		return false
	}

	x := cur.Position.X
	if g.Edge == EdgeLeft {
		x = cur.Right() - w
	}
	g.Current = cur.WithWidth(w).At(grid.ClampX(x, w), cur.Row(c.cfg), c.cfg)
	g.Steps++
	c.logger.Debug("resize step", "field", g.FieldID, "edge", g.Edge, "width", w, "x", g.Current.Position.X)
	return true
}

// End settles g against l. The returned placement never overlaps another
// visible field of l unless the gesture's starting state already did.
func (c *Controller) End(g *Gesture, l grid.Layout) Result {
	if p, ok := c.snap(g, l); ok {
		out := OutcomeSnapped
		if p.Equal(g.Current) {
			out = OutcomeKept
		}
		return c.result(g, p, out)
	}
	if c.valid(g.Current, l) {
		return c.result(g, g.Current, OutcomeKept)
	}
	if p, ok := c.nearestValid(g, l); ok {
		return c.result(g, p, OutcomeRelocated)
	}
	c.logger.Warn("resize has no valid configuration, reverting", "field", g.FieldID)
	return c.result(g, g.Snapshot, OutcomeReverted)
}

func (c *Controller) result(g *Gesture, p grid.Placement, o Outcome) Result {
	c.logger.Debug("resize settled", "field", g.FieldID, "outcome", o, "width", p.Width, "x", p.Position.X)
	return Result{Placement: p, Outcome: o}
}

func (c *Controller) valid(p grid.Placement, l grid.Layout) bool {
	return collision.Fits(c.cfg, p, l, p.ID)
}

// snap aligns the dragged edge with the nearest edge in the row (or the
// container edge) within SnapDistance. The current width is tried first,
// then the allowed widths from widest to narrowest.
func (c *Controller) snap(g *Gesture, l grid.Layout) (grid.Placement, bool) {
	cur := g.Current
	row := cur.Row(c.cfg)
	edge := cur.Right()
	if g.Edge == EdgeLeft {
		edge = cur.Left()
	}

	anchors := []float64{0, 1}
	for _, o := range l.Row(c.cfg, row, cur.ID) {
		anchors = append(anchors, o.Left(), o.Right())
	}
	slices.SortStableFunc(anchors, func(a, b float64) int {
		return cmp.Compare(math.Abs(a-edge), math.Abs(b-edge))
	})

	widths := slices.Clone(c.cfg.Widths())
	slices.Reverse(widths)
	widths = append([]float64{cur.Width}, widths...)

	for _, a := range anchors {
		if math.Abs(a-edge) > c.cfg.SnapDistance+1e-9 {
			break
		}
		for _, w := range widths {
			x := a
			if g.Edge == EdgeRight {
				x = a - w
			}
			if x < -1e-9 || x+w > 1+1e-9 {
				continue
			}
			p := cur.WithWidth(w).At(max(0, x), row, c.cfg)
			if c.valid(p, l) {
				return p, true
			}
		}
	}
	return grid.Placement{}, false
}

// nearestValid searches widths from the current one downwards. For each
// width it tries keeping either edge and a few nearby columns, and returns
// the candidate closest to the current position at the first width that
// has one.
func (c *Controller) nearestValid(g *Gesture, l grid.Layout) (grid.Placement, bool) {
	cur := g.Current
	row := cur.Row(c.cfg)
	col := cur.Column(c.cfg)

	widths := c.cfg.Widths()
	for i := len(widths) - 1; i >= 0; i-- {
		w := widths[i]
		if w > cur.Width+1e-6 {
			continue
		}
		xs := []float64{cur.Left(), cur.Right() - w}
		for _, d := range []int{-1, 1, -2, 2} {
			if cc := col + d; cc >= 0 && cc < c.cfg.Columns {
				xs = append(xs, c.cfg.NormalizedX(cc))
			}
		}

		var (
			best  grid.Placement
			found bool
		)
		for _, x := range xs {
			if x < -1e-9 || x+w > 1+1e-9 {
				continue
			}
			p := cur.WithWidth(w).At(max(0, x), row, c.cfg)
			if !c.valid(p, l) {
				continue
			}
			if !found || math.Abs(p.Position.X-cur.Position.X) < math.Abs(best.Position.X-cur.Position.X)-1e-9 {
				best, found = p, true
			}
		}
		if found {
			return best, true
		}
	}
	return grid.Placement{}, false
}
