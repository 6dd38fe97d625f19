package planner

import (
	"github.com/matzehuels/magnetgrid/pkg/core/collision"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

// Strategy names how a preview was resolved.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyResize
	StrategyDirect
	StrategyPushDown
)

func (s Strategy) String() string {
	switch s {
	case StrategyResize:
		return "resize"
	case StrategyDirect:
		return "direct"
	case StrategyPushDown:
		return "push-down"
	default:
		return "none"
	}
}

// Plan is a candidate layout for a drag over a target row.
type Plan struct {
	Layout   grid.Layout
	Strategy Strategy
	Row      int
	Column   int
	Width    float64
	// Clamped is set when push-down ran out of rows.
	Clamped bool
}

// Placement returns the dragged field's placement inside the plan.
func (p Plan) Placement(id string) grid.Placement {
	return p.Layout[id]
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger for planning decisions.
func WithLogger(l grid.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// Planner computes previews. It holds no per-drag state and may be reused.
type Planner struct {
	cfg    grid.Config
	logger grid.Logger
}

// New returns a Planner for the given grid.
func New(cfg grid.Config, opts ...Option) *Planner {
	p := &Planner{cfg: cfg.Clone(), logger: grid.NopLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the grid the planner works on.
func (p *Planner) Config() grid.Config { return p.cfg }

// Preview plans dropping dragged into targetRow of baseline. The dragged
// field does not need to be part of baseline; when it is, its old slot is
// ignored. baseline is never modified. A hidden dragged field is shown at
// its stored width, or the grid default width when it has none.
func (p *Planner) Preview(dragged grid.Placement, targetRow int, baseline grid.Layout) Plan {
	row := max(0, min(targetRow, p.cfg.MaxRows-1))
	if dragged.Width <= 0 {
		dragged.Width = p.cfg.DefaultWidth()
	}
	if !p.cfg.IsAllowedWidth(dragged.Width) {
		dragged.Width = p.cfg.NearestWidth(dragged.Width)
	}

	if !p.rowFull(row, dragged.ID, baseline) {
		if plan, ok := p.tryResize(dragged, row, baseline); ok {
			return plan
		}
		if plan, ok := p.tryDirect(dragged, row, baseline); ok {
			return plan
		}
	}
	return p.pushDown(dragged, row, baseline)
}

// rowFull reports whether every column of row is covered by another field.
func (p *Planner) rowFull(row int, draggedID string, l grid.Layout) bool {
	occupied := make([]bool, p.cfg.Columns)
	for _, o := range l.Row(p.cfg, row, draggedID) {
		start := o.Column(p.cfg)
		for c := start; c < start+p.cfg.ColumnSpan(o.Width, start); c++ {
			occupied[c] = true
		}
	}
	for _, taken := range occupied {
		if !taken {
			return false
		}
	}
	return true
}

func (p *Planner) tryResize(dragged grid.Placement, row int, l grid.Layout) (Plan, bool) {
	width, ok := p.resizeWidth(collision.FreeWidth(p.cfg, l, row, dragged.ID), dragged.Width)
	if !ok {
		return Plan{}, false
	}
	col, ok := p.FirstFit(dragged.WithWidth(width), row, l)
	if !ok {
		return Plan{}, false
	}
	p.logger.Debug("preview resize", "field", dragged.ID, "row", row, "column", col, "from", dragged.Width, "to", width)
	return p.place(dragged.WithWidth(width), row, col, l, StrategyResize), true
}

// resizeWidth returns the widest allowed width that fits in free and is not
// the current width.
func (p *Planner) resizeWidth(free, current float64) (float64, bool) {
	widths := p.cfg.Widths()
	for i := len(widths) - 1; i >= 0; i-- {
		w := widths[i]
		if w > free+1e-6 || grid.SameWidth(w, current) {
			continue
		}
		return w, true
	}
	return 0, false
}

func (p *Planner) tryDirect(dragged grid.Placement, row int, l grid.Layout) (Plan, bool) {
	col, ok := p.FirstFit(dragged, row, l)
	if !ok {
		return Plan{}, false
	}
	p.logger.Debug("preview direct", "field", dragged.ID, "row", row, "column", col)
	return p.place(dragged, row, col, l, StrategyDirect), true
}

// FirstFit scans the start columns of row left to right and returns the
// first one where field fits at its current width without overlap.
func (p *Planner) FirstFit(field grid.Placement, row int, l grid.Layout) (int, bool) {
	span := p.cfg.ColumnSpan(field.Width, 0)
	for col := 0; col <= p.cfg.Columns-span; col++ {
		candidate := field.At(p.cfg.NormalizedX(col), row, p.cfg)
		if collision.Fits(p.cfg, candidate, l, field.ID) {
			return col, true
		}
	}
	return 0, false
}

func (p *Planner) place(field grid.Placement, row, col int, l grid.Layout, s Strategy) Plan {
	out := l.Clone()
	out[field.ID] = field.At(p.cfg.NormalizedX(col), row, p.cfg)
	return Plan{Layout: out, Strategy: s, Row: row, Column: col, Width: field.Width}
}

// pushDown shifts every visible field at or below row down by one row and
// drops the dragged field at column 0 of row.
func (p *Planner) pushDown(dragged grid.Placement, row int, l grid.Layout) Plan {
	out := l.Clone()
	last := p.cfg.MaxRows - 1
	clamped := false

	for _, o := range l.Ordered(p.cfg) {
		if o.ID == dragged.ID {
			continue
		}
		r := o.Row(p.cfg)
		if r < row {
			continue
		}
		next := r + 1
		if next > last {
			next = last
			clamped = true
		}
		out[o.ID] = o.At(o.Position.X, next, p.cfg)
	}

	out[dragged.ID] = dragged.At(0, row, p.cfg)
	if clamped {
		p.logger.Warn("push-down exceeded the last row, fields clamped", "field", dragged.ID, "row", row, "max_rows", p.cfg.MaxRows)
	} else {
		p.logger.Debug("preview push-down", "field", dragged.ID, "row", row)
	}
	return Plan{Layout: out, Strategy: StrategyPushDown, Row: row, Column: 0, Width: dragged.Width, Clamped: clamped}
}
