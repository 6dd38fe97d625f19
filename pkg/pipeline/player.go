package pipeline

import (
	"time"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/core/interact"
	"github.com/matzehuels/magnetgrid/pkg/errors"
)

// player turns script events into orchestrator calls.
type player struct {
	o     *interact.Orchestrator
	cfg   grid.Config
	width float64
	tick  func()
	frame time.Duration
}

func (p *player) play(ev Event) error {
	o := p.o
	switch ev.Op {
	case OpDragStart:
		return o.DragStart(ev.Field, interact.Point{X: ev.X, Y: ev.Y})
	case OpDragMove:
		return o.DragMove(ev.Field, interact.Point{X: ev.X, Y: ev.Y})
	case OpDragEnd:
		return o.DragEnd(ev.Field)
	case OpDragCancel:
		return o.DragCancel(ev.Field)
	case OpDrag:
		return p.drag(ev)
	case OpResizeStart, OpResizeMove, OpResizeEnd, OpResize:
		edge, err := parseEdge(ev.Edge)
		if err != nil {
			return err
		}
		switch ev.Op {
		case OpResizeStart:
			return o.ResizeStart(ev.Field, edge)
		case OpResizeMove:
			return o.ResizeMove(ev.Field, edge, ev.Delta)
		case OpResizeEnd:
			return o.ResizeEnd(ev.Field, edge)
		}
		return p.resize(ev)
	case OpTap:
		return o.Tap(ev.Field)
	case OpAdd:
		_, err := o.AddField(ev.Field, ev.Width)
		return err
	case OpToggle:
		return o.ToggleField(ev.Field, *ev.Visible)
	case OpSetValue:
		return o.SetValue(ev.Field, ev.Value)
	case OpWait:
		for elapsed := time.Duration(0); elapsed < time.Duration(ev.MS)*time.Millisecond; elapsed += p.frame {
			p.tick()
		}
		return nil
	}
	return errors.New(errors.ErrCodeUnsupported, "unknown op %q", ev.Op)
}

// drag presses the field where it currently sits and moves the pointer in
// steps to the target cell, ticking a frame between moves.
func (p *player) drag(ev Event) error {
	o := p.o
	pl, ok := o.Layout()[ev.Field]
	if !ok || pl.Hidden() {
		pl = grid.Placement{ID: ev.Field}
	}
	start := interact.Point{
		X: pl.Position.X*p.width + 1,
		Y: pl.Position.Y + 1,
	}
	if err := o.DragStart(ev.Field, start); err != nil {
		return err
	}

	target := interact.Point{
		X: p.cfg.NormalizedX(ev.Column)*p.width + 1,
		Y: p.cfg.RowY(ev.Row) + 1,
	}
	steps := ev.Steps
	if steps <= 0 {
		steps = DefaultDragSteps
	}
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		pt := interact.Point{
			X: start.X + (target.X-start.X)*f,
			Y: start.Y + (target.Y-start.Y)*f,
		}
		if err := o.DragMove(ev.Field, pt); err != nil {
			_ = o.DragCancel(ev.Field)
			return err
		}
		p.tick()
	}
	return o.DragEnd(ev.Field)
}

// resize drags one edge by Delta pixels in Steps moves.
func (p *player) resize(ev Event) error {
	o := p.o
	edge, _ := parseEdge(ev.Edge)
	if err := o.ResizeStart(ev.Field, edge); err != nil {
		return err
	}
	steps := ev.Steps
	if steps <= 0 {
		steps = DefaultDragSteps
	}
	for i := 0; i < steps; i++ {
		if err := o.ResizeMove(ev.Field, edge, ev.Delta/float64(steps)); err != nil {
			return err
		}
		p.tick()
	}
	return o.ResizeEnd(ev.Field, edge)
}
