package interact

import (
	"math"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

// DragStart begins a drag of id with the pointer at p. Hidden or not yet
// placed fields can be dragged in from outside the grid; they start under
// the pointer.
func (o *Orchestrator) DragStart(id string, p Point) error {
	if !o.known(id) {
		return unknownField(id)
	}
	o.Settle()
	if o.state != StateIdle {
		return invalidState("start a drag", o.state)
	}
	o.engine.Cancel(id)

	start := grid.Position{X: p.X / o.containerWidth, Y: p.Y}
	if f, ok := o.committed[id]; ok && f.Visible() {
		start = f.Position
	}
	o.drag = &DragSession{
		FieldID:      id,
		PointerStart: p,
		Pointer:      p,
		FieldStart:   start,
		Snapshot:     o.committed.Clone(),
		Started:      o.engine.Now(),
	}
	o.state = StateDragging
	o.logger.Debug("drag start", "field", id, "x", p.X, "y", p.Y)
	o.hooks.OnDragStart(o.ctx, id)
	return nil
}

// DragMove updates the pointer of the running drag. Once the pointer left
// the drag threshold, the field previews in the row under its center.
func (o *Orchestrator) DragMove(id string, p Point) error {
	if err := o.checkDrag("move", id); err != nil {
		return err
	}
	d := o.drag
	d.Pointer = p

	dx, dy := p.X-d.PointerStart.X, p.Y-d.PointerStart.Y
	if !d.Moved {
		if math.Hypot(dx, dy) <= o.cfg.DragThreshold {
			return nil
		}
		d.Moved = true
		o.state = StatePreviewActive
	}

	row := o.cfg.RowOf(d.FieldStart.Y + dy + o.cfg.RowHeight/2)
	if o.preview != nil && o.preview.TargetRow == row {
		return nil
	}

	baseline := d.Snapshot
	plan := o.planner.Preview(o.dragged(), row, baseline)
	o.preview = &PreviewState{
		FieldID:   id,
		TargetRow: row,
		Layout:    plan.Layout,
		Baseline:  baseline,
		Strategy:  plan.Strategy,
		Clamped:   plan.Clamped,
	}
	o.logger.Debug("preview", "field", id, "row", row, "strategy", plan.Strategy, "column", plan.Column)
	o.hooks.OnPreview(o.ctx, id, row, plan.Strategy.String(), plan.Clamped)
	o.animate(plan.Layout, o.profiles.Preview, nil)
	return nil
}

// DragEnd releases the pointer. A drag that never left the threshold is a
// tap and selects the field. Otherwise the preview is committed.
func (o *Orchestrator) DragEnd(id string) error {
	if err := o.checkDrag("end a drag", id); err != nil {
		return err
	}
	d := o.drag
	o.drag = nil

	if !d.Moved || o.preview == nil {
		o.state = StateIdle
		o.preview = nil
		o.selected = id
		o.logger.Debug("tap", "field", id)
		return nil
	}

	target := o.preview.Layout
	o.preview = nil
	o.state = StateCommitting
	o.animate(target, o.profiles.Commit, func() {
		normalized := o.compactor.Normalize(target)
		o.commit(normalized)
		o.hooks.OnCommit(o.ctx, id, len(normalized), o.engine.Now().Sub(d.Started))
		o.logger.Info("layout committed", "field", id, "rows", normalized.RowCount(o.cfg))
		if o.display.Equal(normalized) {
			o.state = StateIdle
			return
		}
		o.animate(normalized, o.profiles.Commit, func() { o.state = StateIdle })
	})
	return nil
}

// DragCancel abandons the drag and animates back to the committed layout.
func (o *Orchestrator) DragCancel(id string) error {
	if err := o.checkDrag("cancel a drag", id); err != nil {
		return err
	}
	o.drag, o.preview = nil, nil
	o.state = StateIdle
	o.logger.Debug("drag cancelled", "field", id)
	o.animate(o.committed.Clone(), o.profiles.Revert, nil)
	return nil
}

// Tap selects id.
func (o *Orchestrator) Tap(id string) error {
	if !o.known(id) {
		return unknownField(id)
	}
	if o.drag != nil || o.gesture != nil {
		return invalidState("tap", o.state)
	}
	o.selected = id
	return nil
}

func (o *Orchestrator) checkDrag(action, id string) error {
	if !o.known(id) {
		return unknownField(id)
	}
	if o.drag == nil || o.drag.FieldID != id {
		return invalidState(action+" of "+id, o.state)
	}
	return nil
}
