package interact

import (
	"github.com/matzehuels/magnetgrid/pkg/core/resize"
)

// ResizeStart begins dragging an edge of id.
func (o *Orchestrator) ResizeStart(id string, edge resize.Edge) error {
	if !o.known(id) {
		return unknownField(id)
	}
	o.Settle()
	if o.state != StateIdle {
		return invalidState("start a resize", o.state)
	}
	p, ok := o.committed[id]
	if !ok || p.Hidden() {
		return invalidState("resize hidden field "+id, o.state)
	}
	o.engine.Cancel(id)
	o.gesture = o.resizer.Begin(p, edge, o.containerWidth)
	o.state = StateResizing
	o.logger.Debug("resize start", "field", id, "edge", edge)
	return nil
}

// ResizeMove feeds delta pixels of edge travel into the running resize.
func (o *Orchestrator) ResizeMove(id string, edge resize.Edge, delta float64) error {
	if err := o.checkResize("move", id, edge); err != nil {
		return err
	}
	if !o.resizer.Move(o.gesture, delta) {
		return nil
	}
	target := o.display.Clone()
	target[id] = o.gesture.Current
	o.hooks.OnResizeStep(o.ctx, id, o.gesture.Current.Width)
	o.animate(target, o.profiles.Preview, nil)
	return nil
}

// ResizeEnd settles the resize against the committed layout and animates
// the field to its final place.
func (o *Orchestrator) ResizeEnd(id string, edge resize.Edge) error {
	if err := o.checkResize("end", id, edge); err != nil {
		return err
	}
	res := o.resizer.End(o.gesture, o.committed)
	o.gesture = nil
	o.state = StateSnapEvaluating
	o.hooks.OnResizeSettled(o.ctx, id, res.Outcome.String())

	target := o.committed.Clone()
	target[id] = res.Placement
	profile := o.profiles.Commit
	if res.Outcome == resize.OutcomeReverted {
		profile = o.profiles.Revert
	}
	o.animate(target, profile, func() {
		if !target.Equal(o.committed) {
			o.commit(target)
			o.logger.Info("resize committed", "field", id, "width", res.Placement.Width, "outcome", res.Outcome)
		}
		o.state = StateIdle
	})
	return nil
}

func (o *Orchestrator) checkResize(action, id string, edge resize.Edge) error {
	if !o.known(id) {
		return unknownField(id)
	}
	if o.gesture == nil || o.gesture.FieldID != id || o.gesture.Edge != edge {
		return invalidState(action+" resize of "+id, o.state)
	}
	return nil
}
