package interact

import (
	"github.com/matzehuels/magnetgrid/pkg/core/anim"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

// animate tweens the display towards target and runs then once the display
// arrived. Fields that appear, disappear or are hidden on either side jump
// instead of sliding. The tween replaces the pending one, which is
// dropped without running its completion.
func (o *Orchestrator) animate(target grid.Layout, p anim.Profile, then func()) {
	if o.pending != nil {
		o.engine.Stop(o.pending)
		o.pending, o.pendingDone = nil, nil
	}
	from := o.display.Clone()
	for id, t := range target {
		f, ok := from[id]
		if !ok || f.Hidden() || t.Hidden() {
			from[id] = t
			o.display[id] = t
		}
	}
	for id := range o.display {
		if _, ok := target[id]; !ok {
			delete(o.display, id)
			delete(from, id)
		}
	}

	var (
		tw       *anim.Tween
		finished bool
	)
	complete := func() {
		if finished {
			return
		}
		finished = true
		o.display = target.Clone()
		if o.pending == tw {
			o.pending, o.pendingDone = nil, nil
		}
		if then != nil {
			then()
		}
	}
	tw = o.engine.Tween(from, target, p, func(frame grid.Layout) {
		for id, pl := range frame {
			o.display[id] = pl
		}
	}, complete)
	o.pending, o.pendingDone = tw, complete
}
