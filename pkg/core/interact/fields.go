package interact

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/errors"
)

// Register replaces the field registry. Registered fields that are not in
// the layout yet stay off the grid until they are added or toggled on.
func (o *Orchestrator) Register(fields []FieldDescriptor) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if err := errors.ValidateFieldID(f.ID); err != nil {
			return err
		}
		if seen[f.ID] {
			return errors.New(errors.ErrCodeDuplicateField, "field %q registered twice", f.ID)
		}
		seen[f.ID] = true
	}
	o.fields = slices.Clone(fields)
	return nil
}

// Fields returns the registered field descriptors in registration order.
func (o *Orchestrator) Fields() []FieldDescriptor {
	return slices.Clone(o.fields)
}

// AddField puts a new field on the grid: in the first row that has room at
// the given width, or in a new row at the bottom. An empty id gets a random
// one. A non-positive width means full width. The layout is normalized,
// committed and saved.
func (o *Orchestrator) AddField(id string, width float64) (grid.Placement, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if err := errors.ValidateFieldID(id); err != nil {
		return grid.Placement{}, err
	}
	if p, ok := o.committed[id]; ok && p.Visible() {
		return grid.Placement{}, errors.New(errors.ErrCodeDuplicateField, "field %q is already on the grid", id)
	}
	o.Settle()
	if o.state != StateIdle {
		return grid.Placement{}, invalidState("add a field", o.state)
	}

	if width <= 0 {
		width = o.cfg.DefaultWidth()
	}
	o.place(grid.Placement{ID: id, Width: o.cfg.NearestWidth(width)})
	if !slices.ContainsFunc(o.fields, func(f FieldDescriptor) bool { return f.ID == id }) {
		o.fields = append(o.fields, FieldDescriptor{ID: id})
	}
	added := o.committed[id]
	o.logger.Info("field added", "field", id, "row", added.Row(o.cfg), "width", added.Width)
	return added, nil
}

// ToggleField shows or hides id. Hidden fields keep their width so they come
// back at the same size. Either way the layout is normalized and committed.
func (o *Orchestrator) ToggleField(id string, visible bool) error {
	if !o.known(id) {
		return unknownField(id)
	}
	o.Settle()
	if o.state != StateIdle {
		return invalidState("toggle a field", o.state)
	}

	p, ok := o.committed[id]
	switch {
	case visible && ok && p.Visible():
		return nil
	case !visible && (!ok || p.Hidden()):
		return nil
	case visible:
		if p.Width <= 0 {
			p.Width = o.cfg.DefaultWidth()
		}
		p.ID = id
		o.place(p.WithWidth(o.cfg.NearestWidth(p.Width)))
	default:
		next := o.committed.Clone()
		next[id] = p.Hide()
		o.apply(o.compactor.Normalize(next))
	}
	o.logger.Info("field toggled", "field", id, "visible", visible)
	return nil
}

// place finds a slot for p, then normalizes and commits.
func (o *Orchestrator) place(p grid.Placement) {
	next := o.committed.Clone()
	delete(next, p.ID)

	rows := next.RowCount(o.cfg)
	placed := false
	for row := 0; row < rows && !placed; row++ {
		if col, ok := o.planner.FirstFit(p, row, next); ok {
			p = p.At(o.cfg.NormalizedX(col), row, o.cfg)
			placed = true
		}
	}
	if !placed {
		plan := o.planner.Preview(p, rows, next)
		next = plan.Layout
		p = plan.Placement(p.ID)
	}
	next[p.ID] = p
	o.apply(o.compactor.Normalize(next))
}

// apply commits l and animates the display there.
func (o *Orchestrator) apply(l grid.Layout) {
	o.commit(l)
	o.state = StateCommitting
	o.animate(l, o.profiles.Commit, func() { o.state = StateIdle })
}

// SetValue records a form value for id and notifies value listeners.
// The orchestrator never interprets values.
func (o *Orchestrator) SetValue(id string, value any) error {
	if !o.known(id) {
		return unknownField(id)
	}
	o.values[id] = value
	for _, fn := range o.valueListeners {
		fn(id, value)
	}
	return nil
}

// Value returns the last value set for id.
func (o *Orchestrator) Value(id string) (any, bool) {
	v, ok := o.values[id]
	return v, ok
}
