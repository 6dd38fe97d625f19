package interact

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/magnetgrid/pkg/core/anim"
	"github.com/matzehuels/magnetgrid/pkg/core/compact"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/core/planner"
	"github.com/matzehuels/magnetgrid/pkg/core/resize"
	"github.com/matzehuels/magnetgrid/pkg/errors"
	"github.com/matzehuels/magnetgrid/pkg/observability"
)

// Saver persists committed layouts. Implementations should return quickly;
// the orchestrator never waits on storage and only logs failures.
type Saver interface {
	Save(ctx context.Context, key string, l grid.Layout) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithKey sets the layout key passed to the Saver.
func WithKey(key string) Option {
	return func(o *Orchestrator) { o.key = key }
}

// WithSaver sets where committed layouts go.
func WithSaver(s Saver) Option {
	return func(o *Orchestrator) { o.saver = s }
}

// WithLogger sets the logger for the orchestrator and the engine parts it builds.
func WithLogger(l grid.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the animation clock.
func WithClock(c anim.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithProfiles overrides the animation timings.
func WithProfiles(p anim.Profiles) Option {
	return func(o *Orchestrator) { o.profiles = p }
}

// WithContainerWidth sets the container width in pixels.
func WithContainerWidth(px float64) Option {
	return func(o *Orchestrator) { o.containerWidth = px }
}

// WithFields registers the host's field descriptors.
func WithFields(fields ...FieldDescriptor) Option {
	return func(o *Orchestrator) { o.pendingFields = fields }
}

// WithHooks overrides the globally registered interaction hooks.
func WithHooks(h observability.InteractionHooks) Option {
	return func(o *Orchestrator) {
		if h != nil {
			o.hooks = h
		}
	}
}

// WithContext sets the context passed to the Saver and the hooks.
func WithContext(ctx context.Context) Option {
	return func(o *Orchestrator) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// Orchestrator owns the layout of one form.
type Orchestrator struct {
	cfg            grid.Config
	key            string
	ctx            context.Context
	logger         grid.Logger
	saver          Saver
	hooks          observability.InteractionHooks
	clock          anim.Clock
	profiles       anim.Profiles
	containerWidth float64

	planner   *planner.Planner
	compactor *compact.Compactor
	resizer   *resize.Controller
	engine    *anim.Engine

	committed grid.Layout
	display   grid.Layout
	state     State
	drag      *DragSession
	preview   *PreviewState
	gesture   *resize.Gesture
	selected  string

	pending     *anim.Tween
	pendingDone func()

	fields        []FieldDescriptor
	pendingFields []FieldDescriptor
	values        map[string]any

	layoutListeners []func(grid.Layout)
	valueListeners  []func(id string, value any)
}

// New builds an orchestrator over initial. Placements coming from outside
// are snapped onto the grid first.
func New(cfg grid.Config, initial grid.Layout, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Orchestrator{
		cfg:            cfg.Clone(),
		ctx:            context.Background(),
		logger:         grid.NopLogger(),
		hooks:          observability.Interaction(),
		profiles:       anim.DefaultProfiles(),
		containerWidth: 1,
		values:         make(map[string]any),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.containerWidth <= 0 {
		o.containerWidth = 1
	}

	o.planner = planner.New(o.cfg, planner.WithLogger(o.logger))
	o.compactor = compact.New(o.cfg, compact.WithLogger(o.logger))
	o.resizer = resize.New(o.cfg, resize.WithLogger(o.logger))
	o.engine = anim.NewEngine(anim.WithClock(o.clock), anim.WithLogger(o.logger))

	o.committed = o.cfg.Sanitize(initial)
	o.display = o.committed.Clone()

	if o.pendingFields != nil {
		if err := o.Register(o.pendingFields); err != nil {
			return nil, err
		}
		o.pendingFields = nil
	}
	return o, nil
}

// Config returns the grid configuration.
func (o *Orchestrator) Config() grid.Config { return o.cfg }

// Key returns the layout key.
func (o *Orchestrator) Key() string { return o.key }

// State returns the current interaction state.
func (o *Orchestrator) State() State { return o.state }

// Layout returns a copy of the committed layout.
func (o *Orchestrator) Layout() grid.Layout { return o.committed.Clone() }

// Display returns a copy of the layout as currently drawn, including
// previews and in-flight animations.
func (o *Orchestrator) Display() grid.Layout { return o.display.Clone() }

// Ghost returns the free-floating placement of the dragged field under the
// pointer. It reports false when no drag preview is active.
func (o *Orchestrator) Ghost() (grid.Placement, bool) {
	if o.drag == nil || !o.drag.Moved {
		return grid.Placement{}, false
	}
	p := o.display[o.drag.FieldID]
	dx := (o.drag.Pointer.X - o.drag.PointerStart.X) / o.containerWidth
	dy := o.drag.Pointer.Y - o.drag.PointerStart.Y
	p.Width = o.dragged().Width
	p.Position = grid.Position{
		X: grid.ClampX(o.drag.FieldStart.X+dx, p.Width),
		Y: max(0, o.drag.FieldStart.Y+dy),
	}
	return p, true
}

// Preview returns the active preview, if any.
func (o *Orchestrator) Preview() (PreviewState, bool) {
	if o.preview == nil {
		return PreviewState{}, false
	}
	return *o.preview, true
}

// Selected returns the last tapped field, or "".
func (o *Orchestrator) Selected() string { return o.selected }

// ContainerWidth returns the container width in pixels.
func (o *Orchestrator) ContainerWidth() float64 { return o.containerWidth }

// SetContainerWidth updates the container width, e.g. after a window resize.
// Non-positive widths are ignored.
func (o *Orchestrator) SetContainerWidth(px float64) {
	if px > 0 {
		o.containerWidth = px
	}
}

// Animating reports whether any animation is running.
func (o *Orchestrator) Animating() bool { return o.engine.Active() > 0 }

// Tick advances animations to now.
func (o *Orchestrator) Tick(now time.Time) {
	o.engine.Tick(now)
}

// Now returns the animation clock's current time.
func (o *Orchestrator) Now() time.Time { return o.engine.Now() }

// OnLayoutChanged registers fn to receive every newly committed layout.
func (o *Orchestrator) OnLayoutChanged(fn func(grid.Layout)) {
	if fn != nil {
		o.layoutListeners = append(o.layoutListeners, fn)
	}
}

// OnValueChanged registers fn to receive field value changes.
func (o *Orchestrator) OnValueChanged(fn func(id string, value any)) {
	if fn != nil {
		o.valueListeners = append(o.valueListeners, fn)
	}
}

// Settle finishes every pending commit or snap animation immediately.
func (o *Orchestrator) Settle() {
	for o.pending != nil {
		tw, done := o.pending, o.pendingDone
		o.engine.Finish(tw)
		if o.pending == tw {
			// The tween was cancelled before it could complete.
			done()
		}
	}
}

// Reset replaces the committed layout, e.g. after the file on disk changed.
// Any running interaction is abandoned.
func (o *Orchestrator) Reset(l grid.Layout) {
	o.engine.CancelAll()
	o.pending, o.pendingDone = nil, nil
	o.drag, o.preview, o.gesture = nil, nil, nil
	o.state = StateIdle
	o.committed = o.cfg.Sanitize(l)
	o.display = o.committed.Clone()
	o.emitLayout()
}

func (o *Orchestrator) known(id string) bool {
	if _, ok := o.committed[id]; ok {
		return true
	}
	return slices.ContainsFunc(o.fields, func(f FieldDescriptor) bool { return f.ID == id })
}

func (o *Orchestrator) dragged() grid.Placement {
	if o.drag == nil {
		return grid.Placement{}
	}
	p, ok := o.drag.Snapshot[o.drag.FieldID]
	if !ok {
		p = grid.Placement{ID: o.drag.FieldID, Position: grid.HiddenPosition}
	}
	if p.Width <= 0 {
		p.Width = o.cfg.DefaultWidth()
	}
	return p
}

// commit installs l as the committed layout, notifies listeners and hands
// it to the saver.
func (o *Orchestrator) commit(l grid.Layout) {
	o.committed = l
	o.emitLayout()
	o.save()
}

func (o *Orchestrator) emitLayout() {
	for _, fn := range o.layoutListeners {
		fn(o.committed.Clone())
	}
}

func (o *Orchestrator) save() {
	if o.saver == nil {
		return
	}
	if err := o.saver.Save(o.ctx, o.key, o.committed.Clone()); err != nil {
		o.logger.Warn("save layout failed", "key", o.key, "err", err)
	}
}

func invalidState(action string, s State) error {
	return errors.New(errors.ErrCodeInvalidState, "cannot %s while %s", action, s)
}

func unknownField(id string) error {
	return errors.New(errors.ErrCodeUnknownField, "unknown field %q", id)
}
