// Package anim interpolates field placements between two layouts over time.
//
// The engine has no timer of its own. Hosts call [Engine.Tick] from whatever
// frame source they have (a terminal tick, an HTTP request loop, a simulated
// clock in tests) and every running tween advances to that instant.
package anim

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

// Clock returns the current time.
type Clock func() time.Time

// Tween animates the fields that differ between two layouts along one
// shared progress value, so all of them arrive together.
type Tween struct {
	ID      uint64
	Profile Profile

	from, to grid.Layout
	ids      []string
	start    time.Time
	progress float64
	onFrame  func(grid.Layout)
	onDone   func()

	done      bool
	cancelled bool
}

// IDs returns the animated field IDs, sorted.
func (t *Tween) IDs() []string { return slices.Clone(t.ids) }

// Progress returns the last linear progress in [0,1].
func (t *Tween) Progress() float64 { return t.progress }

// Done reports whether the tween reached the end.
func (t *Tween) Done() bool { return t.done }

// Cancelled reports whether the tween was superseded or cancelled.
func (t *Tween) Cancelled() bool { return t.cancelled }

// frame returns the interpolated placements at eased progress p.
func (t *Tween) frame(p float64) grid.Layout {
	out := make(grid.Layout, len(t.ids))
	for _, id := range t.ids {
		a, b := t.from[id], t.to[id]
		out[id] = grid.Placement{
			ID:    id,
			Width: lerp(a.Width, b.Width, p),
			Position: grid.Position{
				X: lerp(a.Position.X, b.Position.X, p),
				Y: lerp(a.Position.Y, b.Position.Y, p),
			},
		}
	}
	return out
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now, mostly for tests and replays.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.now = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l grid.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine owns the running tweens. It is not safe for concurrent use.
type Engine struct {
	now    Clock
	logger grid.Logger
	tweens []*Tween
	nextID uint64
}

// NewEngine returns an idle engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now, logger: grid.NopLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time { return e.now() }

// Tween starts animating every field that is present in both layouts and
// placed differently. Running tweens that animate any of those fields are
// cancelled first; they never call onDone.
//
// onFrame receives the interpolated placements of the animated fields on
// every tick. onDone runs exactly once, from the tick that reaches the end.
// A tween with nothing to animate finishes on the next tick.
func (e *Engine) Tween(from, to grid.Layout, p Profile, onFrame func(grid.Layout), onDone func()) *Tween {
	if p.Curve == nil {
		p.Curve = Linear
	}
	e.nextID++
	t := &Tween{
		ID:      e.nextID,
		Profile: p,
		from:    from.Clone(),
		to:      to.Clone(),
		ids:     from.Changed(to),
		start:   e.now(),
		onFrame: onFrame,
		onDone:  onDone,
	}
	e.Cancel(t.ids...)
	e.tweens = append(e.tweens, t)
	e.logger.Debug("tween start", "id", t.ID, "profile", p.Name, "fields", len(t.ids))
	return t
}

// Tick advances every running tween to now. Callbacks may start new tweens;
// those begin on the following tick.
func (e *Engine) Tick(now time.Time) {
	for _, t := range slices.Clone(e.tweens) {
		if t.cancelled || t.done {
			continue
		}
		p := 1.0
		if d := t.Profile.Duration; d > 0 && len(t.ids) > 0 {
			p = min(1, max(0, float64(now.Sub(t.start))/float64(d)))
		}
		e.advance(t, p)
	}
	e.prune()
}

// Finish jumps t to its end state, delivering the final frame and onDone.
// Finishing a cancelled or completed tween does nothing.
func (e *Engine) Finish(t *Tween) {
	if t == nil || t.cancelled || t.done {
		return
	}
	e.advance(t, 1)
	e.prune()
}

// FinishAll finishes every running tween in start order, including tweens
// started by the callbacks of the ones being finished.
func (e *Engine) FinishAll() {
	for len(e.tweens) > 0 {
		e.Finish(e.tweens[0])
	}
}

func (e *Engine) advance(t *Tween, p float64) {
	t.progress = p
	if t.onFrame != nil && len(t.ids) > 0 {
		t.onFrame(t.frame(t.Profile.Curve(p)))
	}
	if p >= 1 && !t.cancelled {
		t.done = true
		e.logger.Debug("tween done", "id", t.ID, "profile", t.Profile.Name)
		if t.onDone != nil {
			t.onDone()
		}
	}
}

// Cancel stops every running tween that animates one of ids. With no ids,
// nothing is cancelled; use CancelAll for that.
func (e *Engine) Cancel(ids ...string) {
	if len(ids) == 0 {
		return
	}
	for _, t := range e.tweens {
		if t.done || t.cancelled {
			continue
		}
		for _, id := range ids {
			if slices.Contains(t.ids, id) {
				t.cancelled = true
				e.logger.Debug("tween cancelled", "id", t.ID, "field", id)
				break
			}
		}
	}
	e.prune()
}

// Stop cancels t alone. onDone is not called.
func (e *Engine) Stop(t *Tween) {
	if t == nil || t.done || t.cancelled {
		return
	}
	t.cancelled = true
	e.prune()
}

// CancelAll stops every running tween.
func (e *Engine) CancelAll() {
	for _, t := range e.tweens {
		t.cancelled = !t.done
	}
	e.tweens = nil
}

// Active returns the number of running tweens.
func (e *Engine) Active() int { return len(e.tweens) }

// Animating reports whether a running tween moves id.
func (e *Engine) Animating(id string) bool {
	for _, t := range e.tweens {
		if slices.Contains(t.ids, id) {
			return true
		}
	}
	return false
}

func (e *Engine) prune() {
	e.tweens = slices.DeleteFunc(e.tweens, func(t *Tween) bool {
		return t.done || t.cancelled
	})
}

// Run ticks e at fps frames per second until no tween is left or ctx is
// done. Nothing else may use e while Run is active.
func Run(ctx context.Context, e *Engine, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for e.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Tick(e.now())
		}
	}
	return nil
}
