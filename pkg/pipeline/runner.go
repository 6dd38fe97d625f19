package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnetgrid/pkg/cache"
	"github.com/matzehuels/magnetgrid/pkg/core/anim"
	"github.com/matzehuels/magnetgrid/pkg/core/collision"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/core/interact"
	"github.com/matzehuels/magnetgrid/pkg/core/planner"
	"github.com/matzehuels/magnetgrid/pkg/document"
	"github.com/matzehuels/magnetgrid/pkg/errors"
	"github.com/matzehuels/magnetgrid/pkg/observability"
	"github.com/matzehuels/magnetgrid/pkg/store"
)

// replayEpoch is where every simulated clock starts, so replays are
// reproducible.
var replayEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Runner executes replays and plans with caching.
// Both CLI and API use it to avoid duplicating storage logic.
//
// The Runner is stateless except for its store and logger. Multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Store    *store.LayoutStore
	Logger   *log.Logger
	Grid     grid.Config
	Profiles anim.Profiles
	PlanTTL  time.Duration
}

// NewRunner creates a runner over c.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (nothing is persisted).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Store:    store.New(c, store.WithKeyer(keyer), store.WithLogger(logger)),
		Logger:   logger,
		Grid:     grid.Default(),
		Profiles: anim.DefaultProfiles(),
		PlanTTL:  cache.TTLPlan,
	}
}

// SetGrid switches the runner and its store to cfg.
func (r *Runner) SetGrid(cfg grid.Config) {
	r.Grid = cfg.Clone()
	r.Store = store.New(r.Cache,
		store.WithKeyer(r.Keyer),
		store.WithGridConfig(r.Grid),
		store.WithLogger(r.Logger))
}

// Replay runs script against a headless orchestrator and returns the
// settled layout.
func (r *Runner) Replay(ctx context.Context, script Script, opts Options) (res *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}

	key := opts.Key
	if key == "" {
		key = script.Key
	}
	if err := errors.ValidateLayoutKey(key); err != nil {
		return nil, err
	}

	hooks := observability.Replay()
	hooks.OnReplayStart(ctx, key, len(script.Events))
	wallStart := time.Now()
	defer func() {
		hooks.OnReplayComplete(ctx, key, time.Since(wallStart), err)
	}()

	initial, err := r.initialLayout(ctx, key, script, opts)
	if err != nil {
		return nil, err
	}

	width := opts.ContainerWidth
	if width == 0 {
		width = script.ContainerWidth
	}
	if width == 0 {
		width = DefaultContainerWidth
	}

	clock := replayEpoch
	now := func() time.Time { return clock }

	orchOpts := []interact.Option{
		interact.WithKey(key),
		interact.WithClock(now),
		interact.WithProfiles(r.Profiles),
		interact.WithContainerWidth(width),
		interact.WithLogger(logger),
		interact.WithContext(ctx),
	}
	var saver *store.AsyncSaver
	if !opts.DryRun {
		// Every event commits at most once, so the queue never drops the last save.
		saver = store.NewAsyncSaver(r.Store, len(script.Events)+store.DefaultQueueSize)
		defer saver.Close()
		orchOpts = append(orchOpts, interact.WithSaver(saver))
	}
	o, err := interact.New(r.Grid, initial, orchOpts...)
	if err != nil {
		return nil, err
	}

	res = &Result{Key: key}
	o.OnLayoutChanged(func(grid.Layout) { res.Stats.Commits++ })

	frame := opts.frame()
	tick := func() {
		clock = clock.Add(frame)
		res.Stats.Frames++
		o.Tick(clock)
	}
	p := &player{o: o, cfg: r.Grid, width: width, tick: tick, frame: frame}

	for i, ev := range script.Events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		evErr := p.play(ev)
		tick()

		er := EventResult{Index: i, Op: ev.Op, Field: ev.Field, State: o.State().String()}
		if evErr != nil {
			res.Stats.Rejected++
			er.Error = errors.UserMessage(evErr)
			if opts.StopOnError {
				return nil, errors.Wrap(errors.GetCode(evErr), evErr, "event %d (%s)", i, ev.Op)
			}
			logger.Warn("event rejected", "index", i, "op", ev.Op, "field", ev.Field, "err", evErr)
		}
		res.Events = append(res.Events, er)
	}

	limit := int(DefaultSettleLimit / frame)
	for n := 0; o.Animating() && n < limit; n++ {
		tick()
	}
	o.Settle()
	if saver != nil {
		saver.Close()
	}

	res.Layout = o.Layout()
	res.Stats.Events = len(script.Events)
	res.Stats.Fields = len(res.Layout)
	res.Stats.Rows = res.Layout.RowCount(r.Grid)
	res.Stats.Overlaps = len(collision.Overlapping(r.Grid, res.Layout))
	res.Stats.Simulated = clock.Sub(replayEpoch)
	res.Stats.WallTime = time.Since(wallStart)
	res.Stats.Saved = !opts.DryRun && res.Stats.Commits > 0

	logger.Info("replayed session",
		"key", key,
		"events", res.Stats.Events,
		"rejected", res.Stats.Rejected,
		"commits", res.Stats.Commits,
		"simulated", res.Stats.Simulated,
		"duration", res.Stats.WallTime)
	return res, nil
}

func (r *Runner) initialLayout(ctx context.Context, key string, script Script, opts Options) (grid.Layout, error) {
	def := opts.Initial
	if script.Layout != nil {
		l, err := grid.Parse(*script.Layout)
		if err != nil {
			return nil, err
		}
		def = l
	}
	if def == nil {
		def = grid.Layout{}
	}
	if opts.IgnoreSaved {
		return def, nil
	}
	return r.Store.LoadOrDefault(ctx, key, def), nil
}

// PlanRequest asks where a field would land if dropped on Row.
type PlanRequest struct {
	Layout grid.Layout
	// Field is moved if it is in Layout, otherwise placed as a new field.
	Field string
	// Width overrides the field's width when positive.
	Width float64
	Row   int
}

// PlanResult is a cacheable planner preview.
type PlanResult struct {
	Strategy string          `json:"strategy"`
	Row      int             `json:"row"`
	Column   int             `json:"column"`
	Width    float64         `json:"width"`
	Clamped  bool            `json:"clamped"`
	Layout   document.Layout `json:"layout"`
	CacheHit bool            `json:"-"`
}

// Plan previews a drop without touching any stored layout. Results are
// cached under the layout's content hash.
func (r *Runner) Plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	if err := errors.ValidateFieldID(req.Field); err != nil {
		return nil, err
	}
	if req.Width < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "width must not be negative, got %g", req.Width)
	}
	baseline := r.Grid.Sanitize(req.Layout)

	layoutData, err := document.Marshal(grid.Export(baseline, ""))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	cacheKey := r.Keyer.PlanKey(cache.Digest(layoutData), cache.PlanKeyOpts{
		FieldID: req.Field,
		Width:   req.Width,
		Row:     req.Row,
	})

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached PlanResult
		if err := json.Unmarshal(data, &cached); err == nil {
			cached.CacheHit = true
			return &cached, nil
		}
	}

	dragged, ok := baseline[req.Field]
	if !ok {
		dragged = grid.Placement{ID: req.Field, Position: grid.HiddenPosition}
	}
	if req.Width > 0 {
		dragged.Width = req.Width
	}
	if dragged.Width <= 0 {
		dragged.Width = r.Grid.DefaultWidth()
	}

	plan := planner.New(r.Grid, planner.WithLogger(r.Logger)).Preview(dragged, req.Row, baseline)
	out := &PlanResult{
		Strategy: plan.Strategy.String(),
		Row:      plan.Row,
		Column:   plan.Column,
		Width:    plan.Width,
		Clamped:  plan.Clamped,
		Layout:   grid.Export(plan.Layout, ""),
	}

	if data, err := json.Marshal(out); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, r.PlanTTL)
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
