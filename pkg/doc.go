// Package pkg provides the libraries behind magnetgrid, a magnetic grid
// layout engine for form builders.
//
// # Overview
//
// Fields live on a grid with a fixed number of columns. Dropping a field on
// a row makes room for it (shrinking neighbors, filling a gap or pushing the
// row down), resizing steps through a set of allowed widths and snaps to
// neighboring edges, and rows compact themselves when fields leave. The pkg
// directory is organized into four areas:
//
//  1. [core] - The engine (grid geometry, collision, planning, compaction,
//     resizing, animation, interaction)
//  2. Persistence - [document] (the serialized layout), [cache] (byte
//     stores), [store] (layout store and async saver)
//  3. Transport - [server] (HTTP API) and [client]
//  4. Orchestration - [pipeline] (scripted replays and cached planning)
//
// # Architecture
//
// A pointer session flows through the engine like this:
//
//	pointer events
//	     ↓
//	[core/interact] Orchestrator (drag / resize state machine)
//	     ↓                 ↓
//	[core/planner]    [core/resize]     (candidate layouts)
//	     ↓                 ↓
//	[core/compact]  [core/collision]    (normalize, check)
//	     ↓
//	[core/anim] tweens → display layout
//	     ↓
//	[store] Saver → [cache] backend (file, sqlite, redis, mongo)
//
// # Quick Start
//
//	cfg := grid.Default()
//	o, _ := interact.New(cfg, layout, interact.WithContainerWidth(600))
//	_ = o.DragStart("phone", interact.Point{X: 1, Y: 71})
//	_ = o.DragMove("phone", interact.Point{X: 1, Y: 1})
//	_ = o.DragEnd("phone")
//	o.Settle()
//	fmt.Println(o.Layout())
//
// # Shared Packages
//
//   - [errors]: Structured error codes shared by every package
//   - [config]: TOML configuration with environment overrides
//   - [observability]: Hooks for interaction, replay, store and HTTP events
//   - [buildinfo]: Version information injected at build time
package pkg
