// Package interact owns the live layout and turns pointer events into
// previews, commits and resizes.
//
// # Overview
//
// An [Orchestrator] holds the committed layout, the animated display layout
// and the ephemeral drag and resize sessions. Hosts feed it pointer events
// (DragStart, DragMove, DragEnd, ResizeStart, ...) and frame ticks; it calls
// the planner, compactor and resize controller and drives the animation
// engine.
//
// # States
//
// A drag goes Idle → Dragging → PreviewActive → Committing → Idle. The drag
// only becomes a preview once the pointer travelled further than
// DragThreshold; releasing before that is a tap. Moving within the same
// target row does not replan. Releasing the pointer is the only way to
// commit: the display animates to the preview, the result is pulled up and
// auto-expanded, listeners are notified and the layout is handed to the
// Saver.
//
// A resize goes Idle → Resizing → SnapEvaluating → Idle. Resizes are not
// compacted, so a field shrunk on purpose keeps its width.
//
// Starting a drag or resize while a commit or snap animation is still
// running finishes that animation first, so only one operation ever writes
// the layout.
//
// # Concurrency
//
// An Orchestrator is not safe for concurrent use. Hosts deliver events and
// ticks from a single goroutine: the bubbletea update loop, an HTTP handler
// holding its own orchestrator, or the replay runner.
package interact
