package interact

import (
	"time"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/core/planner"
)

// State is the orchestrator's interaction state.
type State int

const (
	StateIdle State = iota
	StateDragging
	StatePreviewActive
	StateCommitting
	StateResizing
	StateSnapEvaluating
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StatePreviewActive:
		return "preview"
	case StateCommitting:
		return "committing"
	case StateResizing:
		return "resizing"
	case StateSnapEvaluating:
		return "snap"
	default:
		return "idle"
	}
}

// Point is a pointer position. X is in pixels of the container, Y is in
// layout units.
type Point struct {
	X, Y float64
}

// FieldDescriptor is a field the host can render. The orchestrator only
// reads the ID.
type FieldDescriptor struct {
	ID     string
	Render any
}

// DragSession lives from pointer-down to pointer-up.
type DragSession struct {
	FieldID      string
	PointerStart Point
	Pointer      Point
	FieldStart   grid.Position
	Moved        bool
	Snapshot     grid.Layout
	Started      time.Time
}

// PreviewState is the candidate shown while a drag hovers over a row.
type PreviewState struct {
	FieldID   string
	TargetRow int
	Layout    grid.Layout
	Baseline  grid.Layout
	Strategy  planner.Strategy
	Clamped   bool
}
