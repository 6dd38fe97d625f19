// Package pipeline runs layout work outside an interactive host.
//
// Two entry points share one [Runner] so the CLI and the HTTP API behave
// the same:
//
//  1. Replay: load a layout, feed a scripted pointer session to a headless
//     orchestrator on a simulated clock, normalize and save the result.
//  2. Plan: compute a placement preview for one field, cached by layout
//     content.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	script, err := pipeline.LoadScript("session.yaml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Replay(ctx, script, pipeline.Options{Key: "signup"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Stats.Commits, "commits")
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/errors"
)

const (
	// DefaultFPS is the simulated frame rate of a replay.
	DefaultFPS = 60

	// DefaultContainerWidth is the pixel width replays assume when neither
	// the script nor the options set one.
	DefaultContainerWidth = 600.0

	// DefaultSettleLimit bounds the simulated time a replay waits for
	// animations to finish after the last event.
	DefaultSettleLimit = 10 * time.Second

	// DefaultDragSteps is the number of pointer moves a "drag" event is
	// expanded into.
	DefaultDragSteps = 8
)

// Options configures a replay.
type Options struct {
	// Key names the layout to load and save. Falls back to the script's key.
	Key string `json:"key,omitempty"`

	// Initial is used when neither the script nor the store has a layout.
	Initial grid.Layout `json:"-"`

	// IgnoreSaved skips loading the stored layout.
	IgnoreSaved bool `json:"ignore_saved,omitempty"`

	// DryRun replays without saving.
	DryRun bool `json:"dry_run,omitempty"`

	// StopOnError aborts at the first rejected event instead of recording
	// it and moving on.
	StopOnError bool `json:"stop_on_error,omitempty"`

	FPS            int     `json:"fps,omitempty"`
	ContainerWidth float64 `json:"container_width,omitempty"`

	// Logger overrides the runner's logger for this replay.
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills zero values and checks the rest.
func (o *Options) ValidateAndSetDefaults() error {
	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if o.FPS < 0 || o.FPS > 1000 {
		return errors.New(errors.ErrCodeInvalidInput, "fps must be between 1 and 1000, got %d", o.FPS)
	}
	if o.ContainerWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "container width must not be negative, got %g", o.ContainerWidth)
	}
	if o.Key != "" {
		if err := errors.ValidateLayoutKey(o.Key); err != nil {
			return err
		}
	}
	return nil
}

// frame returns the simulated time between two frames.
func (o Options) frame() time.Duration {
	return time.Second / time.Duration(o.FPS)
}

// Result is the outcome of a replay.
type Result struct {
	// Key is the layout key the replay ran under.
	Key string

	// Layout is the committed layout after the last event settled.
	Layout grid.Layout

	// Events records what each scripted event did.
	Events []EventResult

	Stats Stats
}

// EventResult is the outcome of one scripted event.
type EventResult struct {
	Index int    `json:"index"`
	Op    string `json:"op"`
	Field string `json:"field,omitempty"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// Stats summarizes a replay.
type Stats struct {
	Events    int
	Rejected  int
	Commits   int
	Frames    int
	Fields    int
	Rows      int
	Overlaps  int
	Simulated time.Duration
	WallTime  time.Duration
	Saved     bool
}
