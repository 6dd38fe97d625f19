package grid

import (
	"slices"

	"github.com/matzehuels/magnetgrid/pkg/errors"
)

// eps absorbs floating point noise when comparing normalized coordinates.
const eps = 1e-9

// widthTolerance is the distance under which two widths are the same width.
const widthTolerance = 1e-6

// Config describes the grid topology and the interaction thresholds.
// A Config is a value; copies never share state.
type Config struct {
	// Columns is the number of columns in every row.
	Columns int `toml:"columns"`

	// RowHeight is the height of a row in layout units.
	RowHeight float64 `toml:"row_height"`

	// MaxRows caps the number of rows. Placements never land below it.
	MaxRows int `toml:"max_rows"`

	// WidthSpans lists the allowed field widths in columns, ascending.
	WidthSpans []int `toml:"width_spans"`

	// SnapDistance is the normalized distance within which a resized edge
	// is pulled onto a neighboring edge.
	SnapDistance float64 `toml:"snap_distance"`

	// ResizeStepFraction is the share of the container width a resize drag
	// must accumulate before the width steps.
	ResizeStepFraction float64 `toml:"resize_step_fraction"`

	// DragThreshold is the pointer travel in pixels that turns a press into a drag.
	DragThreshold float64 `toml:"drag_threshold"`

	// ExpandThreshold is the free share of a row that auto-expand considers significant.
	ExpandThreshold float64 `toml:"expand_threshold"`

	// EqualWidthTolerance decides whether fields in a row count as equally wide.
	EqualWidthTolerance float64 `toml:"equal_width_tolerance"`
}

// Default returns the standard six-column grid.
func Default() Config {
	return Config{
		Columns:             6,
		RowHeight:           70,
		MaxRows:             64,
		WidthSpans:          []int{2, 3, 4, 6},
		SnapDistance:        0.05,
		ResizeStepFraction:  0.08,
		DragThreshold:       8,
		ExpandThreshold:     0.05,
		EqualWidthTolerance: 0.01,
	}
}

// Validate reports the first inconsistency in c.
func (c Config) Validate() error {
	switch {
	case c.Columns <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "grid columns must be positive, got %d", c.Columns)
	case c.RowHeight <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "grid row height must be positive, got %g", c.RowHeight)
	case c.MaxRows <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "grid max rows must be positive, got %d", c.MaxRows)
	case len(c.WidthSpans) == 0:
		return errors.New(errors.ErrCodeInvalidConfig, "grid needs at least one allowed width")
	case c.SnapDistance < 0 || c.SnapDistance >= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "snap distance must be in [0, 1), got %g", c.SnapDistance)
	case c.ResizeStepFraction <= 0 || c.ResizeStepFraction > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "resize step fraction must be in (0, 1], got %g", c.ResizeStepFraction)
	case c.DragThreshold < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "drag threshold must not be negative, got %g", c.DragThreshold)
	case c.ExpandThreshold < 0 || c.ExpandThreshold >= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "expand threshold must be in [0, 1), got %g", c.ExpandThreshold)
	case c.EqualWidthTolerance < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "equal width tolerance must not be negative, got %g", c.EqualWidthTolerance)
	}

	for i, span := range c.WidthSpans {
		if span <= 0 || span > c.Columns {
			return errors.New(errors.ErrCodeInvalidConfig, "width span %d out of range [1, %d]", span, c.Columns)
		}
		if i > 0 && span <= c.WidthSpans[i-1] {
			return errors.New(errors.ErrCodeInvalidConfig, "width spans must be strictly ascending: %v", c.WidthSpans)
		}
	}
	return nil
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.WidthSpans = slices.Clone(c.WidthSpans)
	return c
}
