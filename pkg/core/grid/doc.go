// Package grid defines the geometry and data model of the magnetic field grid.
//
// # Overview
//
// The grid has a fixed number of columns (six by default) and an unbounded
// number of rows, capped at [Config.MaxRows]. Fields are rectangles that occupy
// exactly one row and a fractional share of the row's width:
//
//   - X is normalized to the container width, in [0, 1).
//   - Width is normalized too and is always one of the allowed widths
//     (by default 2/6, 3/6, 4/6 and 6/6 of the row).
//   - Y is a vertical offset in layout units and is always a multiple of
//     [Config.RowHeight].
//
// A [Placement] with a non-positive width or a negative coordinate is hidden.
// Hidden placements stay in the [Layout] so their width survives a toggle, but
// every collision and compaction pass skips them.
//
// # Geometry
//
// All conversions are methods on [Config] and never fail. Out-of-range input
// is clamped rather than rejected:
//
//	cfg := grid.Default()
//	row := cfg.RowOf(150)         // 2
//	col := cfg.ColumnOf(0.5)      // 3
//	span := cfg.ColumnSpan(0.5, 4) // 2, clamped so 4+span <= 6
//
// # Allowed Widths
//
// Widths are configured as column spans ([Config.WidthSpans]) and exposed as
// fractions through [Config.Widths]. [Config.NextWidth] and
// [Config.PrevWidth] step through the set; [Config.NearestWidth] and
// [Config.LargestWidthAtMost] snap arbitrary values onto it.
//
// # Serialization
//
// [Export] and [Parse] convert between a [Layout] and the persisted
// [document.Layout] format. The round trip is exact for width, x and y.
//
// [document.Layout]: github.com/matzehuels/magnetgrid/pkg/document
package grid
