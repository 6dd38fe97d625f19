package grid

import "math"

// RowOf returns the row containing the vertical offset y,
// clamped to [0, MaxRows-1].
func (c Config) RowOf(y float64) int {
	if c.RowHeight <= 0 || math.IsNaN(y) {
		return 0
	}
	return clampInt(int(math.Floor(y/c.RowHeight+eps)), 0, c.lastRow())
}

// RowY returns the vertical offset of the top of row.
func (c Config) RowY(row int) float64 {
	return float64(clampInt(row, 0, c.lastRow())) * c.RowHeight
}

// ColumnOf returns the column containing the normalized x,
// clamped to [0, Columns-1].
func (c Config) ColumnOf(x float64) int {
	if c.Columns <= 0 || math.IsNaN(x) {
		return 0
	}
	return clampInt(int(math.Floor(x*float64(c.Columns)+eps)), 0, c.Columns-1)
}

// ColumnAt returns the column under a pixel offset inside a container of the
// given width. A non-positive container width maps everything to column 0.
func (c Config) ColumnAt(px, containerWidth float64) int {
	if containerWidth <= 0 {
		return 0
	}
	return c.ColumnOf(px / containerWidth)
}

// ColumnSpan returns how many columns a field of the normalized width covers
// when it starts at startColumn. The span is clamped so it never runs past
// the last column.
func (c Config) ColumnSpan(width float64, startColumn int) int {
	if width <= 0 || c.Columns <= 0 {
		return 0
	}
	start := clampInt(startColumn, 0, c.Columns-1)
	span := int(math.Ceil(width*float64(c.Columns) - eps))
	return clampInt(span, 1, c.Columns-start)
}

// NormalizedX returns the left edge of column as a normalized coordinate.
func (c Config) NormalizedX(column int) float64 {
	if c.Columns <= 0 {
		return 0
	}
	return float64(clampInt(column, 0, c.Columns)) / float64(c.Columns)
}

// ClampX keeps a field of the given width inside the row.
func ClampX(x, width float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return max(0, min(x, 1-width))
}

func (c Config) lastRow() int {
	return max(c.MaxRows-1, 0)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
