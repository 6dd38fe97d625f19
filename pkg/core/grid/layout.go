package grid

import (
	"cmp"
	"maps"
	"slices"
)

// Layout maps field IDs to placements. It carries no order of its own;
// use [Layout.Ordered] or [Layout.Row] for a deterministic sequence.
type Layout map[string]Placement

// Clone returns a shallow copy of l. Placements are values, so the copy
// is independent.
func (l Layout) Clone() Layout {
	if l == nil {
		return Layout{}
	}
	return maps.Clone(l)
}

// IDs returns every field ID, sorted.
func (l Layout) IDs() []string {
	return slices.Sorted(maps.Keys(l))
}

// Ordered returns the visible placements top to bottom, left to right.
func (l Layout) Ordered(c Config) []Placement {
	out := make([]Placement, 0, len(l))
	for _, p := range l {
		if p.Visible() {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b Placement) int {
		return comparePlacements(a, b, c)
	})
	return out
}

// Row returns the visible placements in row, left to right, skipping excludeID.
func (l Layout) Row(c Config, row int, excludeID string) []Placement {
	var out []Placement
	for id, p := range l {
		if id == excludeID || p.Hidden() || p.Row(c) != row {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Placement) int {
		return comparePlacements(a, b, c)
	})
	return out
}

// Rows groups the visible placements by row.
func (l Layout) Rows(c Config) map[int][]Placement {
	rows := make(map[int][]Placement)
	for _, p := range l.Ordered(c) {
		r := p.Row(c)
		rows[r] = append(rows[r], p)
	}
	return rows
}

// RowIndexes returns the occupied rows, ascending.
func (l Layout) RowIndexes(c Config) []int {
	return slices.Sorted(maps.Keys(l.Rows(c)))
}

// RowCount returns one past the lowest occupied row, or 0 for an empty grid.
func (l Layout) RowCount(c Config) int {
	rows := l.RowIndexes(c)
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1] + 1
}

// Equal reports whether both layouts hold the same fields at the same places.
func (l Layout) Equal(o Layout) bool {
	if len(l) != len(o) {
		return false
	}
	for id, p := range l {
		q, ok := o[id]
		if !ok || !p.Equal(q) {
			return false
		}
	}
	return true
}

// Changed returns the IDs whose placement differs between l and o, sorted.
// IDs present on only one side are not reported.
func (l Layout) Changed(o Layout) []string {
	var ids []string
	for id, p := range l {
		if q, ok := o[id]; ok && !p.Equal(q) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func comparePlacements(a, b Placement, c Config) int {
	if r := cmp.Compare(a.Row(c), b.Row(c)); r != 0 {
		return r
	}
	if r := cmp.Compare(a.Position.X, b.Position.X); r != 0 {
		return r
	}
	return cmp.Compare(a.ID, b.ID)
}
