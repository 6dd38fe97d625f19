// Package collision answers whether placements on the grid overlap.
//
// Two placements overlap when they share a row and their horizontal
// intervals intersect by more than float noise. Touching edges do not
// overlap, and hidden placements never collide with anything.
package collision

import (
	"sort"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

const eps = 1e-9

// Intersects reports whether a and b overlap in the same row.
func Intersects(c grid.Config, a, b grid.Placement) bool {
	if a.Hidden() || b.Hidden() {
		return false
	}
	if a.Row(c) != b.Row(c) {
		return false
	}
	return a.Left() < b.Right()-eps && b.Left() < a.Right()-eps
}

// Overlaps reports whether candidate intersects any visible placement of l
// other than excludeID. Pass candidate.ID as excludeID to test a move of
// a field that is already in l.
func Overlaps(c grid.Config, candidate grid.Placement, l grid.Layout, excludeID string) bool {
	if candidate.Hidden() {
		return false
	}
	for id, p := range l {
		if id == excludeID {
			continue
		}
		if Intersects(c, candidate, p) {
			return true
		}
	}
	return false
}

// Fits reports whether candidate lies inside the row and overlaps nothing.
func Fits(c grid.Config, candidate grid.Placement, l grid.Layout, excludeID string) bool {
	if candidate.Position.X < -eps || candidate.Right() > 1+eps {
		return false
	}
	return !Overlaps(c, candidate, l, excludeID)
}

// Overlapping returns every overlapping pair in l, each pair sorted and
// the list ordered, so the result is stable across runs.
func Overlapping(c grid.Config, l grid.Layout) [][2]string {
	var pairs [][2]string
	for _, row := range l.Rows(c) {
		for i := range row {
			for j := i + 1; j < len(row); j++ {
				if Intersects(c, row[i], row[j]) {
					a, b := row[i].ID, row[j].ID
					if b < a {
						a, b = b, a
					}
					pairs = append(pairs, [2]string{a, b})
				}
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

// Valid reports whether no two visible placements of l overlap.
func Valid(c grid.Config, l grid.Layout) bool {
	return len(Overlapping(c, l)) == 0
}

// FreeWidth returns the share of row not covered by visible placements,
// ignoring excludeID.
func FreeWidth(c grid.Config, l grid.Layout, row int, excludeID string) float64 {
	used := 0.0
	for _, p := range l.Row(c, row, excludeID) {
		used += p.Width
	}
	return max(0, 1-used)
}

// Gap is a free horizontal interval in a row.
type Gap struct {
	Left, Right float64
}

// Width returns the size of the gap.
func (g Gap) Width() float64 { return g.Right - g.Left }

// Gaps returns the free intervals of row from left to right, ignoring
// excludeID. Intervals narrower than float noise are dropped.
func Gaps(c grid.Config, l grid.Layout, row int, excludeID string) []Gap {
	var gaps []Gap
	cursor := 0.0
	for _, p := range l.Row(c, row, excludeID) {
		if p.Left() > cursor+eps {
			gaps = append(gaps, Gap{Left: cursor, Right: p.Left()})
		}
		cursor = max(cursor, p.Right())
	}
	if cursor < 1-eps {
		gaps = append(gaps, Gap{Left: cursor, Right: 1})
	}
	return gaps
}
