package cli

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

var (
	styleField    = lipgloss.NewStyle().Foreground(colorWhite)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleGhost    = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	stylePreview  = lipgloss.NewStyle().Foreground(colorYellow)
)

// gridView draws a layout as text, one line per row. Each field is a
// bracketed box whose length is proportional to its width.
type gridView struct {
	cfg   grid.Config
	width int // characters per row

	selected string
	// previewing marks every field except the selected one as moved by a
	// pending drop.
	previewing bool
	ghost      *grid.Placement
}

func (v gridView) render(l grid.Layout) string {
	width := v.width
	if width < v.cfg.Columns {
		width = v.cfg.Columns
	}

	rows := make(map[int][]grid.Placement)
	last := -1
	for _, p := range l {
		if p.Hidden() {
			continue
		}
		r := v.rowOf(p.Position.Y)
		rows[r] = append(rows[r], p)
		last = max(last, r)
	}

	var b strings.Builder
	for r := 0; r <= max(last, 0); r++ {
		fields := rows[r]
		slices.SortFunc(fields, func(a, b grid.Placement) int {
			if a.Position.X != b.Position.X {
				if a.Position.X < b.Position.X {
					return -1
				}
				return 1
			}
			return strings.Compare(a.ID, b.ID)
		})

		b.WriteString(StyleDim.Render(fmt.Sprintf("%2d ", r)))
		cursor := 0
		for _, p := range fields {
			start := int(math.Round(p.Position.X * float64(width)))
			n := int(math.Round(p.Width * float64(width)))
			start = max(start, cursor)
			n = min(n, width-start)
			if n <= 0 {
				continue
			}
			if gap := start - cursor; gap > 0 {
				b.WriteString(StyleDim.Render(strings.Repeat("·", gap)))
			}
			b.WriteString(v.styleFor(p.ID).Render(box(p.ID, n)))
			cursor = start + n
		}
		if cursor < width {
			b.WriteString(StyleDim.Render(strings.Repeat("·", width-cursor)))
		}
		b.WriteString("\n")
	}

	if g := v.ghost; g != nil {
		offset := int(math.Round(math.Max(g.Position.X, 0) * float64(width)))
		n := max(int(math.Round(g.Width*float64(width))), 2)
		offset = min(offset, max(width-n, 0))
		b.WriteString(StyleDim.Render(fmt.Sprintf("%2s ", "↕")))
		b.WriteString(strings.Repeat(" ", offset))
		b.WriteString(styleGhost.Render(box(g.ID, n)))
		b.WriteString(StyleDim.Render(fmt.Sprintf("  row %d", v.rowOf(g.Position.Y))))
		b.WriteString("\n")
	}
	return b.String()
}

func (v gridView) rowOf(y float64) int {
	if v.cfg.RowHeight <= 0 {
		return 0
	}
	return max(int(math.Round(y/v.cfg.RowHeight)), 0)
}

func (v gridView) styleFor(id string) lipgloss.Style {
	switch {
	case id == v.selected:
		return styleSelected
	case v.previewing:
		return stylePreview
	}
	return styleField
}

// box renders id inside brackets, truncated or padded to exactly n cells.
func box(id string, n int) string {
	if n < 3 {
		return strings.Repeat("▪", n)
	}
	label := []rune(id)
	inner := n - 2
	if len(label) > inner {
		if inner > 1 {
			label = append(label[:inner-1], '…')
		} else {
			label = label[:inner]
		}
	}
	return "[" + string(label) + strings.Repeat(" ", inner-len(label)) + "]"
}
