package planner

import (
	"testing"

	"github.com/matzehuels/magnetgrid/pkg/core/collision"
	"github.com/matzehuels/magnetgrid/pkg/core/grid"
)

var cfg = grid.Default()

func at(id string, w, x float64, row int) grid.Placement {
	return grid.Placement{ID: id, Width: w, Position: grid.Position{X: x, Y: cfg.RowY(row)}}
}

func fresh(id string, w float64) grid.Placement {
	return grid.Placement{ID: id, Width: w, Position: grid.HiddenPosition}
}

func assertAt(t *testing.T, l grid.Layout, id string, w, x float64, row int) {
	t.Helper()
	p, ok := l[id]
	if !ok {
		t.Fatalf("field %q missing from plan", id)
	}
	if !grid.SameWidth(p.Width, w) || !grid.SameWidth(p.Position.X, x) || p.Row(cfg) != row {
		t.Errorf("%s = {w:%.3f x:%.3f row:%d}, want {w:%.3f x:%.3f row:%d}",
			id, p.Width, p.Position.X, p.Row(cfg), w, x, row)
	}
}

func TestPreviewStrategies(t *testing.T) {
	tests := []struct {
		name       string
		layout     grid.Layout
		dragged    grid.Placement
		row        int
		want       Strategy
		wantColumn int
		wantWidth  float64
	}{
		{
			name:       "full row pushes down",
			layout:     grid.Layout{"A": at("A", 1, 0, 0)},
			dragged:    fresh("B", 0.5),
			row:        0,
			want:       StrategyPushDown,
			wantColumn: 0,
			wantWidth:  0.5,
		},
		{
			name:       "grow into free half",
			layout:     grid.Layout{"A": at("A", 0.5, 0, 0)},
			dragged:    fresh("B", 1.0/3),
			row:        0,
			want:       StrategyResize,
			wantColumn: 3,
			wantWidth:  0.5,
		},
		{
			name:       "shrink into free third",
			layout:     grid.Layout{"A": at("A", 2.0/3, 0, 0)},
			dragged:    fresh("B", 1),
			row:        0,
			want:       StrategyResize,
			wantColumn: 4,
			wantWidth:  1.0 / 3,
		},
		{
			name:       "matching width steps down to the next width",
			layout:     grid.Layout{"A": at("A", 0.5, 0, 0)},
			dragged:    fresh("B", 0.5),
			row:        0,
			want:       StrategyResize,
			wantColumn: 3,
			wantWidth:  2.0 / 6,
		},
		{
			name:       "full width into empty row steps down",
			layout:     grid.Layout{"A": at("A", 1, 0, 0)},
			dragged:    fresh("B", 1),
			row:        1,
			want:       StrategyResize,
			wantColumn: 0,
			wantWidth:  4.0 / 6,
		},
		{
			name:       "narrowest width in a third-wide gap places directly",
			layout:     grid.Layout{"A": at("A", 4.0/6, 0, 0)},
			dragged:    fresh("B", 2.0/6),
			row:        0,
			want:       StrategyDirect,
			wantColumn: 4,
			wantWidth:  2.0 / 6,
		},
		{
			name:       "fragmented row falls back to direct",
			layout:     grid.Layout{"A": at("A", 1.0/3, 1.0/3, 0)},
			dragged:    fresh("B", 1.0/3),
			row:        0,
			want:       StrategyDirect,
			wantColumn: 0,
			wantWidth:  1.0 / 3,
		},
		{
			name:       "fragmented row without a slot pushes down",
			layout:     grid.Layout{"A": at("A", 1.0/3, 1.0/3, 0)},
			dragged:    fresh("B", 2.0/3),
			row:        0,
			want:       StrategyPushDown,
			wantColumn: 0,
			wantWidth:  2.0 / 3,
		},
		{
			name:       "empty row takes full width",
			layout:     grid.Layout{"A": at("A", 1, 0, 0)},
			dragged:    fresh("B", 0.5),
			row:        1,
			want:       StrategyResize,
			wantColumn: 0,
			wantWidth:  1,
		},
	}

	p := New(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := p.Preview(tt.dragged, tt.row, tt.layout)
			if plan.Strategy != tt.want {
				t.Fatalf("Strategy = %v, want %v", plan.Strategy, tt.want)
			}
			if plan.Column != tt.wantColumn || !grid.SameWidth(plan.Width, tt.wantWidth) {
				t.Errorf("Column/Width = %d/%.3f, want %d/%.3f", plan.Column, plan.Width, tt.wantColumn, tt.wantWidth)
			}
			assertAt(t, plan.Layout, tt.dragged.ID, tt.wantWidth, cfg.NormalizedX(tt.wantColumn), tt.row)
			if !collision.Valid(cfg, plan.Layout) {
				t.Errorf("plan overlaps: %v", collision.Overlapping(cfg, plan.Layout))
			}
		})
	}
}

func TestPreviewScenarioPushDown(t *testing.T) {
	layout := grid.Layout{"A": at("A", 1, 0, 0)}
	plan := New(cfg).Preview(fresh("B", 0.5), 0, layout)

	if plan.Strategy != StrategyPushDown {
		t.Fatalf("Strategy = %v, want push-down", plan.Strategy)
	}
	assertAt(t, plan.Layout, "B", 0.5, 0, 0)
	assertAt(t, plan.Layout, "A", 1, 0, 1)
}

func TestPushDownShiftsByOneRow(t *testing.T) {
	layout := grid.Layout{
		"A": at("A", 1, 0, 0),
		"C": at("C", 0.5, 0, 1),
		"D": at("D", 0.5, 0.5, 1),
		"E": at("E", 1.0/3, 1.0/3, 3),
	}
	plan := New(cfg).Preview(fresh("B", 0.5), 1, layout)

	if plan.Strategy != StrategyPushDown {
		t.Fatalf("Strategy = %v, want push-down", plan.Strategy)
	}
	assertAt(t, plan.Layout, "A", 1, 0, 0)
	assertAt(t, plan.Layout, "B", 0.5, 0, 1)
	assertAt(t, plan.Layout, "C", 0.5, 0, 2)
	assertAt(t, plan.Layout, "D", 0.5, 0.5, 2)
	assertAt(t, plan.Layout, "E", 1.0/3, 1.0/3, 4)
	if plan.Clamped {
		t.Error("Clamped = true, want false")
	}
}

func TestPushDownIgnoresDraggedOrigin(t *testing.T) {
	layout := grid.Layout{
		"A": at("A", 1, 0, 0),
		"B": at("B", 1, 0, 1),
		"C": at("C", 1, 0, 2),
	}
	plan := New(cfg).Preview(layout["C"], 0, layout)

	assertAt(t, plan.Layout, "C", 1, 0, 0)
	assertAt(t, plan.Layout, "A", 1, 0, 1)
	assertAt(t, plan.Layout, "B", 1, 0, 2)
}

func TestPushDownClampsAtLastRow(t *testing.T) {
	small := grid.Default()
	small.MaxRows = 2
	layout := grid.Layout{
		"A": {ID: "A", Width: 1, Position: grid.Position{Y: small.RowY(1)}},
	}
	plan := New(small).Preview(fresh("B", 0.5), 1, layout)

	if !plan.Clamped {
		t.Error("Clamped = false, want true")
	}
	if got := plan.Layout["A"].Row(small); got != 1 {
		t.Errorf("A row = %d, want clamped to 1", got)
	}
}

func TestPreviewWidthlessFieldUsesDefaultWidth(t *testing.T) {
	layout := grid.Layout{"A": at("A", 1, 0, 0)}
	plan := New(cfg).Preview(fresh("B", 0), 0, layout)

	if plan.Strategy != StrategyPushDown {
		t.Fatalf("Strategy = %v, want push-down", plan.Strategy)
	}
	assertAt(t, plan.Layout, "B", cfg.DefaultWidth(), 0, 0)
}

func TestPreviewDoesNotMutateBaseline(t *testing.T) {
	layout := grid.Layout{"A": at("A", 1, 0, 0)}
	New(cfg).Preview(fresh("B", 0.5), 0, layout)

	if len(layout) != 1 || layout["A"].Row(cfg) != 0 {
		t.Errorf("baseline changed: %+v", layout)
	}
}

func TestPreviewIsDeterministic(t *testing.T) {
	layout := grid.Layout{
		"a": at("a", 1.0/3, 0, 0),
		"b": at("b", 1.0/3, 1.0/3, 0),
		"c": at("c", 1.0/3, 2.0/3, 0),
		"d": at("d", 0.5, 0, 1),
		"e": at("e", 0.5, 0.5, 1),
	}
	p := New(cfg)
	first := p.Preview(fresh("x", 0.5), 0, layout)
	for range 20 {
		next := p.Preview(fresh("x", 0.5), 0, layout)
		if !next.Layout.Equal(first.Layout) || next.Strategy != first.Strategy {
			t.Fatal("Preview() returned different plans for the same input")
		}
	}
}

func TestPreviewClampsInputs(t *testing.T) {
	plan := New(cfg).Preview(fresh("B", 0.45), 1000, grid.Layout{})
	if plan.Row != cfg.MaxRows-1 {
		t.Errorf("Row = %d, want %d", plan.Row, cfg.MaxRows-1)
	}
	if !cfg.IsAllowedWidth(plan.Width) {
		t.Errorf("Width = %v is not an allowed width", plan.Width)
	}
}

func TestStrategyString(t *testing.T) {
	tests := map[Strategy]string{
		StrategyNone:     "none",
		StrategyResize:   "resize",
		StrategyDirect:   "direct",
		StrategyPushDown: "push-down",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}
