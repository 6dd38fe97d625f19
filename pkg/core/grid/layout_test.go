package grid

import (
	"slices"
	"testing"
)

func place(id string, w, x float64, row int) Placement {
	c := Default()
	return Placement{ID: id, Width: w, Position: Position{X: x, Y: c.RowY(row)}}
}

func sampleLayout() Layout {
	return Layout{
		"a": place("a", 0.5, 0, 0),
		"b": place("b", 0.5, 0.5, 0),
		"c": place("c", 1, 0, 2),
		"d": {ID: "d", Width: 0.5, Position: HiddenPosition},
	}
}

func ids(ps []Placement) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestPlacementHidden(t *testing.T) {
	tests := []struct {
		name string
		p    Placement
		want bool
	}{
		{"visible", place("a", 0.5, 0, 0), false},
		{"hidden position", Placement{ID: "a", Width: 0.5, Position: HiddenPosition}, true},
		{"zero width", Placement{ID: "a", Width: 0}, true},
		{"negative x", Placement{ID: "a", Width: 0.5, Position: Position{X: -0.1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Hidden(); got != tt.want {
				t.Errorf("Hidden() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlacementHideKeepsWidth(t *testing.T) {
	p := place("a", 2.0/3, 1.0/3, 3).Hide()
	if p.Visible() || p.Width != 2.0/3 {
		t.Errorf("Hide() = %+v, want hidden with width kept", p)
	}
}

func TestLayoutOrdered(t *testing.T) {
	l := sampleLayout()
	got := ids(l.Ordered(Default()))
	want := []string{"a", "b", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("Ordered() = %v, want %v", got, want)
	}
}

func TestLayoutRow(t *testing.T) {
	c := Default()
	l := sampleLayout()

	if got := ids(l.Row(c, 0, "")); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Row(0) = %v", got)
	}
	if got := ids(l.Row(c, 0, "a")); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Row(0, exclude a) = %v", got)
	}
	if got := l.Row(c, 1, ""); len(got) != 0 {
		t.Errorf("Row(1) = %v, want empty", got)
	}
}

func TestLayoutRowIndexes(t *testing.T) {
	c := Default()
	l := sampleLayout()
	if got := l.RowIndexes(c); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("RowIndexes() = %v, want [0 2]", got)
	}
	if got := l.RowCount(c); got != 3 {
		t.Errorf("RowCount() = %d, want 3", got)
	}
	if got := (Layout{}).RowCount(c); got != 0 {
		t.Errorf("empty RowCount() = %d, want 0", got)
	}
}

func TestLayoutCloneIsIndependent(t *testing.T) {
	l := sampleLayout()
	cp := l.Clone()
	cp["a"] = place("a", 1, 0, 5)
	if l["a"].Width != 0.5 {
		t.Error("mutating the clone changed the original")
	}
	if got := Layout(nil).Clone(); got == nil {
		t.Error("Clone of nil should return an empty layout")
	}
}

func TestLayoutChanged(t *testing.T) {
	l := sampleLayout()
	o := l.Clone()
	o["b"] = place("b", 0.5, 0.5, 1)
	o["c"] = place("c", 1, 0, 2)
	o["e"] = place("e", 1, 0, 4) // only in o
	delete(o, "d")

	if got := l.Changed(o); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Changed() = %v, want [b]", got)
	}
	if l.Equal(o) {
		t.Error("Equal() should be false")
	}
	if !l.Equal(l.Clone()) {
		t.Error("a layout should equal its clone")
	}
}
