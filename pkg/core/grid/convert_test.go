package grid

import (
	"testing"

	"github.com/matzehuels/magnetgrid/pkg/document"
	"github.com/matzehuels/magnetgrid/pkg/errors"
)

func TestExportParseRoundTrip(t *testing.T) {
	l := Layout{
		"name":  {ID: "name", Width: 1.0 / 3, Position: Position{X: 0, Y: 0}},
		"email": {ID: "email", Width: 2.0 / 3, Position: Position{X: 1.0 / 3, Y: 0}},
		"notes": {ID: "notes", Width: 0.5, Position: HiddenPosition},
		"odd":   {ID: "odd", Width: 0.1 + 0.2, Position: Position{X: 0.7, Y: 140}},
	}

	doc := Export(l, "contact")
	if doc.Key != "contact" || doc.Version != document.FormatVersion {
		t.Fatalf("Export() header = %q v%d", doc.Key, doc.Version)
	}
	if doc.Fields[0].ID != "email" {
		t.Errorf("Export() should order records by id, first = %q", doc.Fields[0].ID)
	}

	t.Run("direct", func(t *testing.T) {
		got, err := Parse(doc)
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		assertSameLayout(t, got, l)
	})

	t.Run("json", func(t *testing.T) {
		data, err := document.Marshal(doc)
		if err != nil {
			t.Fatalf("Marshal() error: %v", err)
		}
		back, err := document.Unmarshal(data)
		if err != nil {
			t.Fatalf("Unmarshal() error: %v", err)
		}
		got, err := Parse(back)
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		assertSameLayout(t, got, l)
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := document.MarshalYAML(doc)
		if err != nil {
			t.Fatalf("MarshalYAML() error: %v", err)
		}
		back, err := document.UnmarshalYAML(data)
		if err != nil {
			t.Fatalf("UnmarshalYAML() error: %v", err)
		}
		got, err := Parse(back)
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		assertSameLayout(t, got, l)
	})
}

// assertSameLayout requires bit-exact equality, not the tolerant Equal.
func assertSameLayout(t *testing.T, got, want Layout) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d fields, want %d", len(got), len(want))
	}
	for id, w := range want {
		g, ok := got[id]
		if !ok {
			t.Errorf("missing field %q", id)
			continue
		}
		if g != w {
			t.Errorf("field %q = %+v, want %+v", id, g, w)
		}
	}
}

func TestParseRejectsDuplicates(t *testing.T) {
	doc := document.Layout{Fields: []document.Field{{ID: "a"}, {ID: "a"}}}
	_, err := Parse(doc)
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("Parse() error = %v, want INVALID_LAYOUT", err)
	}
}

func TestSanitize(t *testing.T) {
	c := Default()
	l := Layout{
		"a": {ID: "a", Width: 0.45, Position: Position{X: 0.9, Y: 75}},
		"b": {ID: "b", Width: 0.5, Position: HiddenPosition},
	}
	got := c.Sanitize(l)

	a := got["a"]
	if !SameWidth(a.Width, 0.5) || !approx(a.Position.X, 0.5) || a.Position.Y != 70 {
		t.Errorf("Sanitize(a) = %+v", a)
	}
	if got["b"] != l["b"] {
		t.Errorf("hidden placements should pass through, got %+v", got["b"])
	}
	if err := c.Check(got); err != nil {
		t.Errorf("Check() after Sanitize() = %v", err)
	}
}

func TestCheck(t *testing.T) {
	c := Default()
	tests := []struct {
		name    string
		p       Placement
		wantErr bool
	}{
		{"ok", Placement{ID: "a", Width: 0.5, Position: Position{X: 0.5, Y: 140}}, false},
		{"bad width", Placement{ID: "a", Width: 0.4, Position: Position{}}, true},
		{"past right edge", Placement{ID: "a", Width: 0.5, Position: Position{X: 0.6}}, true},
		{"between rows", Placement{ID: "a", Width: 0.5, Position: Position{Y: 35}}, true},
		{"hidden ignored", Placement{ID: "a", Width: 0.4, Position: HiddenPosition}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Check(Layout{"a": tt.p})
			if (err != nil) != tt.wantErr {
				t.Errorf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
