package grid

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestWidths(t *testing.T) {
	got := Default().Widths()
	want := []float64{2.0 / 6, 3.0 / 6, 4.0 / 6, 1}
	if len(got) != len(want) {
		t.Fatalf("Widths() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Errorf("Widths()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNextPrevWidth(t *testing.T) {
	cfg := Default()

	if w, ok := cfg.NextWidth(1.0 / 3); !ok || !approx(w, 0.5) {
		t.Errorf("NextWidth(1/3) = %v, %v; want 0.5, true", w, ok)
	}
	if w, ok := cfg.NextWidth(1); ok || w != 1 {
		t.Errorf("NextWidth(1) = %v, %v; want 1, false", w, ok)
	}
	if w, ok := cfg.PrevWidth(0.5); !ok || !approx(w, 1.0/3) {
		t.Errorf("PrevWidth(0.5) = %v, %v; want 1/3, true", w, ok)
	}
	if _, ok := cfg.PrevWidth(1.0 / 3); ok {
		t.Error("PrevWidth(1/3) should report no smaller width")
	}
	if w, ok := cfg.NextWidth(0.55); !ok || !approx(w, 2.0/3) {
		t.Errorf("NextWidth(0.55) = %v, %v; want 2/3, true", w, ok)
	}
}

func TestNearestWidth(t *testing.T) {
	cfg := Default()
	tests := []struct {
		in, want float64
	}{
		{0.45, 0.5},
		{0.9, 1},
		{0.58, 0.5},
		{0.1, 1.0 / 3},
		{2, 1},
	}
	for _, tt := range tests {
		if got := cfg.NearestWidth(tt.in); !approx(got, tt.want) {
			t.Errorf("NearestWidth(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLargestWidthAtMost(t *testing.T) {
	cfg := Default()
	if w, ok := cfg.LargestWidthAtMost(0.6); !ok || !approx(w, 0.5) {
		t.Errorf("LargestWidthAtMost(0.6) = %v, %v; want 0.5, true", w, ok)
	}
	if w, ok := cfg.LargestWidthAtMost(1); !ok || !approx(w, 1) {
		t.Errorf("LargestWidthAtMost(1) = %v, %v; want 1, true", w, ok)
	}
	if _, ok := cfg.LargestWidthAtMost(0.2); ok {
		t.Error("LargestWidthAtMost(0.2) should find nothing")
	}
	// 1 - 2/3 is a hair below 1/3 in floating point.
	if w, ok := cfg.LargestWidthAtMost(1 - 2.0/3); !ok || !approx(w, 1.0/3) {
		t.Errorf("LargestWidthAtMost(1-2/3) = %v, %v; want 1/3, true", w, ok)
	}
}

func TestIsAllowedWidth(t *testing.T) {
	cfg := Default()
	if !cfg.IsAllowedWidth(4.0 / 6) {
		t.Error("4/6 should be allowed")
	}
	if cfg.IsAllowedWidth(5.0 / 6) {
		t.Error("5/6 should not be allowed")
	}
}

func TestDefaultWidth(t *testing.T) {
	cfg := Default()
	if got := cfg.DefaultWidth(); !approx(got, cfg.MaxWidth()) || !cfg.IsAllowedWidth(got) {
		t.Errorf("DefaultWidth() = %v, want the widest allowed width %v", got, cfg.MaxWidth())
	}
}
