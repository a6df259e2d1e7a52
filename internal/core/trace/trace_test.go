package trace

import (
	"fmt"
	"math"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		time      []float64
		intensity []float64
		field     string
	}{
		{"empty", nil, nil, "intensity"},
		{"length mismatch", []float64{0, 1}, []float64{1}, "time"},
		{"nan intensity", []float64{0, 1}, []float64{1, math.NaN()}, "intensity"},
		{"inf time", []float64{0, math.Inf(1)}, []float64{1, 2}, "time"},
		{"decreasing time accepted", []float64{0, 2, 1}, []float64{1, 2, 3}, ""},
		{"ok", []float64{0, 1, 1, 2}, []float64{1, 2, 3, 4}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.time, tt.intensity)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !IsInvalidInput(err) {
				t.Fatalf("want InvalidInputError, got %v", err)
			}
			if got := err.(*InvalidInputError).Field; got != tt.field {
				t.Fatalf("field = %q, want %q", got, tt.field)
			}
		})
	}
}

func TestIsInvalidInput_Wrapped(t *testing.T) {
	err := fmt.Errorf("load: %w", Invalid("x", "bad %d", 1))
	if !IsInvalidInput(err) {
		t.Fatalf("wrapped error not recognized")
	}
	if IsInvalidInput(fmt.Errorf("other")) {
		t.Fatalf("plain error recognized as invalid input")
	}
}

func TestPercentile(t *testing.T) {
	x := []float64{1, 1, 2, 9, 2, 1, 1, 9, 9, 1}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{100, 9},
		{50, 1.5},
		{90, 9},
		{95, 9},
		{75, 7.25},
	}
	for _, tt := range tests {
		if got := Percentile(x, tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if x[3] != 9 || x[0] != 1 {
		t.Fatalf("input reordered: %v", x)
	}
	if !math.IsNaN(Percentile(nil, 50)) {
		t.Fatalf("empty percentile should be NaN")
	}
	if got := Percentile([]float64{4}, 37); got != 4 {
		t.Fatalf("single sample percentile = %v", got)
	}
}

func TestMedianMinMax(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Fatalf("odd median = %v", got)
	}
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Fatalf("even median = %v", got)
	}
	if got := Max([]float64{3, 7, 1}); got != 7 {
		t.Fatalf("max = %v", got)
	}
	if got := Min([]float64{3, 7, 1}); got != 1 {
		t.Fatalf("min = %v", got)
	}
	if !math.IsNaN(Max(nil)) || !math.IsNaN(Median(nil)) {
		t.Fatalf("empty stats should be NaN")
	}
}

func TestPairsRoundTrip(t *testing.T) {
	tr := Trace{Time: []float64{0, 0.5}, Intensity: []float64{10, 20}}
	back := FromPairs(tr.Pairs())
	if back.Time[1] != 0.5 || back.Intensity[1] != 20 || back.Len() != 2 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
