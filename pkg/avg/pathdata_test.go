package avg

import (
	"math"
	"slices"
	"testing"
)

func TestParsePathData(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		values string
		points []float64
	}{
		{"absolute", "M 10 20 L 30 40", "ML", []float64{10, 20, 30, 40}},
		{"commas", "M10,20,L30,40", "ML", []float64{10, 20, 30, 40}},
		{"relative", "M10,20 l5,5 h10 v-5 z", "MLLLZ", []float64{10, 20, 15, 25, 25, 25, 25, 20}},
		{"relative start", "m10 10 l5 0", "ML", []float64{10, 10, 15, 10}},
		{"repeated arguments", "M0 0 L1 1 2 2", "MLL", []float64{0, 0, 1, 1, 2, 2}},
		{"horizontal and vertical", "M1 2 H5 V7", "MLL", []float64{1, 2, 5, 2, 5, 7}},
		{"consecutive moves collapse", "M0 0 M5 5 L10 10", "ML", []float64{5, 5, 10, 10}},
		{"trailing move dropped", "M0 0 L10 0 M5 5", "ML", []float64{0, 0, 10, 0}},
		{"double close", "M0 0 L10 0 Z Z", "MLZ", []float64{0, 0, 10, 0}},
		{"smooth quad", "M0 0 Q10 10 20 0 T40 0", "MQQ", []float64{0, 0, 10, 10, 20, 0, 30, -10, 40, 0}},
		{"smooth cubic", "M0 0 C0 10 10 10 10 0 S20 -10 20 0", "MCC",
			[]float64{0, 0, 0, 10, 10, 10, 10, 0, 10, -10, 20, -10, 20, 0}},
		{"smooth cubic without previous curve", "M0 0 S10 10 20 0", "MC", []float64{0, 0, 0, 0, 10, 10, 20, 0}},
		{"relative quad", "M10 10 q5 5 10 0", "MQ", []float64{10, 10, 15, 15, 20, 10}},
		{"zero radius arc is a line", "M0 0 A0 5 0 0 1 10 0", "ML", []float64{0, 0, 10, 0}},
		{"empty", "", "", nil},
		{"lone move", "M5 5", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePathData(tt.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Values() != tt.values {
				t.Errorf("expected values %q, got %q", tt.values, p.Values())
			}
			if !slices.Equal(p.Points(), tt.points) && (len(tt.points) != 0 || len(p.Points()) != 0) {
				t.Errorf("expected points %v, got %v", tt.points, p.Points())
			}
		})
	}
}

func TestParsePathData_Arc(t *testing.T) {
	// A half circle of radius 10 from (0,0) to (20,0).
	p, err := ParsePathData("M0 0 A10 10 0 0 1 20 0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Values() != "MCC" {
		t.Fatalf("expected two cubic segments, got %q", p.Values())
	}
	pts := p.Points()
	endX, endY := pts[len(pts)-2], pts[len(pts)-1]
	if math.Abs(endX-20) > 1e-9 || math.Abs(endY) > 1e-9 {
		t.Errorf("expected the arc to end at (20,0), got (%v,%v)", endX, endY)
	}

	// Relative commands after the arc continue from its end point.
	p, err = ParsePathData("M0 0 A10 10 0 0 1 20 0 l5 0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pts = p.Points()
	if got := pts[len(pts)-2]; math.Abs(got-25) > 1e-9 {
		t.Errorf("expected the line to end at x=25, got %v", got)
	}
}

func TestParsePathData_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown command", "M0 0 X5 5"},
		{"missing number", "M0 0 L5"},
		{"number without command", "10 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePathData(tt.data)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !p.Empty() {
				t.Errorf("expected an empty path, got %q", p.Values())
			}
		})
	}
}
