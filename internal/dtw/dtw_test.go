package dtw

import (
	"math"
	"testing"

	"github.com/verte-zerg/kakite/internal/geom"
)

func TestResampleCountAndEndpoints(t *testing.T) {
	input := []geom.Point{{X: 0.3, Y: 0.1}, {X: 7, Y: 3}, {X: 7.5, Y: 40}, {X: 91.25, Y: 33.3}}
	for _, n := range []int{2, 3, 10, 50, 64} {
		out := Resample(input, n)
		if len(out) != n {
			t.Fatalf("expected %d points, got %d", n, len(out))
		}
		if out[0] != input[0] {
			t.Fatalf("first point changed: %v", out[0])
		}
		if out[n-1] != input[len(input)-1] {
			t.Fatalf("last point changed: %v", out[n-1])
		}
	}
}

func TestResampleEvenSpacing(t *testing.T) {
	out := Resample([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, 11)
	for i, p := range out {
		if math.Abs(p.X-float64(i)) > 1e-9 || p.Y != 0 {
			t.Fatalf("point %d: expected x=%d, got %v", i, i, p)
		}
	}
}

func TestResampleDegenerate(t *testing.T) {
	if out := Resample(nil, 5); len(out) != 0 {
		t.Fatalf("expected empty output, got %v", out)
	}
	single := Resample([]geom.Point{{X: 3, Y: 4}}, 5)
	if len(single) != 5 {
		t.Fatalf("expected 5 copies, got %d", len(single))
	}
	for _, p := range single {
		if p.X != 3 || p.Y != 4 {
			t.Fatalf("unexpected copy %v", p)
		}
	}
	same := Resample([]geom.Point{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}, 4)
	if len(same) != 4 || same[3].X != 1 {
		t.Fatalf("expected 4 copies of the first point, got %v", same)
	}
}

func TestDistanceSelfIsZero(t *testing.T) {
	a := Resample([]geom.Point{{X: 0, Y: 0}, {X: 30, Y: 10}, {X: 50, Y: 60}}, 50)
	if d := Distance(a, a); d > 1e-9 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestDistanceOffset(t *testing.T) {
	a := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	b := []geom.Point{{X: 0, Y: 3}, {X: 1, Y: 3}, {X: 2, Y: 3}}
	if d := Distance(a, b); math.Abs(d-3) > 1e-9 {
		t.Fatalf("expected average distance 3, got %v", d)
	}
}

func TestDistanceEmpty(t *testing.T) {
	if d := Distance(nil, []geom.Point{{X: 1, Y: 1}}); !math.IsInf(d, 1) {
		t.Fatalf("expected +Inf, got %v", d)
	}
}

func TestDistanceDifferentLengths(t *testing.T) {
	a := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	b := Resample(a, 11)
	d := Distance(a, b)
	if d <= 0 || d > 5 {
		t.Fatalf("expected small positive distance, got %v", d)
	}
}
