// Package dtw compares polylines with dynamic time warping.
package dtw

import (
	"math"

	"github.com/verte-zerg/kakite/internal/geom"
)

// Resample returns n points spaced evenly by arc length along points. The
// first and last input points are kept verbatim at both ends.
func Resample(points []geom.Point, n int) []geom.Point {
	if len(points) == 0 || n < 1 {
		return nil
	}
	if n == 1 {
		return []geom.Point{points[0]}
	}
	total := geom.PathLength(points)
	if len(points) == 1 || total == 0 {
		return repeat(points[0], n)
	}

	spacing := total / float64(n-1)
	out := make([]geom.Point, 0, n)
	out = append(out, points[0])
	walked := 0.0
	seg := 1
	for i := 1; i < n-1; i++ {
		target := spacing * float64(i)
		for seg < len(points) {
			d := geom.Dist(points[seg-1], points[seg])
			if walked+d >= target && d > 0 {
				t := (target - walked) / d
				a, b := points[seg-1], points[seg]
				out = append(out, geom.Point{
					X: a.X + t*(b.X-a.X),
					Y: a.Y + t*(b.Y-a.Y),
				})
				break
			}
			walked += d
			seg++
		}
		// Rounding can leave the last targets past the walked length.
		if len(out) <= i {
			out = append(out, points[len(points)-1])
		}
	}
	out = append(out, points[len(points)-1])
	return out
}

func repeat(p geom.Point, n int) []geom.Point {
	out := make([]geom.Point, n)
	for i := range out {
		out[i] = p
	}
	return out
}

// Distance returns the DTW alignment cost of a and b divided by the longer
// length, i.e. the average per-step distance. Empty input is +Inf.
func Distance(a, b []geom.Point) float64 {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	cols := m + 1
	table := make([]float64, (n+1)*cols)
	for i := 0; i <= n; i++ {
		table[i*cols] = math.Inf(1)
	}
	for j := 0; j <= m; j++ {
		table[j] = math.Inf(1)
	}
	table[0] = 0

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := geom.Dist(a[i-1], b[j-1])
			table[i*cols+j] = cost + min(
				table[(i-1)*cols+j],
				table[i*cols+j-1],
				table[(i-1)*cols+j-1],
			)
		}
	}
	return table[n*cols+m] / float64(max(n, m))
}
