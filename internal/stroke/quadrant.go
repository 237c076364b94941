package stroke

// Quadrant numbers the four equal squares of a canvas: 1 top-left,
// 2 top-right, 3 bottom-left, 4 bottom-right.
type Quadrant uint8

const (
	TopLeft Quadrant = iota + 1
	TopRight
	BottomLeft
	BottomRight
)

// QuadrantOf places (x, y) on a square canvas of the given size. Points on
// the midline belong to the right or bottom half.
func QuadrantOf(x, y, size float64) Quadrant {
	mid := size / 2
	q := TopLeft
	if x >= mid {
		q++
	}
	if y >= mid {
		q += 2
	}
	return q
}
