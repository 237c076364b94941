// Package stroke classifies strokes by direction and canvas quadrant.
package stroke

import (
	"fmt"
	"math"
)

// Direction is one of the eight compass octants or Curved.
type Direction uint8

// Octants are ordered clockwise on screen (y grows downward), starting at
// rightward. The order defines the direction ring.
const (
	Right Direction = iota
	DownRight
	Down
	DownLeft
	Left
	UpLeft
	Up
	UpRight
	Curved
)

const ringSize = 8

var directionNames = [...]string{
	Right:     "right",
	DownRight: "down-right",
	Down:      "down",
	DownLeft:  "down-left",
	Left:      "left",
	UpLeft:    "up-left",
	Up:        "up",
	UpRight:   "up-right",
	Curved:    "curved",
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// ParseDirection converts a direction name back into a Direction.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= len(directionNames) {
		return nil, fmt.Errorf("invalid direction %d", d)
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// IsOctant reports whether d is one of the eight straight directions.
func (d Direction) IsOctant() bool {
	return d < ringSize
}

// OctantOf bins the heading of (dx, dy) into 45° octants centred on 0°, 45°,
// ..., 315°. A zero vector is Right.
func OctantOf(dx, dy float64) Direction {
	angle := Heading(dx, dy)
	return Direction(int(math.Floor((angle+22.5)/45)) % ringSize)
}

// Heading returns the angle of (dx, dy) in degrees, normalised to [0, 360).
func Heading(dx, dy float64) float64 {
	angle := math.Atan2(dy, dx) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	if angle >= 360 {
		angle -= 360
	}
	return angle
}

// TurnAngle returns the absolute difference between two headings folded
// into [0, 180].
func TurnAngle(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// RingDistance is the number of 45° steps between two octants, 0 to 4.
// Curved on either side counts as one step; ok is false then.
func RingDistance(a, b Direction) (steps int, ok bool) {
	if !a.IsOctant() || !b.IsOctant() {
		return 1, false
	}
	diff := int(a) - int(b)
	if diff < 0 {
		diff = -diff
	}
	if ringSize-diff < diff {
		diff = ringSize - diff
	}
	return diff, true
}

// Adjacent reports whether two octants are equal or one step apart.
// Curved is never adjacent to anything.
func Adjacent(a, b Direction) bool {
	steps, ok := RingDistance(a, b)
	return ok && steps <= 1
}
