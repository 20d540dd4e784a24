// Package geom provides the discrete 2D geometry used to place satellite
// parts: four facing directions, four quarter-turn rotations, and integer
// points in screen coordinates (x grows right, y grows down).
package geom

import "fmt"

// Direction is the side a connector faces in a part's frame.
// Values are cyclic under addition modulo 4.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Left
}

// Opposite returns the direction facing the other way.
func (d Direction) Opposite() Direction {
	return Direction(mod4(int(d) + 2))
}

// ParseDirection converts a direction name to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "right":
		return Right, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	}
	return 0, fmt.Errorf("invalid direction %q, expected up, right, down or left", s)
}

// Rotation is a quarter-turn count, clockwise on screen.
type Rotation int

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

// Valid reports whether r is one of the four rotations.
func (r Rotation) Valid() bool {
	return r >= Rot0 && r <= Rot270
}

// Inverse returns the rotation that undoes r.
func (r Rotation) Inverse() Rotation {
	return Rotation(mod4(-int(r)))
}

// Degrees returns the clockwise angle of r.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", r.Degrees())
}

// Point is an integer position in a part's local frame or on screen.
type Point struct {
	X, Y int
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// RotatePoint rotates p clockwise about the local origin by r.
// With y pointing down, a point above the origin moves to its right.
func RotatePoint(p Point, r Rotation) Point {
	switch Rotation(mod4(int(r))) {
	case Rot90:
		return Point{X: -p.Y, Y: p.X}
	case Rot180:
		return Point{X: -p.X, Y: -p.Y}
	case Rot270:
		return Point{X: p.Y, Y: -p.X}
	default:
		return p
	}
}

// RotateDirection returns (d + r) mod 4.
func RotateDirection(d Direction, r Rotation) Direction {
	return Direction(mod4(int(d) + int(r)))
}

// Connectable reports whether a parent connector facing parentDir under
// parentRot can mate with a child connector facing childDir under childRot.
// The rotated directions must be exact opposites.
func Connectable(parentDir Direction, parentRot Rotation, childDir Direction, childRot Rotation) bool {
	return RotateDirection(parentDir, parentRot) == RotateDirection(childDir, childRot).Opposite()
}

// Step returns the unit offset that moves a child whose connector faces
// child onto a parent connector facing parent. ok is false unless the
// pair is one of the four opposite-facing combinations.
func Step(child, parent Direction) (delta Point, ok bool) {
	switch {
	case child == Up && parent == Down:
		return Point{Y: 1}, true
	case child == Down && parent == Up:
		return Point{Y: -1}, true
	case child == Left && parent == Right:
		return Point{X: 1}, true
	case child == Right && parent == Left:
		return Point{X: -1}, true
	}
	return Point{}, false
}

func mod4(n int) int {
	return ((n % 4) + 4) % 4
}
