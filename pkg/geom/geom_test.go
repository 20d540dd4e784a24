package geom

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

var allDirections = []Direction{Up, Right, Down, Left}
var allRotations = []Rotation{Rot0, Rot90, Rot180, Rot270}

func TestRotateDirectionInvertible(t *testing.T) {
	for _, d := range allDirections {
		for _, r := range allRotations {
			got := RotateDirection(RotateDirection(d, r), Rotation(mod4(-int(r))))
			if got != d {
				t.Errorf("rotate(rotate(%s, %s), inverse) = %s, want %s", d, r, got, d)
			}
			assert.Equal(t, RotateDirection(RotateDirection(d, r), r.Inverse()), d)
		}
	}
}

func TestRotateDirectionWraps(t *testing.T) {
	assert.Equal(t, RotateDirection(Left, Rot90), Up)
	assert.Equal(t, RotateDirection(Down, Rot180), Up)
	assert.Equal(t, RotateDirection(Up, Rot270), Left)
	assert.Equal(t, RotateDirection(Right, Rotation(-1)), Up)
}

func TestConnectableExactlyOpposites(t *testing.T) {
	var matches int
	for _, p := range allDirections {
		for _, c := range allDirections {
			ok := Connectable(p, Rot0, c, Rot0)
			if ok {
				matches++
			}
			if ok != (p.Opposite() == c) {
				t.Errorf("Connectable(%s, %s) = %v", p, c, ok)
			}
		}
	}
	if matches != 4 {
		t.Fatalf("expected 4 connectable pairs, got %d", matches)
	}

	assert.Equal(t, Connectable(Up, Rot0, Down, Rot0), true)
	assert.Equal(t, Connectable(Down, Rot0, Up, Rot0), true)
	assert.Equal(t, Connectable(Left, Rot0, Right, Rot0), true)
	assert.Equal(t, Connectable(Right, Rot0, Left, Rot0), true)
	assert.Equal(t, Connectable(Up, Rot0, Up, Rot0), false)
}

func TestConnectableAppliesRotation(t *testing.T) {
	// A right-facing connector turned 90° faces down; it mates with an up-facing one.
	assert.Equal(t, Connectable(Right, Rot90, Up, Rot0), true)
	assert.Equal(t, Connectable(Down, Rot0, Right, Rot270), true)
	assert.Equal(t, Connectable(Down, Rot0, Up, Rot180), false)
	assert.Equal(t, Connectable(Down, Rot0, Down, Rot180), true)
}

func TestRotatePoint(t *testing.T) {
	tests := []struct {
		name string
		in   Point
		rot  Rotation
		want Point
	}{
		{"identity", Point{2, -1}, Rot0, Point{2, -1}},
		{"quarter turn", Point{0, -1}, Rot90, Point{1, 0}},
		{"half turn", Point{2, -1}, Rot180, Point{-2, 1}},
		{"three quarters", Point{0, -1}, Rot270, Point{-1, 0}},
		{"origin fixed", Point{}, Rot270, Point{}},
		{"wraps past full turn", Point{3, 1}, Rotation(5), Point{-1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RotatePoint(tt.in, tt.rot)
			if got != tt.want {
				t.Errorf("RotatePoint(%s, %s) = %s, want %s", tt.in, tt.rot, got, tt.want)
			}
		})
	}
}

func TestRotatePointMatchesDirection(t *testing.T) {
	unit := map[Direction]Point{
		Up:    {0, -1},
		Right: {1, 0},
		Down:  {0, 1},
		Left:  {-1, 0},
	}
	for _, d := range allDirections {
		for _, r := range allRotations {
			assert.Equal(t, RotatePoint(unit[d], r), unit[RotateDirection(d, r)])
		}
	}
}

func TestStep(t *testing.T) {
	d, ok := Step(Up, Down)
	assert.Equal(t, ok, true)
	assert.Equal(t, d, Point{0, 1})

	d, ok = Step(Down, Up)
	assert.Equal(t, ok, true)
	assert.Equal(t, d, Point{0, -1})

	d, ok = Step(Left, Right)
	assert.Equal(t, ok, true)
	assert.Equal(t, d, Point{1, 0})

	d, ok = Step(Right, Left)
	assert.Equal(t, ok, true)
	assert.Equal(t, d, Point{-1, 0})

	_, ok = Step(Up, Up)
	assert.Equal(t, ok, false)
	_, ok = Step(Up, Left)
	assert.Equal(t, ok, false)
}

func TestParseDirection(t *testing.T) {
	for _, d := range allDirections {
		got, err := ParseDirection(d.String())
		if err != nil {
			t.Fatalf("ParseDirection(%q): %v", d.String(), err)
		}
		assert.Equal(t, got, d)
	}
	if _, err := ParseDirection("north"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, Direction(7).String(), "Direction(7)")
	assert.Equal(t, Direction(7).Valid(), false)
	assert.Equal(t, Rot270.String(), "270°")
}
