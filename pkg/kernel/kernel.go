// Package kernel defines the solid modeling interface used to build 3D
// previews of assembled satellites. The sdfx subpackage implements it.
package kernel

import "errors"

// ErrEmptyMesh is returned by ToMesh when a solid yields no triangles.
var ErrEmptyMesh = errors.New("solid produced an empty mesh")

// Axis names a world axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and meshes solids. Primitives are centered on the origin.
type Kernel interface {
	Box(x, y, z float64) Solid
	// Rod is a cylinder of the given length lying along axis.
	Rod(axis Axis, length, radius float64) Solid

	// Union merges solids. It panics if given none.
	Union(solids ...Solid) Solid

	Translate(s Solid, x, y, z float64) Solid
	// TurnZ turns s by quarter turns about Z, clockwise seen from +Z.
	TurnZ(s Solid, quarters int) Solid

	ToMesh(s Solid) (*Mesh, error)
}
