// Package sdfx implements kernel.Kernel with the github.com/deadsy/sdfx
// signed distance field library. Meshes come from uniform marching cubes.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/satforge/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var _ kernel.Kernel = (*Kernel)(nil)

// DefaultMeshCells is the marching cubes resolution along the longest side
// of a solid's bounding box.
const DefaultMeshCells = 64

// MinMeshCells is the coarsest resolution NewWithCells accepts.
const MinMeshCells = 8

type solid struct {
	s sdf.SDF3
}

func (s *solid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	return [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}, [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
}

// Kernel builds solids as SDFs.
type Kernel struct {
	cells int
}

// New returns a kernel meshing at DefaultMeshCells.
func New() *Kernel {
	return &Kernel{cells: DefaultMeshCells}
}

// NewWithCells returns a kernel meshing at the given resolution, raised to
// MinMeshCells if lower.
func NewWithCells(cells int) *Kernel {
	return &Kernel{cells: max(cells, MinMeshCells)}
}

// Cells returns the marching cubes resolution.
func (k *Kernel) Cells() int { return k.cells }

func sdf3(s kernel.Solid) sdf.SDF3 {
	return s.(*solid).s
}

func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx: box %gx%gx%g: %v", x, y, z, err))
	}
	return &solid{s}
}

func (k *Kernel) Rod(axis kernel.Axis, length, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(length, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx: rod %g/%g: %v", length, radius, err))
	}
	switch axis {
	case kernel.AxisX:
		s = sdf.Transform3D(s, sdf.RotateY(math.Pi/2))
	case kernel.AxisY:
		s = sdf.Transform3D(s, sdf.RotateX(math.Pi/2))
	}
	return &solid{s}
}

func (k *Kernel) Union(solids ...kernel.Solid) kernel.Solid {
	if len(solids) == 0 {
		panic("sdfx: union of nothing")
	}
	if len(solids) == 1 {
		return solids[0]
	}
	parts := make([]sdf.SDF3, len(solids))
	for i, s := range solids {
		parts[i] = sdf3(s)
	}
	return &solid{sdf.Union3D(parts...)}
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return &solid{sdf.Transform3D(sdf3(s), sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))}
}

// TurnZ turns s clockwise seen from +Z, which is a negative angle about Z.
func (k *Kernel) TurnZ(s kernel.Solid, quarters int) kernel.Solid {
	q := ((quarters % 4) + 4) % 4
	if q == 0 {
		return s
	}
	return &solid{sdf.Transform3D(sdf3(s), sdf.RotateZ(-float64(q)*math.Pi/2))}
}

// normalStep snaps face normal components so coplanar triangles agree.
const normalStep = 1e-4

func quantize(f float64) float32 {
	return float32(math.Round(f/normalStep) * normalStep)
}

// ToMesh runs marching cubes over s. Each triangle is flat shaded with its
// face normal.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	triangles := render.ToTriangles(sdf3(s), render.NewMarchingCubesUniform(k.cells))
	if len(triangles) == 0 {
		return nil, kernel.ErrEmptyMesh
	}

	mb := kernel.NewMeshBuilder()
	for _, tri := range triangles {
		n := tri.Normal()
		var corners [3][3]float32
		for j := 0; j < 3; j++ {
			corners[j] = [3]float32{float32(tri[j].X), float32(tri[j].Y), float32(tri[j].Z)}
		}
		mb.AddTriangle(corners, [3]float32{quantize(n.X), quantize(n.Y), quantize(n.Z)})
	}
	return mb.Mesh(), nil
}
