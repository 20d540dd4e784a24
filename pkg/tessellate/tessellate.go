// Package tessellate turns laid-out satellites into triangle meshes using a
// geometry kernel. One mesh is produced per placed part.
//
// Grid cells map to unit squares in the XY plane. Grid y grows downward and
// world Y grows upward, so a grid position (x, y) becomes world (x, -y). A
// part is a slab covering its connector cells with a short stud on every
// connector, turned about Z by its rotation.
package tessellate

import (
	"fmt"

	"github.com/chazu/satforge/pkg/catalog"
	"github.com/chazu/satforge/pkg/geom"
	"github.com/chazu/satforge/pkg/kernel"
	"github.com/chazu/satforge/pkg/layout"
	"github.com/golang/glog"
)

// Part dimensions in grid units.
const (
	SlabDepth  = 0.5
	StudLength = 0.4
	StudRadius = 0.15
)

// worldDir returns the world-space unit vector for a grid direction.
func worldDir(d geom.Direction) (float64, float64) {
	switch d {
	case geom.Up:
		return 0, 1
	case geom.Right:
		return 1, 0
	case geom.Down:
		return 0, -1
	case geom.Left:
		return -1, 0
	}
	return 0, 0
}

// cellBounds returns the grid cell range covered by pt: the origin cell
// plus every connector cell.
func cellBounds(pt *catalog.PartType) (min, max geom.Point) {
	for _, c := range pt.Connectors() {
		p := c.Position
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// PartSolid builds the unrotated solid for a part type, with its origin
// cell centered on the world origin.
func PartSolid(k kernel.Kernel, pt *catalog.PartType) kernel.Solid {
	min, max := cellBounds(pt)
	w := float64(max.X - min.X + 1)
	h := float64(max.Y - min.Y + 1)

	// Center of the covered cells, in world space.
	cx := float64(min.X+max.X) / 2
	cy := -float64(min.Y+max.Y) / 2
	parts := []kernel.Solid{k.Translate(k.Box(w, h, SlabDepth), cx, cy, 0)}

	for _, c := range pt.Connectors() {
		dx, dy := worldDir(c.Direction)
		axis := kernel.AxisY
		if dx != 0 {
			axis = kernel.AxisX
		}
		// Half the stud sits inside the slab, half sticks out.
		x := float64(c.Position.X) + dx*0.5
		y := -float64(c.Position.Y) + dy*0.5
		parts = append(parts, k.Translate(k.Rod(axis, StudLength, StudRadius), x, y, 0))
	}
	return k.Union(parts...)
}

// Place turns and moves a part solid to its placement. A clockwise quarter
// turn on the grid stays clockwise seen from +Z.
func Place(k kernel.Kernel, s kernel.Solid, pl layout.Placement) kernel.Solid {
	s = k.TurnZ(s, int(pl.Rotation))
	return k.Translate(s, float64(pl.At.X), -float64(pl.At.Y), 0)
}

// Tessellate produces one mesh per placement. Part solids are built once
// per type and reused. It never mutates the placements.
func Tessellate(placements []layout.Placement, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if len(placements) == 0 {
		return nil, nil
	}

	solids := make(map[*catalog.PartType]kernel.Solid)
	meshes := make([]*kernel.Mesh, 0, len(placements))
	for _, pl := range placements {
		base, ok := solids[pl.Type]
		if !ok {
			base = PartSolid(k, pl.Type)
			solids[pl.Type] = base
		}

		mesh, err := k.ToMesh(Place(k, base, pl))
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %v: %w", pl.Part, err)
		}
		mesh.Type = pl.Type.Name
		if pl.Part != nil {
			mesh.Part = pl.Part.String()
		}
		glog.V(2).Infof("tessellate %s: %d triangles", mesh.Part, mesh.TriangleCount())
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}
