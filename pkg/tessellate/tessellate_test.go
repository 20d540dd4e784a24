package tessellate_test

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/satforge/pkg/catalog"
	"github.com/chazu/satforge/pkg/cursor"
	"github.com/chazu/satforge/pkg/geom"
	"github.com/chazu/satforge/pkg/graph"
	"github.com/chazu/satforge/pkg/kernel"
	"github.com/chazu/satforge/pkg/kernel/sdfx"
	"github.com/chazu/satforge/pkg/layout"
	"github.com/chazu/satforge/pkg/tessellate"
)

const testCatalogYAML = `
types:
  - name: mainframe
    glyph: "#"
    connectors:
      - {x: 0, y: 0, dir: down}
      - {x: 0, y: 0, dir: right}
  - name: beam
    glyph: "|"
    connectors:
      - {x: 0, y: 0, dir: up}
      - {x: 0, y: 1, dir: down}
`

// newKernel returns a coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.NewWithCells(16)
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.New()
	if err := cat.LoadYAML(strings.NewReader(testCatalogYAML)); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	return cat
}

func lookup(t *testing.T, cat *catalog.Catalog, name string) *catalog.PartType {
	t.Helper()
	pt, err := cat.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return pt
}

func checkBounds(t *testing.T, s kernel.Solid, expectMin, expectMax [3]float64) {
	t.Helper()
	min, max := s.BoundingBox()
	const tol = 0.01
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestPartSolidSingleCell(t *testing.T) {
	k := newKernel()
	pt := lookup(t, loadCatalog(t), "mainframe")

	// Slab covers [-0.5, 0.5]; the right stud reaches 0.7 and the down
	// stud reaches -0.7.
	checkBounds(t, tessellate.PartSolid(k, pt),
		[3]float64{-0.5, -0.7, -tessellate.SlabDepth / 2},
		[3]float64{0.7, 0.5, tessellate.SlabDepth / 2})
}

func TestPartSolidTwoCells(t *testing.T) {
	k := newKernel()
	pt := lookup(t, loadCatalog(t), "beam")

	// Cells (0,0) and (0,1) cover world Y [-1.5, 0.5], plus studs.
	checkBounds(t, tessellate.PartSolid(k, pt),
		[3]float64{-0.5, -1.7, -tessellate.SlabDepth / 2},
		[3]float64{0.5, 0.7, tessellate.SlabDepth / 2})
}

func TestPlace(t *testing.T) {
	k := newKernel()
	pt := lookup(t, loadCatalog(t), "beam")
	base := tessellate.PartSolid(k, pt)

	t.Run("translate", func(t *testing.T) {
		pl := layout.Placement{Type: pt, At: geom.Point{X: 3, Y: 2}}
		checkBounds(t, tessellate.Place(k, base, pl),
			[3]float64{2.5, -3.7, -0.25},
			[3]float64{3.5, -1.3, 0.25})
	})

	t.Run("quarter turn", func(t *testing.T) {
		// Turned clockwise on the grid, the beam's second cell lies to the
		// left of its origin cell.
		pl := layout.Placement{Type: pt, Rotation: geom.Rot90}
		checkBounds(t, tessellate.Place(k, base, pl),
			[3]float64{-1.7, -0.5, -0.25},
			[3]float64{0.7, 0.5, 0.25})
	})
}

func TestTessellateSatellite(t *testing.T) {
	cat := loadCatalog(t)
	c := cursor.New(cat, graph.NewFleet())
	if err := c.NewSatellite("Alpha", 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AttachPart("beam", 0, 0, geom.Up, geom.Rot0, 0, 0, geom.Down); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AttachPart("beam", 0, 0, geom.Up, geom.Rot0, 0, 1, geom.Down); err != nil {
		t.Fatal(err)
	}
	pls, err := layout.Satellite(c.Satellite())
	if err != nil {
		t.Fatal(err)
	}

	meshes, err := tessellate.Tessellate(pls, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 3 {
		t.Fatalf("expected 3 meshes, got %d", len(meshes))
	}

	wantParts := []string{"Alpha/mainframe#0", "Alpha/beam#1", "Alpha/beam#2"}
	for i, m := range meshes {
		if m.IsEmpty() {
			t.Errorf("mesh %d should not be empty", i)
		}
		if m.Part != wantParts[i] {
			t.Errorf("mesh %d: Part = %q, want %q", i, m.Part, wantParts[i])
		}
	}
	if meshes[1].Type != "beam" {
		t.Errorf("mesh 1: Type = %q, want beam", meshes[1].Type)
	}

	// The last beam sits at grid (0, 3), so its mesh lies well below the
	// mainframe's.
	_, rootMax := meshes[0].Bounds()
	_, lastMax := meshes[2].Bounds()
	if lastMax[1] >= rootMax[1]-2 {
		t.Errorf("last beam top %f should be at least 2 below root top %f", lastMax[1], rootMax[1])
	}
}

func TestTessellateEmpty(t *testing.T) {
	meshes, err := tessellate.Tessellate(nil, newKernel())
	if err != nil {
		t.Fatalf("Tessellate(nil) failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(meshes))
	}
}
