package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chazu/satforge/pkg/catalog"
	"github.com/chazu/satforge/pkg/engine"
	"github.com/chazu/satforge/pkg/graph"
	"github.com/chazu/satforge/pkg/kernel"
	"github.com/chazu/satforge/pkg/layout"
	"github.com/chazu/satforge/pkg/render"
	"github.com/chazu/satforge/pkg/tessellate"
	"github.com/golang/glog"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the script -> fleet -> layout pipeline.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON mesh format written by the mesh command.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Part     string    `json:"part"`
	Type     string    `json:"type"`
	Color    string    `json:"color"`
}

// Result is the outcome of one script run.
type Result struct {
	Session    *engine.Session
	Placements []layout.Placement
	Errors     []engine.EvalError
	Warnings   []graph.ValidationError
}

// OK reports whether the run produced no errors.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// NewApp creates an App whose scripts start from cat.
func NewApp(cat *catalog.Catalog, k kernel.Kernel) *App {
	return &App{
		engine: engine.NewEngine(cat),
		kernel: k,
	}
}

// loadCatalogs merges the YAML catalogs at paths into one catalog.
func loadCatalogs(paths []string) (*catalog.Catalog, error) {
	cat := catalog.New()
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		err = cat.LoadYAML(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		glog.V(1).Infof("loaded catalog %s: %d types", p, cat.Len())
	}
	return cat, nil
}

// Build evaluates source and lays out every satellite it built. A satellite
// with a corrupted connection is reported as an error and left out of the
// placements; the others are still laid out.
func (a *App) Build(source string) *Result {
	result := &Result{}

	// Step 1: Evaluate the script into a fleet.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		glog.Errorf("evaluate: %v", err)
		result.Errors = append(result.Errors, engine.EvalError{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		result.Errors = append(result.Errors, evalErrs...)
		return result
	}
	result.Session = s

	// Step 2: Structural checks.
	for _, ve := range graph.ValidateFleet(s.Fleet()) {
		if ve.Severity == graph.SeverityError {
			result.Errors = append(result.Errors, engine.EvalError{Message: ve.Error()})
			continue
		}
		result.Warnings = append(result.Warnings, ve)
	}

	// Step 3: Resolve offsets, one satellite at a time.
	for _, sat := range s.Fleet().Satellites() {
		pls, err := layout.Satellite(sat)
		if err != nil {
			glog.Errorf("[%s] layout %s: %v", s.RunID, sat.Name, err)
			result.Errors = append(result.Errors, engine.EvalError{
				Message: fmt.Sprintf("satellite %s: %v", sat.Name, err),
			})
			continue
		}
		result.Warnings = append(result.Warnings, layout.OverlapWarnings(sat, layout.Overlaps(pls))...)
		result.Placements = append(result.Placements, pls...)
	}
	return result
}

// Meshes tessellates the placements of r.
func (a *App) Meshes(r *Result) ([]MeshData, error) {
	meshes, err := tessellate.Tessellate(r.Placements, a.kernel)
	if err != nil {
		return nil, fmt.Errorf("tessellation failed: %w", err)
	}
	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Part:     m.Part,
			Type:     m.Type,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return out, nil
}

// Frame builds the render frame for r: every placement, the cursor's
// current part highlighted, warnings in the overlay and a summary status.
func (r *Result) Frame(width int) render.Frame {
	f := render.Frame{Placements: r.Placements}
	if r.Session == nil {
		return f
	}
	f.Current = r.Session.Cursor.Current()

	if len(r.Warnings) > 0 && width > 0 {
		lines := make([]string, len(r.Warnings))
		for i, w := range r.Warnings {
			lines[i] = w.Error()
		}
		f.Overlay = render.NewOverlay(width, render.LineRows(lines, width))
		for _, l := range lines {
			f.Overlay.PutLine(l)
		}
	}

	names := make([]string, 0, r.Session.Fleet().Len())
	for _, sat := range r.Session.Fleet().Satellites() {
		names = append(names, sat.Name)
	}
	f.Status = fmt.Sprintf("%s: %d parts | arrows pan, q quits",
		strings.Join(names, ", "), len(r.Placements))
	return f
}
