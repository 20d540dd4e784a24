// Package layout resolves where each part of a satellite is drawn. A part's
// offset is the sum of the child-to-parent deltas along its parent chain;
// the root sits at the satellite's origin.
package layout

import (
	"errors"
	"fmt"

	"github.com/chazu/satforge/pkg/catalog"
	"github.com/chazu/satforge/pkg/geom"
	"github.com/chazu/satforge/pkg/graph"
	"github.com/golang/glog"
)

// ErrInvalidConnection matches every *InvalidConnectionError.
var ErrInvalidConnection = errors.New("invalid connection")

// InvalidConnectionError reports a connection whose rotated connector
// directions are not opposite. It means the tree was built without the
// validation the construction cursor performs, so the satellite cannot be
// rendered.
type InvalidConnectionError struct {
	Part   *graph.Part
	Child  geom.Direction // rotated child-side direction
	Parent geom.Direction // rotated parent-side direction
}

func (e *InvalidConnectionError) Error() string {
	return fmt.Sprintf("invalid connection at %v - %s to %s", e.Part, e.Child, e.Parent)
}

func (e *InvalidConnectionError) Is(target error) bool { return target == ErrInvalidConnection }

// Delta returns the offset of p relative to its parent. It panics with an
// *InvalidConnectionError if the connection is not connectable, and
// returns the zero point for the root.
func Delta(p *graph.Part) geom.Point {
	parent := p.Parent()
	if parent == nil {
		return geom.Point{}
	}
	c := p.Connection

	d := geom.RotatePoint(c.Parent.Position, parent.Rotation).
		Sub(geom.RotatePoint(c.Child.Position, p.Rotation))

	dc := geom.RotateDirection(c.Child.Direction, p.Rotation)
	dp := geom.RotateDirection(c.Parent.Direction, parent.Rotation)
	step, ok := geom.Step(dc, dp)
	if !ok {
		panic(&InvalidConnectionError{Part: p, Child: dc, Parent: dp})
	}
	return d.Add(step)
}

// Offset walks from p up to the root summing the delta of every hop.
// It panics with an *InvalidConnectionError on a corrupted connection.
func Offset(p *graph.Part) geom.Point {
	var sum geom.Point
	for q := p; q.Parent() != nil; q = q.Parent() {
		sum = sum.Add(Delta(q))
	}
	return sum
}

// Position returns the absolute position of p: its satellite's origin
// plus Offset(p).
func Position(p *graph.Part) geom.Point {
	return p.Satellite().Origin().Add(Offset(p))
}

// Placement is what a renderer needs to draw one part.
type Placement struct {
	Part     *graph.Part
	At       geom.Point // absolute position
	Type     *catalog.PartType
	Rotation geom.Rotation
}

// Satellite resolves every part of s in insertion order. A corrupted
// connection aborts the whole satellite and is returned as an
// *InvalidConnectionError.
func Satellite(s *graph.Satellite) (placements []Placement, err error) {
	defer func() {
		if r := recover(); r != nil {
			ice, ok := r.(*InvalidConnectionError)
			if !ok {
				panic(r)
			}
			placements, err = nil, ice
		}
	}()

	parts := s.Parts()
	placements = make([]Placement, 0, len(parts))
	for _, p := range parts {
		pl := Placement{
			Part:     p,
			At:       Position(p),
			Type:     p.Type,
			Rotation: p.Rotation,
		}
		if glog.V(2) {
			glog.Infof("layout %s: %v at %s rot %s", s.Name, p, pl.At, p.Rotation)
		}
		placements = append(placements, pl)
	}
	return placements, nil
}

// Fleet lays out every satellite of f. Satellites with a corrupted
// connection are skipped and their errors collected; the rest are laid out.
func Fleet(f *graph.Fleet) ([]Placement, []error) {
	var (
		all  []Placement
		errs []error
	)
	for _, s := range f.Satellites() {
		pls, err := Satellite(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("satellite %s: %w", s.Name, err))
			continue
		}
		all = append(all, pls...)
	}
	return all, errs
}

// Overlap is a set of parts resolving to the same absolute position.
type Overlap struct {
	At    geom.Point
	Parts []*graph.Part
}

// Overlaps groups placements that share a position. Overlap is allowed; the
// result is advisory.
func Overlaps(placements []Placement) []Overlap {
	index := make(map[geom.Point]int)
	var groups []Overlap
	for _, pl := range placements {
		i, ok := index[pl.At]
		if !ok {
			index[pl.At] = len(groups)
			groups = append(groups, Overlap{At: pl.At, Parts: []*graph.Part{pl.Part}})
			continue
		}
		groups[i].Parts = append(groups[i].Parts, pl.Part)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Parts) > 1 {
			out = append(out, g)
		}
	}
	return out
}

// OverlapWarnings converts overlaps into graph validation warnings.
func OverlapWarnings(s *graph.Satellite, overlaps []Overlap) []graph.ValidationError {
	var out []graph.ValidationError
	for _, o := range overlaps {
		for _, p := range o.Parts[1:] {
			out = append(out, graph.ValidationError{
				Satellite: s.Name,
				PartID:    p.ID,
				Message:   fmt.Sprintf("overlaps %v at %s", o.Parts[0], o.At),
				Severity:  graph.SeverityWarning,
			})
		}
	}
	return out
}
