package graph

import (
	"fmt"

	"github.com/chazu/satforge/pkg/catalog"
	"github.com/chazu/satforge/pkg/geom"
)

// Satellite is a named part tree anchored at an absolute position.
// Parts are stored in an arena indexed by PartID, with a child list per
// part kept alongside the parent links.
type Satellite struct {
	Name string
	X, Y int

	parts    []*Part
	children map[PartID][]PartID
}

func newSatellite(name string, x, y int, root *catalog.PartType) *Satellite {
	s := &Satellite{
		Name:     name,
		X:        x,
		Y:        y,
		children: make(map[PartID][]PartID),
	}
	s.parts = append(s.parts, &Part{ID: RootID, Type: root, sat: s})
	return s
}

// Origin returns the absolute position of the root part.
func (s *Satellite) Origin() geom.Point {
	return geom.Point{X: s.X, Y: s.Y}
}

// Root returns the root part.
func (s *Satellite) Root() *Part {
	return s.parts[RootID]
}

// Part returns the part with the given ID, or nil.
func (s *Satellite) Part(id PartID) *Part {
	if id < 0 || int(id) >= len(s.parts) {
		return nil
	}
	return s.parts[id]
}

// Parts returns every part in insertion order, root first.
func (s *Satellite) Parts() []*Part {
	return append([]*Part(nil), s.parts...)
}

// PartCount returns the number of parts including the root.
func (s *Satellite) PartCount() int {
	return len(s.parts)
}

// Owns reports whether p belongs to s.
func (s *Satellite) Owns(p *Part) bool {
	return p != nil && p.sat == s && s.Part(p.ID) == p
}

// AddPart attaches a new part of type pt to parent through the given
// connector pair and returns it.
//
// AddPart does not check that the connectors are connectable or that they
// belong to the right types; callers must validate first. A connection that
// is not connectable is reported later by the offset resolver as a fatal
// error. parent must belong to s.
func (s *Satellite) AddPart(pt *catalog.PartType, parent *Part, rot geom.Rotation, parentConn, childConn *catalog.Connector) *Part {
	if !s.Owns(parent) {
		panic(fmt.Sprintf("graph: parent %v does not belong to satellite %s", parent, s.Name))
	}
	p := &Part{
		ID:       PartID(len(s.parts)),
		Type:     pt,
		Rotation: rot,
		Connection: &Connection{
			Parent: parentConn,
			Child:  childConn,
		},
		parent: parent,
		sat:    s,
	}
	s.parts = append(s.parts, p)
	s.children[parent.ID] = append(s.children[parent.ID], p.ID)
	return p
}

// Children returns the direct children of p in attachment order.
func (s *Satellite) Children(p *Part) []*Part {
	ids := s.children[p.ID]
	out := make([]*Part, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.parts[id])
	}
	return out
}

// ChildAt returns the first child of parent attached through conn.
func (s *Satellite) ChildAt(parent *Part, conn *catalog.Connector) (*Part, error) {
	for _, id := range s.children[parent.ID] {
		if c := s.parts[id]; c.Connection.Parent == conn {
			return c, nil
		}
	}
	return nil, &NoConnectedPartError{Connector: conn}
}

// FindPartByParentConnector scans every part in insertion order and returns
// the first whose parent-side connector is conn, regardless of which part
// it hangs off.
func (s *Satellite) FindPartByParentConnector(conn *catalog.Connector) (*Part, error) {
	for _, p := range s.parts {
		if p.Connection != nil && p.Connection.Parent == conn {
			return p, nil
		}
	}
	return nil, &NoConnectedPartError{Connector: conn}
}

// Fleet is the collection of satellites, in creation order, with unique names.
type Fleet struct {
	sats   []*Satellite
	byName map[string]*Satellite
}

// NewFleet creates an empty Fleet.
func NewFleet() *Fleet {
	return &Fleet{byName: make(map[string]*Satellite)}
}

// CreateSatellite adds a satellite whose root is a catalog.RootType part.
func (f *Fleet) CreateSatellite(cat *catalog.Catalog, name string, x, y int) (*Satellite, error) {
	if _, ok := f.byName[name]; ok {
		return nil, &DuplicateSatelliteError{Name: name}
	}
	root, err := cat.Lookup(catalog.RootType)
	if err != nil {
		return nil, err
	}
	s := newSatellite(name, x, y, root)
	f.sats = append(f.sats, s)
	f.byName[name] = s
	return s, nil
}

// FindByName returns the satellite with the given name.
func (f *Fleet) FindByName(name string) (*Satellite, error) {
	s, ok := f.byName[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return s, nil
}

// Satellites returns every satellite in creation order.
func (f *Fleet) Satellites() []*Satellite {
	return append([]*Satellite(nil), f.sats...)
}

// Len returns the number of satellites.
func (f *Fleet) Len() int {
	return len(f.sats)
}

// PartCount returns the number of parts across all satellites.
func (f *Fleet) PartCount() int {
	n := 0
	for _, s := range f.sats {
		n += len(s.parts)
	}
	return n
}
