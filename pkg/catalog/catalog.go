// Package catalog holds the registry of part types a satellite can be
// assembled from. Each part type exposes a fixed set of connectors.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chazu/satforge/pkg/geom"
)

// RootType is the part type every satellite's root part is built from.
const RootType = "mainframe"

var (
	ErrDuplicateType      = errors.New("duplicate part type")
	ErrUnknownType        = errors.New("unknown part type")
	ErrUnknownConnector   = errors.New("unknown connector")
	ErrDuplicateConnector = errors.New("duplicate connector")
)

// DuplicateTypeError is returned by Register when the name is taken.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("part type %q already exists", e.Name)
}

func (e *DuplicateTypeError) Is(target error) bool { return target == ErrDuplicateType }

// UnknownTypeError is returned when a part type name is not registered.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("the part type %q does not exist", e.Name)
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// UnknownConnectorError is returned when no connector of a type matches a signature.
type UnknownConnectorError struct {
	Type string
	Sig  Signature
}

func (e *UnknownConnectorError) Error() string {
	return fmt.Sprintf("part type %q has no connector %s", e.Type, e.Sig)
}

func (e *UnknownConnectorError) Is(target error) bool { return target == ErrUnknownConnector }

// DuplicateConnectorError is returned by Register when two connectors of
// one type share a signature.
type DuplicateConnectorError struct {
	Type string
	Sig  Signature
}

func (e *DuplicateConnectorError) Error() string {
	return fmt.Sprintf("part type %q declares connector %s twice", e.Type, e.Sig)
}

func (e *DuplicateConnectorError) Is(target error) bool { return target == ErrDuplicateConnector }

// Signature identifies a connector within its part type.
type Signature struct {
	X, Y      int
	Direction geom.Direction
}

func (s Signature) String() string {
	return fmt.Sprintf("{ %d, %d, %s }", s.X, s.Y, s.Direction)
}

// Connector is an attachment point on a part type. Connectors are compared
// by pointer; each one belongs to exactly one PartType.
type Connector struct {
	Position  geom.Point
	Direction geom.Direction
	owner     *PartType
}

// Signature returns the (x, y, direction) triple of c.
func (c *Connector) Signature() Signature {
	return Signature{X: c.Position.X, Y: c.Position.Y, Direction: c.Direction}
}

// Type returns the part type c belongs to.
func (c *Connector) Type() *PartType {
	return c.owner
}

func (c *Connector) String() string {
	if c.owner == nil {
		return c.Signature().String()
	}
	return c.owner.Name + c.Signature().String()
}

// PartType is an immutable catalog entry.
type PartType struct {
	Name       string
	Glyphs     []rune // one glyph, or one per rotation
	connectors []*Connector
	bySig      map[Signature]*Connector
}

// NewPartType builds a part type from connector signatures, in order.
func NewPartType(name string, glyphs []rune, sigs ...Signature) (*PartType, error) {
	pt := &PartType{
		Name:   name,
		Glyphs: append([]rune(nil), glyphs...),
		bySig:  make(map[Signature]*Connector, len(sigs)),
	}
	for _, sig := range sigs {
		if !sig.Direction.Valid() {
			return nil, fmt.Errorf("part type %q: connector %s: invalid direction", name, sig)
		}
		if _, dup := pt.bySig[sig]; dup {
			return nil, &DuplicateConnectorError{Type: name, Sig: sig}
		}
		c := &Connector{
			Position:  geom.Point{X: sig.X, Y: sig.Y},
			Direction: sig.Direction,
			owner:     pt,
		}
		pt.connectors = append(pt.connectors, c)
		pt.bySig[sig] = c
	}
	return pt, nil
}

// Connectors returns the connectors of pt in declaration order.
func (pt *PartType) Connectors() []*Connector {
	return append([]*Connector(nil), pt.connectors...)
}

// Connector returns the connector matching sig, or nil.
func (pt *PartType) Connector(sig Signature) *Connector {
	return pt.bySig[sig]
}

// Glyph returns the glyph drawn for pt under rotation r.
func (pt *PartType) Glyph(r geom.Rotation) rune {
	switch len(pt.Glyphs) {
	case 0:
		return '?'
	case 4:
		return pt.Glyphs[int(geom.RotateDirection(geom.Up, r))]
	default:
		return pt.Glyphs[0]
	}
}

// Catalog is a registry of part types keyed by name. It is populated once
// at startup and read-only during assembly.
type Catalog struct {
	types map[string]*PartType
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{types: make(map[string]*PartType)}
}

// Register adds pt to the catalog.
func (c *Catalog) Register(pt *PartType) error {
	if pt == nil {
		return errors.New("catalog: nil part type")
	}
	if _, ok := c.types[pt.Name]; ok {
		return &DuplicateTypeError{Name: pt.Name}
	}
	c.types[pt.Name] = pt
	return nil
}

// Lookup returns the part type registered under name.
func (c *Catalog) Lookup(name string) (*PartType, error) {
	pt, ok := c.types[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return pt, nil
}

// ConnectorBySignature returns the connector of pt matching (x, y, dir).
func ConnectorBySignature(pt *PartType, x, y int, dir geom.Direction) (*Connector, error) {
	sig := Signature{X: x, Y: y, Direction: dir}
	if conn := pt.Connector(sig); conn != nil {
		return conn, nil
	}
	return nil, &UnknownConnectorError{Type: pt.Name, Sig: sig}
}

// Names returns the registered type names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered types.
func (c *Catalog) Len() int {
	return len(c.types)
}

// Clone returns a catalog sharing the same part types. Registering into the
// clone does not affect c.
func (c *Catalog) Clone() *Catalog {
	out := New()
	for name, pt := range c.types {
		out.types[name] = pt
	}
	return out
}
