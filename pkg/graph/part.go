package graph

import (
	"fmt"

	"github.com/chazu/satforge/pkg/catalog"
	"github.com/chazu/satforge/pkg/geom"
)

// PartID indexes a part within its satellite. The root is always 0.
type PartID int

// RootID is the ID of every satellite's root part.
const RootID PartID = 0

// Connection records how a part mates with its parent.
type Connection struct {
	Parent *catalog.Connector // connector on the parent's type
	Child  *catalog.Connector // connector on this part's type
}

// Part is one node of a satellite's part tree.
type Part struct {
	ID         PartID
	Type       *catalog.PartType
	Rotation   geom.Rotation
	Connection *Connection // nil for the root

	parent *Part
	sat    *Satellite
}

// Parent returns the part p is attached to, or nil for the root.
func (p *Part) Parent() *Part {
	return p.parent
}

// Satellite returns the satellite that owns p.
func (p *Part) Satellite() *Satellite {
	return p.sat
}

// IsRoot reports whether p has no parent.
func (p *Part) IsRoot() bool {
	return p.parent == nil
}

// Depth returns the number of parent hops from p to the root.
func (p *Part) Depth() int {
	n := 0
	for q := p.parent; q != nil; q = q.parent {
		n++
	}
	return n
}

func (p *Part) String() string {
	name := "<nil>"
	if p.Type != nil {
		name = p.Type.Name
	}
	if p.sat == nil {
		return fmt.Sprintf("%s#%d", name, p.ID)
	}
	return fmt.Sprintf("%s/%s#%d", p.sat.Name, name, p.ID)
}
