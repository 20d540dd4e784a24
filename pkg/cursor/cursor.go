// Package cursor implements the construction cursor that assembly scripts
// drive: a current satellite, a current part and the part visited before
// it. Every operation validates fully before touching the cursor or the
// part tree, so a failed call leaves both as they were.
package cursor

import (
	"fmt"

	"github.com/chazu/satforge/pkg/catalog"
	"github.com/chazu/satforge/pkg/geom"
	"github.com/chazu/satforge/pkg/graph"
)

// Operation names used in OpError.
const (
	OpNewSatellite    = "sat-new"
	OpSelectSatellite = "sat-select"
	OpSwapToLast      = "part-last"
	OpGoToConnected   = "part-go"
	OpGoToRoot        = "part-root"
	OpAttachPart      = "part-add"
)

// Cursor is one construction session over a fleet. It is not safe for
// concurrent use.
type Cursor struct {
	cat   *catalog.Catalog
	fleet *graph.Fleet

	sat     *graph.Satellite
	current *graph.Part
	last    *graph.Part
}

// New returns an empty cursor that builds into fleet using part types from cat.
func New(cat *catalog.Catalog, fleet *graph.Fleet) *Cursor {
	return &Cursor{cat: cat, fleet: fleet}
}

// Fleet returns the fleet the cursor builds into.
func (c *Cursor) Fleet() *graph.Fleet { return c.fleet }

// Catalog returns the catalog part types are resolved from.
func (c *Cursor) Catalog() *catalog.Catalog { return c.cat }

// Satellite returns the current satellite, or nil.
func (c *Cursor) Satellite() *graph.Satellite { return c.sat }

// Current returns the current part, or nil.
func (c *Cursor) Current() *graph.Part { return c.current }

// Last returns the previously current part, or nil.
func (c *Cursor) Last() *graph.Part { return c.last }

// NewSatellite creates a satellite with a mainframe root and makes it
// current, with the root as current part and no last part.
func (c *Cursor) NewSatellite(name string, x, y int) error {
	s, err := c.fleet.CreateSatellite(c.cat, name, x, y)
	if err != nil {
		return &OpError{Op: OpNewSatellite, Args: []any{name, x, y}, Err: err}
	}
	c.sat = s
	c.current = s.Root()
	c.last = nil
	return nil
}

// SelectSatellite makes the named satellite current. The current and last
// parts are left alone; navigate separately.
func (c *Cursor) SelectSatellite(name string) error {
	s, err := c.fleet.FindByName(name)
	if err != nil {
		return &OpError{Op: OpSelectSatellite, Args: []any{name}, Err: err}
	}
	c.sat = s
	return nil
}

// SwapToLast exchanges the current and last parts. It fails without
// changing anything if there is no last part.
func (c *Cursor) SwapToLast() error {
	if c.last == nil {
		return &OpError{Op: OpSwapToLast, Err: &InvalidCursorStateError{Reason: "no last part"}}
	}
	c.current, c.last = c.last, c.current
	return nil
}

// GoToRoot moves to the root part of the current satellite. It is the way
// back onto a satellite after SelectSatellite.
func (c *Cursor) GoToRoot() error {
	if c.sat == nil {
		return &OpError{Op: OpGoToRoot, Err: &InvalidCursorStateError{Reason: "no satellite selected"}}
	}
	root := c.sat.Root()
	if root != c.current {
		c.last = c.current
		c.current = root
	}
	return nil
}

// GoToConnected moves to the child of the current part attached through
// the current part's connector (x, y, dir).
func (c *Cursor) GoToConnected(x, y int, dir geom.Direction) error {
	opErr := func(err error) error {
		return &OpError{Op: OpGoToConnected, Args: []any{x, y, dir}, Err: err}
	}
	if err := c.checkCurrent(); err != nil {
		return opErr(err)
	}
	conn, err := catalog.ConnectorBySignature(c.current.Type, x, y, dir)
	if err != nil {
		return opErr(err)
	}
	next, err := c.sat.ChildAt(c.current, conn)
	if err != nil {
		return opErr(err)
	}
	c.last = c.current
	c.current = next
	return nil
}

// AttachPart adds a part of type typeName below the current part. The new
// part's connector (cx, cy, cdir) mates with the current part's connector
// (px, py, pdir); rot is the new part's rotation. On success the new part
// becomes current and the old current part becomes last.
func (c *Cursor) AttachPart(typeName string, cx, cy int, cdir geom.Direction, rot geom.Rotation, px, py int, pdir geom.Direction) (*graph.Part, error) {
	opErr := func(err error) error {
		return &OpError{
			Op:   OpAttachPart,
			Args: []any{typeName, cx, cy, cdir, int(rot), px, py, pdir},
			Err:  err,
		}
	}
	if err := c.checkCurrent(); err != nil {
		return nil, opErr(err)
	}
	pt, err := c.cat.Lookup(typeName)
	if err != nil {
		return nil, opErr(err)
	}
	if !rot.Valid() {
		return nil, opErr(fmt.Errorf("%w: %d, expected 0-3", ErrInvalidRotation, int(rot)))
	}
	connParent, err := catalog.ConnectorBySignature(c.current.Type, px, py, pdir)
	if err != nil {
		return nil, opErr(err)
	}
	connChild, err := catalog.ConnectorBySignature(pt, cx, cy, cdir)
	if err != nil {
		return nil, opErr(err)
	}
	if !geom.Connectable(connParent.Direction, c.current.Rotation, connChild.Direction, rot) {
		return nil, opErr(&IncompatibleConnectionError{
			Parent: geom.RotateDirection(connParent.Direction, c.current.Rotation),
			Child:  geom.RotateDirection(connChild.Direction, rot),
		})
	}

	part := c.sat.AddPart(pt, c.current, rot, connParent, connChild)
	c.last = c.current
	c.current = part
	return part, nil
}

// checkCurrent verifies there is a current part on the current satellite.
func (c *Cursor) checkCurrent() error {
	switch {
	case c.sat == nil:
		return &InvalidCursorStateError{Reason: "no satellite selected"}
	case c.current == nil:
		return &InvalidCursorStateError{Reason: "no current part"}
	case !c.sat.Owns(c.current):
		return &InvalidCursorStateError{
			Reason: fmt.Sprintf("current part %v is not on satellite %s", c.current, c.sat.Name),
		}
	}
	return nil
}
