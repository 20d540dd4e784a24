package graph

import (
	"fmt"

	"github.com/chazu/satforge/pkg/geom"
)

// ValidationSeverity indicates whether a validation finding blocks rendering
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks rendering
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Satellite string
	PartID    PartID // -1 if satellite-level
	Message   string
	Severity  ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.PartID < 0 {
		return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Satellite, e.Message)
	}
	return fmt.Sprintf("[%s] %s part %d: %s", e.Severity, e.Satellite, e.PartID, e.Message)
}

// Validate runs the structural checks on a satellite's part tree and
// returns every finding. An empty slice means the tree can be laid out.
// Validate is read-only.
func Validate(s *Satellite) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRoot(s)...)
	errs = append(errs, validateParents(s)...)
	errs = append(errs, validateConnections(s)...)
	return errs
}

// ValidateFleet validates every satellite in creation order.
func ValidateFleet(f *Fleet) []ValidationError {
	var errs []ValidationError
	for _, s := range f.sats {
		errs = append(errs, Validate(s)...)
	}
	return errs
}

// validateRoot checks that part 0 is the only part without a connection.
func validateRoot(s *Satellite) []ValidationError {
	var errs []ValidationError
	for _, p := range s.parts {
		isRoot := p.ID == RootID
		if isRoot && (p.Connection != nil || p.parent != nil) {
			errs = append(errs, ValidationError{
				Satellite: s.Name,
				PartID:    p.ID,
				Message:   "root part has a connection",
				Severity:  SeverityError,
			})
		}
		if !isRoot && (p.Connection == nil || p.parent == nil) {
			errs = append(errs, ValidationError{
				Satellite: s.Name,
				PartID:    p.ID,
				Message:   "non-root part has no parent",
				Severity:  SeverityError,
			})
		}
	}
	return errs
}

// validateParents checks that every parent link stays inside the satellite
// and that following parent links from any part reaches the root.
func validateParents(s *Satellite) []ValidationError {
	var errs []ValidationError
	for _, p := range s.parts {
		if p.parent == nil {
			continue
		}
		if !s.Owns(p.parent) {
			errs = append(errs, ValidationError{
				Satellite: s.Name,
				PartID:    p.ID,
				Message:   fmt.Sprintf("parent %v belongs to another satellite", p.parent),
				Severity:  SeverityError,
			})
			continue
		}
		hops := 0
		q := p
		for q.parent != nil && hops <= len(s.parts) {
			q = q.parent
			hops++
		}
		if q.ID != RootID || q.parent != nil {
			errs = append(errs, ValidationError{
				Satellite: s.Name,
				PartID:    p.ID,
				Message:   "parent chain does not reach the root",
				Severity:  SeverityError,
			})
		}
	}
	return errs
}

// validateConnections checks each connector pair against the part types on
// either side and their rotations.
func validateConnections(s *Satellite) []ValidationError {
	var errs []ValidationError
	for _, p := range s.parts {
		c := p.Connection
		if c == nil || p.parent == nil {
			continue
		}
		if c.Parent == nil || c.Child == nil {
			errs = append(errs, ValidationError{
				Satellite: s.Name,
				PartID:    p.ID,
				Message:   "connection is missing a connector",
				Severity:  SeverityError,
			})
			continue
		}
		if c.Parent.Type() != p.parent.Type {
			errs = append(errs, ValidationError{
				Satellite: s.Name,
				PartID:    p.ID,
				Message:   fmt.Sprintf("parent connector %v is not on part type %s", c.Parent, p.parent.Type.Name),
				Severity:  SeverityError,
			})
		}
		if c.Child.Type() != p.Type {
			errs = append(errs, ValidationError{
				Satellite: s.Name,
				PartID:    p.ID,
				Message:   fmt.Sprintf("child connector %v is not on part type %s", c.Child, p.Type.Name),
				Severity:  SeverityError,
			})
		}
		if !geom.Connectable(c.Parent.Direction, p.parent.Rotation, c.Child.Direction, p.Rotation) {
			errs = append(errs, ValidationError{
				Satellite: s.Name,
				PartID:    p.ID,
				Message: fmt.Sprintf("incompatible directions: %s to %s",
					geom.RotateDirection(c.Child.Direction, p.Rotation),
					geom.RotateDirection(c.Parent.Direction, p.parent.Rotation)),
				Severity: SeverityError,
			})
		}
	}
	return errs
}
