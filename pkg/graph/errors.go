package graph

import (
	"errors"
	"fmt"

	"github.com/chazu/satforge/pkg/catalog"
)

var (
	ErrDuplicateSatellite = errors.New("duplicate satellite")
	ErrNotFound           = errors.New("not found")
	ErrNoConnectedPart    = errors.New("no connected part")
)

// DuplicateSatelliteError is returned when a satellite name is already taken.
type DuplicateSatelliteError struct {
	Name string
}

func (e *DuplicateSatelliteError) Error() string {
	return fmt.Sprintf("there is already a satellite named %s", e.Name)
}

func (e *DuplicateSatelliteError) Is(target error) bool { return target == ErrDuplicateSatellite }

// NotFoundError is returned when no satellite has the requested name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("there is no satellite named %s", e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NoConnectedPartError is returned when nothing hangs off a connector.
// It also matches ErrNotFound.
type NoConnectedPartError struct {
	Connector *catalog.Connector
}

func (e *NoConnectedPartError) Error() string {
	return fmt.Sprintf("there is no part connected to connector %s", e.Connector.Signature())
}

func (e *NoConnectedPartError) Is(target error) bool {
	return target == ErrNoConnectedPart || target == ErrNotFound
}
