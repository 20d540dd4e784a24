package cursor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/satforge/pkg/geom"
)

var (
	ErrIncompatibleConnection = errors.New("incompatible connection")
	ErrInvalidCursorState     = errors.New("invalid cursor state")
	ErrInvalidRotation        = errors.New("invalid rotation")
)

// IncompatibleConnectionError is returned by AttachPart when the two
// connectors do not face each other after rotation.
type IncompatibleConnectionError struct {
	Parent geom.Direction // rotated parent-side direction
	Child  geom.Direction // rotated child-side direction
}

func (e *IncompatibleConnectionError) Error() string {
	return fmt.Sprintf("incompatible directions: parent faces %s, child faces %s", e.Parent, e.Child)
}

func (e *IncompatibleConnectionError) Is(target error) bool {
	return target == ErrIncompatibleConnection
}

// InvalidCursorStateError is returned when an operation needs a current
// satellite, current part or last part that the cursor does not have.
type InvalidCursorStateError struct {
	Reason string
}

func (e *InvalidCursorStateError) Error() string {
	return "invalid cursor state: " + e.Reason
}

func (e *InvalidCursorStateError) Is(target error) bool {
	return target == ErrInvalidCursorState
}

// OpError records the cursor operation and arguments that failed.
type OpError struct {
	Op   string
	Args []any
	Err  error
}

func (e *OpError) Error() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		if s, ok := a.(string); ok {
			args[i] = fmt.Sprintf("%q", s)
			continue
		}
		args[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("%s(%s): %v", e.Op, strings.Join(args, ", "), e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
