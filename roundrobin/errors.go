package roundrobin

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardnew/splitwork/pkg"
)

// Role names the part an endpoint plays in a call.
type Role string

// Endpoint roles.
const (
	RoleSource      Role = "source"
	RoleDestination Role = "destination"
	RoleSink        Role = "sink"
)

// EndpointError reports the endpoint that made a split or merge fail.
type EndpointError struct {
	Op         string // "read", "write" or "flush"
	Role       Role
	Position   int // index in the caller's list; 0 for a single source or sink
	Descriptor int
	Err        error
}

// Error names the endpoint by position for destinations and by descriptor
// for everything else.
func (e *EndpointError) Error() string {
	if e.Role == RoleDestination {
		return fmt.Sprintf("%s error in %s %d (file descriptor %d): %v",
			e.Op, e.Role, e.Position, e.Descriptor, e.Err)
	}
	return fmt.Sprintf("%s error in %s file descriptor %d: %v",
		e.Op, e.Role, e.Descriptor, e.Err)
}

// Unwrap returns [pkg.ErrIO] and the underlying cause.
func (e *EndpointError) Unwrap() []error {
	return []error{pkg.ErrIO, e.Err}
}

// endpointError wraps err for the endpoint at position. Cancellation is
// returned unchanged so it is never reported as an I/O failure.
func endpointError(op string, role Role, position, descriptor int, err error) error {
	if errors.Is(err, pkg.ErrCancelled) {
		return err
	}
	return &EndpointError{
		Op:         op,
		Role:       role,
		Position:   position,
		Descriptor: descriptor,
		Err:        err,
	}
}

// checkCancel returns a cancellation error once ctx is done.
func checkCancel(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", pkg.ErrCancelled, context.Cause(ctx))
}

// checkGroup validates an endpoint list before anything is allocated.
func checkGroup[E any](endpoints []E) error {
	switch {
	case len(endpoints) == 0:
		return pkg.ErrNoEndpoints
	case len(endpoints) > MaxGroupSize:
		return fmt.Errorf("%d endpoints exceed the limit of %d: %w",
			len(endpoints), MaxGroupSize, pkg.ErrNoMemory)
	}
	for i, ep := range endpoints {
		if any(ep) == nil {
			return fmt.Errorf("endpoint %d is nil: %w", i, pkg.ErrInvalidParameter)
		}
	}
	return nil
}
