package pkg

import "errors"

// Configuration errors.
var (
	// ErrNoEndpoints indicates an empty source or destination list.
	ErrNoEndpoints = errors.New("endpoint list is empty")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrBadDescriptor indicates a descriptor id that does not name an open file.
	ErrBadDescriptor = errors.New("bad file descriptor")
)

// Runtime errors.
var (
	// ErrIO indicates a read or write failure on an endpoint.
	ErrIO = errors.New("i/o error")

	// ErrNoMemory indicates per-endpoint state could not be allocated.
	ErrNoMemory = errors.New("insufficient memory")

	// ErrCancelled indicates the operation observed a cancellation request.
	ErrCancelled = errors.New("operation cancelled")

	// ErrWorker indicates a worker process exited unsuccessfully.
	ErrWorker = errors.New("worker failed")
)

// Kind classifies a terminal error returned by a split or merge.
type Kind int

// Error kinds.
const (
	KindNone          Kind = iota // No error
	KindConfiguration             // Invalid or empty endpoint list
	KindIO                        // Read or write failure
	KindNoMemory                  // Endpoint state allocation refused
	KindCancelled                 // Cancellation observed at a checkpoint
	KindWorker                    // Worker process failure
	KindUnknown                   // Anything else
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConfiguration:
		return "configuration"
	case KindIO:
		return "io"
	case KindNoMemory:
		return "no-memory"
	case KindCancelled:
		return "cancelled"
	case KindWorker:
		return "worker"
	default:
		return "unknown"
	}
}

// Error returns the sentinel error corresponding to the kind.
func (k Kind) Error() error {
	switch k {
	case KindNone:
		return nil
	case KindConfiguration:
		return ErrInvalidParameter
	case KindIO:
		return ErrIO
	case KindNoMemory:
		return ErrNoMemory
	case KindCancelled:
		return ErrCancelled
	case KindWorker:
		return ErrWorker
	default:
		return errors.ErrUnsupported
	}
}

// KindOf classifies err. Cancellation takes precedence, so an I/O error
// produced while unwinding a cancelled call still reports KindCancelled.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrCancelled):
		return KindCancelled
	case errors.Is(err, ErrNoEndpoints),
		errors.Is(err, ErrInvalidParameter),
		errors.Is(err, ErrBadDescriptor):
		return KindConfiguration
	case errors.Is(err, ErrNoMemory):
		return KindNoMemory
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrWorker):
		return KindWorker
	default:
		return KindUnknown
	}
}

// ExitCode returns the process exit status for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindNone:
		return 0
	case KindConfiguration:
		return 2
	case KindNoMemory:
		return 3
	case KindWorker:
		return 4
	case KindCancelled:
		return 130
	default:
		return 1
	}
}
