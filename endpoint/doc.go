// Package endpoint defines the I/O endpoints consumed by the round-robin
// core and provides implementations over raw file descriptors.
//
// The core never opens or closes an endpoint. Everything here is about
// turning what a caller holds (a descriptor number, an [os.File], a path,
// an arbitrary [io.Reader] or [io.Writer]) into a [Source] or [Sink].
//
// # Descriptors
//
// [FD] reads and writes with read(2)/write(2) directly, so an interrupted
// call surfaces as EINTR instead of being retried inside the runtime. The
// core checks [Interrupted] and decides whether to retry or abort:
//
//	n, err := src.Read(buf)
//	if endpoint.Interrupted(err) {
//	    // check for cancellation, then retry
//	}
//
// [ParseDescriptors] is the call boundary for dynamically supplied
// descriptor lists. It validates every entry eagerly and returns a typed,
// fixed-length slice:
//
//	fds, err := endpoint.ParseDescriptors([]string{"3", "fd:4"})
//
// # Named Pipes
//
// [OpenSink] can create a missing path as a FIFO so that a separate process
// can attach to a destination:
//
//	sink, err := endpoint.OpenSink("/tmp/rr/worker0", true)
//
// Opening a FIFO blocks until the other side opens it too.
package endpoint
