// Package roundrobin distributes the lines of one stream across N streams
// and interleaves N streams back into one, in strict rotation.
//
// [Split] delivers logical line k of the source whole to destination
// k mod N. [Merge] takes one complete line from each source in turn,
// skipping sources as they reach end of stream, so that merging the output
// of a split reproduces the original stream:
//
//	err := roundrobin.Split(ctx, src, []endpoint.Sink{w0, w1, w2})
//	...
//	err = roundrobin.Merge(ctx, dst, []endpoint.Source{r0, r1, r2})
//
// # Buffering
//
// Every endpoint gets one [BlockSize] buffer, taken from a pool when the
// call starts and returned on every exit path. Reads fill a block and lines
// are sliced out of it; writes are coalesced into a block that is written
// out when full and at the end of the call. A line longer than a block
// crosses several reads and writes but still goes to exactly one
// destination, because rotation only advances after a newline has been
// accepted. Such a line is written out whole, tail included, before the
// split moves on; [WithLineFlush] does the same for every line.
//
// # Line Framing
//
// A line is a run of bytes through the next '\n', or the unterminated bytes
// at end of stream. [Split] passes an unterminated last line through
// untouched. [Merge] appends a '\n' to a source's unterminated last line
// when some other source is still open, so it is not glued to the next
// line; the last source to close keeps its trailing bytes as they are.
//
// # Cancellation
//
// Both calls run on the calling goroutine and block in the endpoints' Read
// and Write. The context is checked after every interrupted call (see
// [endpoint.Interrupted]) and once per loop iteration; a cancelled call
// returns an error matching [pkg.ErrCancelled] and the context's cause.
// Bytes already written stay written.
//
// # Errors
//
// An endpoint failure aborts the call with an [*EndpointError] naming the
// endpoint by role, position and descriptor. Endpoints are never closed.
package roundrobin
