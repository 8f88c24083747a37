package roundrobin

import (
	"context"
	"fmt"

	"github.com/ardnew/splitwork/endpoint"
	"github.com/ardnew/splitwork/pkg"
)

// Split copies every line of src to dsts so that line k is delivered whole
// to dsts[k%len(dsts)]. An unterminated last line is delivered as is.
//
// Lines are coalesced per destination and written out in full blocks. A
// line that spans a block is written out whole, tail included, as soon as
// its newline is accepted, so no destination is left holding the end of a
// long line. [WithLineFlush] writes out every line as it completes.
//
// A failed write or flush aborts the call with an [*EndpointError] whose
// Position is the index of the destination in dsts. Some lines may already
// have reached some destinations by then. Split never closes an endpoint.
func Split(ctx context.Context, src endpoint.Source, dsts []endpoint.Sink, opts ...SplitOption) error {
	if src == nil {
		return fmt.Errorf("split: source is nil: %w", pkg.ErrInvalidParameter)
	}
	if err := checkGroup(dsts); err != nil {
		return fmt.Errorf("split: %w", err)
	}

	o := newSplitOptions(opts...)

	r := newLineReader(src)
	defer r.release()

	writers := make([]*lineWriter, len(dsts))
	for i, dst := range dsts {
		writers[i] = newLineWriter(dst)
	}
	defer func() {
		for _, w := range writers {
			w.release()
		}
	}()

	pkg.LogDebug(pkg.ComponentSplit, "split started",
		"source", src.Descriptor(), "destinations", len(dsts),
		"flushLines", o.flushLines)

	var lines, total int64
	i := 0
	for {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		n, err := r.load(ctx)
		if err != nil {
			return endpointError("read", RoleSource, 0, src.Descriptor(), err)
		}
		if n == 0 {
			break
		}

		for !r.atEnd() {
			if err := checkCancel(ctx); err != nil {
				return err
			}
			hasNewline, size := r.nextLine()
			written, err := writers[i].write(ctx, r.pending()[:size])
			if err != nil {
				return endpointError("write", RoleDestination, i, dsts[i].Descriptor(), err)
			}
			r.advance(written)
			total += int64(written)

			// Rotate only at a line boundary; a partial write leaves the
			// rest of the line for the same destination.
			if hasNewline && written == size {
				lines++
				w := writers[i]
				if o.flushLines || w.spilled {
					if _, err := w.flush(ctx); err != nil {
						return endpointError("flush", RoleDestination, i, dsts[i].Descriptor(), err)
					}
				}
				w.spilled = false
				i = (i + 1) % len(writers)
			}
		}
	}

	for j, w := range writers {
		if _, err := w.flush(ctx); err != nil {
			return endpointError("flush", RoleDestination, j, dsts[j].Descriptor(), err)
		}
	}

	pkg.LogDebug(pkg.ComponentSplit, "split finished",
		"source", src.Descriptor(), "lines", lines, "bytes", total)
	return nil
}
