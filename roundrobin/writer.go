package roundrobin

import (
	"context"
	"io"

	"github.com/ardnew/splitwork/endpoint"
	"github.com/ardnew/splitwork/pkg"
)

// lineWriter coalesces writes to a sink into one block. The block holds
// only bytes not yet written, in buf[:end].
type lineWriter struct {
	dst endpoint.Sink
	buf *block
	end int

	// spilled is set when write had to flush a full block. The caller
	// clears it.
	spilled bool
}

// newLineWriter returns a writer with an empty block.
func newLineWriter(dst endpoint.Sink) *lineWriter {
	return &lineWriter{dst: dst, buf: allocBlock()}
}

// available returns the free capacity of the block.
func (w *lineWriter) available() int {
	return BlockSize - w.end
}

// write accepts as much of p as fits in the block. When p does not fit,
// the part that does is copied and the full block is flushed. It returns
// the number of bytes accepted, which is less than len(p) whenever a flush
// happened; the caller continues with the rest.
func (w *lineWriter) write(ctx context.Context, p []byte) (int, error) {
	if w.available() == 0 {
		w.spilled = true
		if _, err := w.flush(ctx); err != nil {
			return 0, err
		}
	}
	if len(p) <= w.available() {
		w.end += copy(w.buf[w.end:], p)
		return len(p), nil
	}
	n := copy(w.buf[w.end:], p)
	w.end += n
	w.spilled = true
	if _, err := w.flush(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

// flush writes out every buffered byte, resuming after short writes and
// retrying interrupted ones unless ctx is done. It returns the number of
// bytes written. On failure the unwritten bytes are moved to the start of
// the block.
func (w *lineWriter) flush(ctx context.Context) (int, error) {
	done := 0
	for done < w.end {
		n, err := w.dst.Write(w.buf[done:w.end])
		if n > 0 {
			done += min(n, w.end-done)
		}
		if err == nil {
			if n > 0 {
				continue
			}
			err = io.ErrShortWrite
		}
		if endpoint.Interrupted(err) {
			if cerr := checkCancel(ctx); cerr != nil {
				w.compact(done)
				return done, cerr
			}
			pkg.LogDebug(pkg.ComponentWriter, "write interrupted, retrying",
				"fd", w.dst.Descriptor())
			continue
		}
		w.compact(done)
		return done, err
	}
	w.end = 0
	return done, nil
}

// compact drops the first done bytes of the block.
func (w *lineWriter) compact(done int) {
	w.end = copy(w.buf[:], w.buf[done:w.end])
}

// release returns the block to the pool.
func (w *lineWriter) release() {
	freeBlock(w.buf)
	w.buf = nil
}
