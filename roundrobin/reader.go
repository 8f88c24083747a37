package roundrobin

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/ardnew/splitwork/endpoint"
	"github.com/ardnew/splitwork/pkg"
)

// lineReader reads a source one block at a time and hands out the lines
// of the current block.
type lineReader struct {
	src    endpoint.Source
	buf    *block
	off    int   // cursor: first unconsumed byte
	n      int   // remaining unconsumed bytes
	closed bool  // end of stream observed and acknowledged
	err    error // read error held back because the same read returned data
}

// newLineReader returns an open reader with an empty block.
func newLineReader(src endpoint.Source) *lineReader {
	return &lineReader{src: src, buf: allocBlock()}
}

// load refills the block with a single successful read and returns the
// number of bytes read. Zero means end of stream. Interrupted reads are
// retried unless ctx is done.
func (r *lineReader) load(ctx context.Context) (int, error) {
	r.off, r.n = 0, 0
	if err := r.err; err != nil {
		r.err = nil
		return 0, err
	}
	for {
		n, err := r.src.Read(r.buf[:])
		if n > 0 {
			r.n = min(n, BlockSize)
			if err != nil && !errors.Is(err, io.EOF) {
				r.err = err
			}
			return r.n, nil
		}
		switch {
		case err == nil, errors.Is(err, io.EOF):
			return 0, nil
		case endpoint.Interrupted(err):
			if cerr := checkCancel(ctx); cerr != nil {
				return 0, cerr
			}
			pkg.LogDebug(pkg.ComponentReader, "read interrupted, retrying",
				"fd", r.src.Descriptor())
		default:
			return 0, err
		}
	}
}

// nextLine reports the size of the next line in the block, through and
// including its newline. Without a newline the line runs to the end of the
// block and may continue in the next one.
func (r *lineReader) nextLine() (hasNewline bool, size int) {
	i := bytes.IndexByte(r.pending(), '\n')
	if i < 0 {
		return false, r.n
	}
	return true, i + 1
}

// pending returns the unconsumed bytes of the block.
func (r *lineReader) pending() []byte {
	return r.buf[r.off : r.off+r.n]
}

// advance consumes k bytes.
func (r *lineReader) advance(k int) {
	r.n -= k
	r.off += k
}

// atEnd reports whether the block has been fully consumed.
func (r *lineReader) atEnd() bool {
	return r.n == 0
}

// close marks the source as finished. It is never loaded again.
func (r *lineReader) close() {
	r.closed = true
	r.off, r.n = 0, 0
}

// release returns the block to the pool.
func (r *lineReader) release() {
	freeBlock(r.buf)
	r.buf = nil
}
