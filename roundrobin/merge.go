package roundrobin

import (
	"context"
	"fmt"

	"github.com/ardnew/splitwork/endpoint"
	"github.com/ardnew/splitwork/pkg"
)

// newline terminates an unterminated last line when other sources remain.
var newline = []byte{'\n'}

// merger holds the state of one Merge call.
type merger struct {
	readers []*lineReader
	w       *lineWriter
	i       int // rotation index
	open    int // sources not yet closed
}

// Merge writes one line from each of srcs in turn to dst, starting with
// srcs[0], until every source reaches end of stream. Closed sources drop
// out of the rotation. A source whose last line lacks a newline gets one
// appended if another source is still open when it closes.
//
// A failed read aborts the call with an [*EndpointError] naming the source
// descriptor; a failed write names the sink. Merge never closes an
// endpoint.
func Merge(ctx context.Context, dst endpoint.Sink, srcs []endpoint.Source) error {
	if dst == nil {
		return fmt.Errorf("merge: sink is nil: %w", pkg.ErrInvalidParameter)
	}
	if err := checkGroup(srcs); err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	m := &merger{
		readers: make([]*lineReader, len(srcs)),
		w:       newLineWriter(dst),
		open:    len(srcs),
	}
	for i, src := range srcs {
		m.readers[i] = newLineReader(src)
	}
	defer m.release()

	pkg.LogDebug(pkg.ComponentMerge, "merge started",
		"sink", dst.Descriptor(), "sources", len(srcs))

	var lines, total, terminated int64
	for m.open > 0 {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		r, err := m.nextReady(ctx)
		if err != nil {
			return endpointError("read", RoleSource, m.i, srcs[m.i].Descriptor(), err)
		}
		if r == nil {
			break
		}

		hasNewline, size := r.nextLine()
		written, err := m.w.write(ctx, r.pending()[:size])
		if err != nil {
			return endpointError("write", RoleSink, 0, dst.Descriptor(), err)
		}
		r.advance(written)
		total += int64(written)

		if hasNewline && written == size {
			lines++
			m.rotate()
			continue
		}

		// The block ended mid-line. If this source is about to close and
		// others remain, terminate its last line so the next source's line
		// starts on a line of its own.
		if !hasNewline && m.open > 1 && r.atEnd() {
			n, err := r.load(ctx)
			if err != nil {
				return endpointError("read", RoleSource, m.i, srcs[m.i].Descriptor(), err)
			}
			if n == 0 {
				if _, err := m.w.write(ctx, newline); err != nil {
					return endpointError("write", RoleSink, 0, dst.Descriptor(), err)
				}
				lines++
				terminated++
				m.closeCurrent()
			}
		}
	}

	if _, err := m.w.flush(ctx); err != nil {
		return endpointError("flush", RoleSink, 0, dst.Descriptor(), err)
	}

	pkg.LogDebug(pkg.ComponentMerge, "merge finished",
		"sink", dst.Descriptor(), "lines", lines, "bytes", total,
		"terminated", terminated)
	return nil
}

// nextReady returns the reader at the rotation index with unconsumed data,
// refilling exhausted readers and skipping closed ones. It returns nil once
// every source is closed. On error the rotation index names the source
// that failed.
func (m *merger) nextReady(ctx context.Context) (*lineReader, error) {
	r := m.readers[m.i]
	for m.open > 0 && r.atEnd() {
		if r.closed {
			m.rotate()
			r = m.readers[m.i]
			continue
		}
		n, err := r.load(ctx)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			break
		}
		m.closeCurrent()
		r = m.readers[m.i]
	}
	if m.open == 0 {
		return nil, nil
	}
	return r, nil
}

// rotate advances the rotation index.
func (m *merger) rotate() {
	m.i = (m.i + 1) % len(m.readers)
}

// closeCurrent closes the reader at the rotation index and moves on.
func (m *merger) closeCurrent() {
	m.readers[m.i].close()
	m.open--
	pkg.LogDebug(pkg.ComponentMerge, "source closed",
		"position", m.i, "fd", m.readers[m.i].src.Descriptor(), "open", m.open)
	m.rotate()
}

// release returns every block to the pool.
func (m *merger) release() {
	for _, r := range m.readers {
		if r != nil {
			r.release()
		}
	}
	m.w.release()
}
