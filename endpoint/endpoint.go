package endpoint

import (
	"errors"
	"io"
	"syscall"
)

// Source is an open endpoint lines are read from.
//
// Read follows [io.Reader]. Both (0, nil) and (0, [io.EOF]) mean end of
// stream. A call interrupted before transferring data returns an error for
// which [Interrupted] reports true.
type Source interface {
	Read(p []byte) (int, error)
	Descriptor() int
}

// Sink is an open endpoint lines are written to.
//
// Write may transfer fewer bytes than requested without an error; callers
// resume with the remainder. A call interrupted before transferring data
// returns an error for which [Interrupted] reports true.
type Sink interface {
	Write(p []byte) (int, error)
	Descriptor() int
}

// Interrupted reports whether err is an interrupted-call condition that
// should be retried.
func Interrupted(err error) bool {
	return err != nil && errors.Is(err, syscall.EINTR)
}

// streamSource adapts an io.Reader.
type streamSource struct {
	r  io.Reader
	id int
}

// FromReader returns a [Source] reading from r and reporting id as its
// descriptor.
func FromReader(id int, r io.Reader) Source {
	return &streamSource{r: r, id: id}
}

func (s *streamSource) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *streamSource) Descriptor() int { return s.id }

// streamSink adapts an io.Writer.
type streamSink struct {
	w  io.Writer
	id int
}

// FromWriter returns a [Sink] writing to w and reporting id as its
// descriptor.
func FromWriter(id int, w io.Writer) Sink {
	return &streamSink{w: w, id: id}
}

func (s *streamSink) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *streamSink) Descriptor() int { return s.id }
