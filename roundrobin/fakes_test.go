package roundrobin

import (
	"bytes"
	"io"
	"math/rand"
	"strings"

	"github.com/ardnew/splitwork/endpoint"
)

// step is one scripted Read result: data, or an error instead of data.
type step struct {
	data string
	err  error
}

// scriptSource replays steps, splitting data across reads as needed, then
// reports end of stream.
type scriptSource struct {
	id    int
	steps []step
	calls int
	hook  func(call int)
}

func (s *scriptSource) Read(p []byte) (int, error) {
	s.calls++
	if s.hook != nil {
		s.hook(s.calls)
	}
	if len(s.steps) == 0 {
		return 0, io.EOF
	}
	st := s.steps[0]
	if st.err != nil {
		s.steps = s.steps[1:]
		return 0, st.err
	}
	n := copy(p, st.data)
	if n < len(st.data) {
		s.steps[0].data = st.data[n:]
	} else {
		s.steps = s.steps[1:]
	}
	return n, nil
}

func (s *scriptSource) Descriptor() int { return s.id }

// source returns a scriptSource delivering data in chunks of at most size
// bytes; size 0 delivers it in one piece.
func source(id int, data string, size int) *scriptSource {
	return &scriptSource{id: id, steps: chunks(data, size)}
}

// chunks splits data into steps of at most size bytes.
func chunks(data string, size int) []step {
	if size <= 0 || size >= len(data) {
		if data == "" {
			return nil
		}
		return []step{{data: data}}
	}
	var steps []step
	for len(data) > size {
		steps = append(steps, step{data: data[:size]})
		data = data[size:]
	}
	return append(steps, step{data: data})
}

// recordSink records everything written to it. max limits the bytes
// accepted per call; errs are returned, in order, by the first calls (a nil
// entry lets that call proceed); fail is returned once limit bytes have
// been accepted.
type recordSink struct {
	id    int
	buf   bytes.Buffer
	max   int
	errs  []error
	fail  error
	limit int
	calls int
	hook  func(call int)
}

func (s *recordSink) Write(p []byte) (int, error) {
	s.calls++
	if s.hook != nil {
		s.hook(s.calls)
	}
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return 0, err
		}
	}
	if s.fail != nil && s.buf.Len() >= s.limit {
		return 0, s.fail
	}
	n := len(p)
	if s.max > 0 && n > s.max {
		n = s.max
	}
	s.buf.Write(p[:n])
	return n, nil
}

func (s *recordSink) Descriptor() int { return s.id }

func (s *recordSink) String() string { return s.buf.String() }

// recordSinks returns n sinks with descriptors 10, 11, ...
func recordSinks(n int) []*recordSink {
	sinks := make([]*recordSink, n)
	for i := range sinks {
		sinks[i] = &recordSink{id: 10 + i}
	}
	return sinks
}

// asSinks converts to the interface slice Split takes.
func asSinks(sinks []*recordSink) []endpoint.Sink {
	out := make([]endpoint.Sink, len(sinks))
	for i, s := range sinks {
		out[i] = s
	}
	return out
}

// asSources converts to the interface slice Merge takes.
func asSources(srcs []*scriptSource) []endpoint.Source {
	out := make([]endpoint.Source, len(srcs))
	for i, s := range srcs {
		out[i] = s
	}
	return out
}

// contents returns what each sink received.
func contents(sinks []*recordSink) []string {
	out := make([]string, len(sinks))
	for i, s := range sinks {
		out[i] = s.String()
	}
	return out
}

// lines splits data into lines, keeping terminators.
func lines(data string) []string {
	ls := strings.SplitAfter(data, "\n")
	if ls[len(ls)-1] == "" {
		ls = ls[:len(ls)-1]
	}
	return ls
}

// expectSplit computes the reference distribution of data across n
// destinations.
func expectSplit(data string, n int) []string {
	ls := strings.SplitAfter(data, "\n")
	out := make([]string, n)
	for k, l := range ls {
		if l == "" {
			continue
		}
		out[k%n] += l
	}
	return out
}

// randomText returns count lines of random length up to maxLen, the last
// one unterminated when open is set.
func randomText(rng *rand.Rand, count, maxLen int, open bool) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789 \t\x00\xff"
	var b strings.Builder
	for i := 0; i < count; i++ {
		n := rng.Intn(maxLen + 1)
		for j := 0; j < n; j++ {
			b.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		if i < count-1 || !open {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
