package roundrobin

import (
	"context"
	"errors"
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/splitwork/pkg"
)

func TestLineReader_NextLine(t *testing.T) {
	r := newLineReader(source(3, "ab\n\ncd", 0))
	defer r.release()

	n, err := r.load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 6, n)

	want := []struct {
		hasNewline bool
		size       int
		line       string
	}{
		{true, 3, "ab\n"},
		{true, 1, "\n"},
		{false, 2, "cd"},
	}
	for _, w := range want {
		hasNewline, size := r.nextLine()
		assert.Equal(t, w.hasNewline, hasNewline)
		require.Equal(t, w.size, size)
		assert.Equal(t, w.line, string(r.pending()[:size]))
		r.advance(size)
	}
	assert.True(t, r.atEnd())

	n, err = r.load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLineReader_LoadFillsOneBlock(t *testing.T) {
	data := strings.Repeat("x", BlockSize+10)
	r := newLineReader(source(0, data, 0))
	defer r.release()

	n, err := r.load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BlockSize, n)

	hasNewline, size := r.nextLine()
	assert.False(t, hasNewline)
	assert.Equal(t, BlockSize, size)
	r.advance(size)

	n, err = r.load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Zero(t, r.off, "load resets the cursor")
}

func TestLineReader_RetriesInterrupted(t *testing.T) {
	src := &scriptSource{steps: []step{
		{err: syscall.EINTR},
		{err: syscall.EINTR},
		{data: "a\n"},
	}}
	r := newLineReader(src)
	defer r.release()

	n, err := r.load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, src.calls)
}

func TestLineReader_CancelWhileInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &scriptSource{steps: []step{
		{err: syscall.EINTR},
		{err: syscall.EINTR},
		{err: syscall.EINTR},
		{data: "never\n"},
	}}
	src.hook = func(call int) {
		if call == 2 {
			cancel()
		}
	}
	r := newLineReader(src)
	defer r.release()

	_, err := r.load(ctx)
	assert.ErrorIs(t, err, pkg.ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, src.calls, "no read after the cancelled one")
}

func TestLineReader_Failure(t *testing.T) {
	boom := errors.New("boom")
	r := newLineReader(&scriptSource{steps: []step{{err: boom}}})
	defer r.release()

	_, err := r.load(context.Background())
	assert.ErrorIs(t, err, boom)
}

// dataErrSource returns data and an error from the same call.
type dataErrSource struct {
	calls int
	err   error
}

func (s *dataErrSource) Read(p []byte) (int, error) {
	s.calls++
	if s.calls == 1 {
		return copy(p, "tail"), s.err
	}
	return 0, errors.New("read after error")
}

func (s *dataErrSource) Descriptor() int { return 4 }

func TestLineReader_DataWithError(t *testing.T) {
	t.Run("eof", func(t *testing.T) {
		src := &dataErrSource{err: io.EOF}
		r := newLineReader(src)
		defer r.release()

		n, err := r.load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		r.advance(n)
		_, err = r.load(context.Background())
		assert.EqualError(t, err, "read after error")
	})

	t.Run("failure held back", func(t *testing.T) {
		boom := errors.New("boom")
		src := &dataErrSource{err: boom}
		r := newLineReader(src)
		defer r.release()

		n, err := r.load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tail", string(r.pending()))

		r.advance(n)
		_, err = r.load(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, src.calls)
	})
}

func TestLineReader_Close(t *testing.T) {
	r := newLineReader(source(0, "abc", 0))
	defer r.release()

	_, err := r.load(context.Background())
	require.NoError(t, err)
	r.close()
	assert.True(t, r.closed)
	assert.True(t, r.atEnd())
}
