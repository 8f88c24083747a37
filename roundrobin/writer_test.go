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

func TestLineWriter_Coalesces(t *testing.T) {
	sink := &recordSink{id: 1}
	w := newLineWriter(sink)
	defer w.release()
	ctx := context.Background()

	for _, line := range []string{"a\n", "bb\n", "ccc\n"} {
		n, err := w.write(ctx, []byte(line))
		require.NoError(t, err)
		assert.Equal(t, len(line), n)
	}
	assert.Zero(t, sink.calls, "nothing is written before the block fills")
	assert.Equal(t, 9, w.end)

	n, err := w.flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, "a\nbb\nccc\n", sink.String())
	assert.Equal(t, 1, sink.calls)
	assert.Zero(t, w.end)
}

func TestLineWriter_Overflow(t *testing.T) {
	sink := &recordSink{id: 1}
	w := newLineWriter(sink)
	defer w.release()
	ctx := context.Background()

	head := strings.Repeat("h", BlockSize-3)
	n, err := w.write(ctx, []byte(head))
	require.NoError(t, err)
	require.Equal(t, len(head), n)

	// Only 3 bytes fit; the full block is flushed and 3 is returned.
	n, err = w.write(ctx, []byte("tail\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, head+"tai", sink.String())
	assert.Zero(t, w.end)

	n, err = w.write(ctx, []byte("l\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = w.flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, head+"tail\n", sink.String())
}

func TestLineWriter_FullBlockFlushesFirst(t *testing.T) {
	sink := &recordSink{id: 1}
	w := newLineWriter(sink)
	defer w.release()
	ctx := context.Background()

	full := strings.Repeat("f", BlockSize)
	n, err := w.write(ctx, []byte(full))
	require.NoError(t, err)
	require.Equal(t, BlockSize, n)
	assert.Zero(t, w.available())
	assert.Zero(t, sink.calls)

	n, err = w.write(ctx, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a full block never turns into a zero-byte accept")
	assert.Equal(t, full, sink.String())
}

func TestLineWriter_ShortWrites(t *testing.T) {
	sink := &recordSink{id: 1, max: 5}
	w := newLineWriter(sink)
	defer w.release()
	ctx := context.Background()

	_, err := w.write(ctx, []byte("0123456789abcdef\n"))
	require.NoError(t, err)
	n, err := w.flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 17, n)
	assert.Equal(t, "0123456789abcdef\n", sink.String())
	assert.Equal(t, 4, sink.calls)
}

func TestLineWriter_RetriesInterrupted(t *testing.T) {
	sink := &recordSink{id: 1, errs: []error{syscall.EINTR, nil, syscall.EINTR}, max: 2}
	w := newLineWriter(sink)
	defer w.release()
	ctx := context.Background()

	_, err := w.write(ctx, []byte("abc\n"))
	require.NoError(t, err)
	n, err := w.flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "abc\n", sink.String())
}

func TestLineWriter_ZeroWrite(t *testing.T) {
	w := newLineWriter(zeroSink{})
	defer w.release()

	_, err := w.write(context.Background(), []byte("abc"))
	require.NoError(t, err)
	_, err = w.flush(context.Background())
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

// zeroSink accepts nothing and reports no error.
type zeroSink struct{}

func (zeroSink) Write([]byte) (int, error) { return 0, nil }

func (zeroSink) Descriptor() int { return 2 }

func TestLineWriter_FailureCompacts(t *testing.T) {
	boom := errors.New("boom")
	sink := &recordSink{id: 1, max: 4, fail: boom, limit: 4}
	w := newLineWriter(sink)
	defer w.release()

	_, err := w.write(context.Background(), []byte("abcdefgh"))
	require.NoError(t, err)

	n, err := w.flush(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcd", sink.String())
	assert.Equal(t, 4, w.end)
	assert.Equal(t, "efgh", string(w.buf[:w.end]), "unwritten tail moves to the block start")
}

func TestLineWriter_OverflowFailure(t *testing.T) {
	boom := errors.New("boom")
	sink := &recordSink{id: 1, fail: boom}
	w := newLineWriter(sink)
	defer w.release()

	_, err := w.write(context.Background(), []byte(strings.Repeat("z", BlockSize-1)))
	require.NoError(t, err)

	n, err := w.write(context.Background(), []byte("zz"))
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
}

func TestLineWriter_CancelWhileInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := &recordSink{id: 1, errs: []error{syscall.EINTR, syscall.EINTR, syscall.EINTR}}
	sink.hook = func(call int) {
		if call == 2 {
			cancel()
		}
	}
	w := newLineWriter(sink)
	defer w.release()

	_, err := w.write(ctx, []byte("abc"))
	require.NoError(t, err)
	_, err = w.flush(ctx)
	assert.ErrorIs(t, err, pkg.ErrCancelled)
	assert.Equal(t, 2, sink.calls)
	assert.Equal(t, 3, w.end, "cancelled flush keeps the unwritten bytes")
}

func TestLineWriter_Spilled(t *testing.T) {
	sink := &recordSink{id: 1}
	w := newLineWriter(sink)
	defer w.release()
	ctx := context.Background()

	_, err := w.write(ctx, []byte(strings.Repeat("s", BlockSize)))
	require.NoError(t, err)
	assert.False(t, w.spilled, "an exact fit does not flush")

	_, err = w.write(ctx, []byte("x\n"))
	require.NoError(t, err)
	assert.True(t, w.spilled)

	w.spilled = false
	_, err = w.flush(ctx)
	require.NoError(t, err)
	assert.False(t, w.spilled, "explicit flushes are not spills")
}
