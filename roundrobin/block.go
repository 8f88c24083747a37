package roundrobin

import "sync"

// BlockSize is the capacity of every reader and writer buffer.
const BlockSize = 4096

// MaxGroupSize is the largest number of endpoints one call accepts. It
// caps the block memory of a single call at 256 MiB.
const MaxGroupSize = 1 << 16

// block is the fixed-capacity buffer owned by one endpoint.
type block [BlockSize]byte

// blockPool recycles blocks across calls.
var blockPool = sync.Pool{New: func() any { return new(block) }}

// allocBlock returns a block from the pool. Its contents are undefined.
func allocBlock() *block {
	return blockPool.Get().(*block)
}

// freeBlock returns b to the pool.
func freeBlock(b *block) {
	if b != nil {
		blockPool.Put(b)
	}
}
