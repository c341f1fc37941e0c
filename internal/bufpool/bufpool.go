// Package bufpool provides sync.Pool-backed byte buffers for the
// bidirectional proxy's copy loops, sized from the process-wide copy_chunk
// tunable so that steady-state proxying does not allocate per read.
package bufpool

import "sync"

var (
	// TPool serves buffers for tunnel-side copies (EU dialer <-> pool conn).
	TPool *pool
	// UPool serves buffers for user-side copies (IR listener <-> user conn).
	UPool *pool
)

type pool struct {
	sync.Pool
	defaultSize int
}

func newPool(size int) *pool {
	p := &pool{defaultSize: size}
	p.Pool.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return p
}

// Get returns a buffer of the pool's default size.
func (p *pool) Get() *[]byte { return p.GetN(p.defaultSize) }

// GetN returns a buffer of length n. If n fits within the pool's default
// size, the buffer is drawn from the pool; otherwise a fresh slice is
// allocated and must not be returned to the pool.
func (p *pool) GetN(n int) *[]byte {
	if n <= p.defaultSize {
		bufp := p.Pool.Get().(*[]byte)
		*bufp = (*bufp)[:n]
		return bufp
	}
	b := make([]byte, n)
	return &b
}

// Put returns a buffer to the pool. Buffers whose capacity does not match
// the pool's default size (i.e. oversized allocations from GetN) are
// dropped instead of pooled.
func (p *pool) Put(bufp *[]byte) {
	if cap(*bufp) != p.defaultSize {
		return
	}
	*bufp = (*bufp)[:p.defaultSize]
	p.Pool.Put(bufp)
}

// Initialize sizes the tunnel-side and user-side buffer pools from
// copy_chunk. Both sides currently share the same chunk size tunable, but
// are kept as separate pools so each can evolve its own sizing policy.
func Initialize(copyChunk int) {
	TPool = newPool(copyChunk)
	UPool = newPool(copyChunk)
}
