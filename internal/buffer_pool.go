package internal

import (
	"bytes"
	"sync"
)

// BufferPool recycles byte buffers used to hold one inbound read chunk,
// avoiding an allocation per socket read on a busy session.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool returns a BufferPool whose buffers start with the given
// capacity.
func NewBufferPool(initialSize int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, initialSize))
			},
		},
	}
}

// Get returns a reset, ready-to-use buffer.
func (p *BufferPool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

// Put returns buf to the pool after resetting it.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	buf.Reset()
	p.pool.Put(buf)
}
