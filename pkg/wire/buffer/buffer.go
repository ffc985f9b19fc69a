// Package buffer provides single-owner pooled byte buffers for wire
// payloads, and a non-copying composite view over a list of them.
//
// Every Buffer handed to a consumer is owned by exactly one holder at a
// time and must be released exactly once; Release is safe to call twice but
// the bytes must never be read after the first call.
package buffer

import (
	"io"
	"sync"
)

var pool = sync.Pool{
	New: func() interface{} {
		return &Buffer{}
	},
}

// Buffer is a pooled byte buffer with a read position. The zero value is an
// empty, released buffer; use Get or From to obtain one.
type Buffer struct {
	data     []byte
	off      int
	released bool
}

// Get leases a buffer of n bytes from the pool. The content is
// uninitialized; fill it through Bytes before handing it off.
func Get(n int) *Buffer {
	b := pool.Get().(*Buffer)
	if cap(b.data) < n {
		b.data = make([]byte, n)
	} else {
		b.data = b.data[:n]
	}
	b.off = 0
	b.released = false
	return b
}

// From leases a buffer wrapping p. The caller gives up ownership of p until
// the buffer is released.
func From(p []byte) *Buffer {
	b := pool.Get().(*Buffer)
	b.data = p
	b.off = 0
	b.released = false
	return b
}

// Release returns the buffer to the pool. Calling it on an already released
// buffer is a no-op, so drain loops stay safe on every exit path.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.off = 0
	pool.Put(b)
}

// Released reports whether the buffer has been returned to the pool.
func (b *Buffer) Released() bool {
	return b.released
}

// Bytes returns the readable window. Valid only until Release.
func (b *Buffer) Bytes() []byte {
	return b.data[b.off:]
}

// Len returns the number of readable bytes.
func (b *Buffer) Len() int {
	return len(b.data) - b.off
}

// PeekByte returns the leading readable byte without consuming it.
func (b *Buffer) PeekByte() (byte, error) {
	if b.Len() == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	return b.data[b.off], nil
}

// Peek returns the next n readable bytes without consuming them.
func (b *Buffer) Peek(n int) ([]byte, error) {
	if b.Len() < n {
		return nil, io.ErrUnexpectedEOF
	}
	return b.data[b.off : b.off+n], nil
}

// ReadByte consumes and returns one byte.
func (b *Buffer) ReadByte() (byte, error) {
	if b.Len() == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	c := b.data[b.off]
	b.off++
	return c, nil
}

// Next consumes the next n bytes and returns them without copying. The
// returned slice aliases the buffer and is valid only until Release.
func (b *Buffer) Next(n int) ([]byte, error) {
	if b.Len() < n {
		return nil, io.ErrUnexpectedEOF
	}
	p := b.data[b.off : b.off+n]
	b.off += n
	return p, nil
}

// Skip consumes and discards the next n bytes.
func (b *Buffer) Skip(n int) error {
	if b.Len() < n {
		return io.ErrUnexpectedEOF
	}
	b.off += n
	return nil
}

// ReleaseAll releases every buffer in parts. Already released buffers are
// skipped, so the helper is safe on partially drained lists.
func ReleaseAll(parts []*Buffer) {
	for _, p := range parts {
		if p != nil {
			p.Release()
		}
	}
}
