package wire

import (
	"fmt"
	"io"

	"github.com/hejun5448/r2dbc-mysql/pkg/models/mysql"
	"github.com/hejun5448/r2dbc-mysql/pkg/wire/buffer"
)

// Row is a decoded row message. Its column values are not parsed eagerly;
// the caller pulls them one at a time through Fields, which reads directly
// from the raw frame buffers without joining them first.
type Row struct {
	Fields *FieldReader
}

// Field is one column value of a text-protocol row.
type Field struct {
	Null  bool
	Value []byte
}

// FieldReader reads length-encoded column values straight from the frame
// buffers of a row message. It owns the buffers from construction and
// releases each one as soon as its last byte has been consumed; Close
// releases whatever is left.
type FieldReader struct {
	parts []*buffer.Buffer
	idx   int
}

// NewFieldReader takes ownership of parts.
func NewFieldReader(parts []*buffer.Buffer) *FieldReader {
	return &FieldReader{parts: parts}
}

// Len returns the number of unread bytes across the remaining frames.
func (r *FieldReader) Len() int {
	n := 0
	for i := r.idx; i < len(r.parts); i++ {
		n += r.parts[i].Len()
	}
	return n
}

// ReadField reads the next column value. It returns io.EOF once the row is
// exhausted. The returned value is copied out of the frame buffers and
// stays valid after Close.
func (r *FieldReader) ReadField() (Field, error) {
	first, err := r.readByte()
	if err != nil {
		return Field{}, err
	}

	if first == mysql.NullValue {
		return Field{Null: true}, nil
	}

	var length uint64
	switch first {
	case 0xfc:
		length, err = r.readUintLE(2)
	case 0xfd:
		length, err = r.readUintLE(3)
	case 0xfe:
		// Inside row data 0xfe is the 8-byte length form, never an EOF;
		// the dispatcher has already ruled EOF out for this message.
		length, err = r.readUintLE(8)
	case 0xff:
		return Field{}, fmt.Errorf("invalid field length prefix 0xff")
	default:
		length = uint64(first)
	}
	if err != nil {
		return Field{}, err
	}

	value, err := r.next(int(length))
	if err != nil {
		return Field{}, err
	}
	return Field{Value: value}, nil
}

// Close releases the remaining frames. Safe to call more than once.
func (r *FieldReader) Close() {
	for ; r.idx < len(r.parts); r.idx++ {
		r.parts[r.idx].Release()
	}
}

func (r *FieldReader) readByte() (byte, error) {
	for r.idx < len(r.parts) {
		p := r.parts[r.idx]
		if p.Len() == 0 {
			p.Release()
			r.idx++
			continue
		}
		c, err := p.ReadByte()
		if err != nil {
			return 0, err
		}
		if p.Len() == 0 {
			p.Release()
			r.idx++
		}
		return c, nil
	}
	return 0, io.EOF
}

func (r *FieldReader) readUintLE(n int) (uint64, error) {
	var num uint64
	for i := 0; i < n; i++ {
		c, err := r.readByte()
		if err != nil {
			return 0, io.ErrUnexpectedEOF
		}
		num |= uint64(c) << (8 * i)
	}
	return num, nil
}

// next consumes n bytes across frame boundaries, copying them out so the
// frames can be released as they drain.
func (r *FieldReader) next(n int) ([]byte, error) {
	if r.Len() < n {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]byte, 0, n)
	for len(out) < n {
		p := r.parts[r.idx]
		if p.Len() == 0 {
			p.Release()
			r.idx++
			continue
		}
		take := p.Len()
		if take > n-len(out) {
			take = n - len(out)
		}
		chunk, err := p.Next(take)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		if p.Len() == 0 {
			p.Release()
			r.idx++
		}
	}
	return out, nil
}
