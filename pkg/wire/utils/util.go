// Package utils provides the low-level integer and string encodings used by
// MySQL packets.
package utils

import (
	"io"

	"github.com/hejun5448/r2dbc-mysql/pkg/wire/buffer"
)

// ReadUint24 reads a 3-byte little-endian unsigned integer.
func ReadUint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// ReadLengthEncodedInteger reads a length-encoded integer from b.
// It returns the value, whether it is the NULL marker, and the encoded width.
// n is 0 when b is empty.
func ReadLengthEncodedInteger(b []byte) (num uint64, isNull bool, n int) {
	if len(b) == 0 {
		return 0, true, 0
	}

	switch b[0] {
	// 251: NULL
	case 0xfb:
		return 0, true, 1

	// 252: value of following 2
	case 0xfc:
		return uint64(b[1]) | uint64(b[2])<<8, false, 3

	// 253: value of following 3
	case 0xfd:
		return uint64(b[1]) | uint64(b[2])<<8 | uint64(b[3])<<16, false, 4

	// 254: value of following 8
	case 0xfe:
		return uint64(b[1]) | uint64(b[2])<<8 | uint64(b[3])<<16 |
				uint64(b[4])<<24 | uint64(b[5])<<32 | uint64(b[6])<<40 |
				uint64(b[7])<<48 | uint64(b[8])<<56,
			false, 9
	}

	// 0-250: value of first byte
	return uint64(b[0]), false, 1
}

// ReadLengthEncodedString reads a length-encoded string from b, returning
// the string bytes, whether it is NULL, and the total encoded width.
func ReadLengthEncodedString(b []byte) ([]byte, bool, int, error) {
	num, isNull, n := ReadLengthEncodedInteger(b)
	if num < 1 {
		return b[n:n], isNull, n, nil
	}

	n += int(num)

	if len(b) >= n {
		return b[n-int(num) : n : n], false, n, nil
	}
	return nil, false, n, io.EOF
}

// varIntWidth returns the total encoded width implied by the first byte of
// a length-encoded integer, or -1 when the byte can never start one (0xff).
func varIntWidth(first byte) int {
	switch first {
	case 0xfc:
		return 3
	case 0xfd:
		return 4
	case 0xfe:
		return 9
	case 0xff:
		return -1
	default:
		return 1
	}
}

// RemainingAfterVarInt reports how many readable bytes would remain after
// consuming one length-encoded integer from v, without consuming anything.
// A result of 0 means the integer exactly exhausts the view. The encoded
// width is clamped to the readable byte count, so a short payload whose
// prefix promises more bytes than are present still counts as exhausted;
// column counts never need the full 8-byte form (the server caps tables at
// MaxColumnsPerTable), so a truncated tail cannot be a valid message of any
// other kind. Returns -1 when v cannot start a length-encoded integer.
func RemainingAfterVarInt(v buffer.View) int {
	n := v.Len()
	if n == 0 {
		return -1
	}
	first, err := v.PeekByte()
	if err != nil {
		return -1
	}
	width := varIntWidth(first)
	if width < 0 {
		return -1
	}
	if width > n {
		width = n
	}
	return n - width
}

// ReadVarInt consumes one length-encoded integer from v. Like
// RemainingAfterVarInt it tolerates a truncated encoding, reading whatever
// trailing bytes are present little-endian.
func ReadVarInt(v buffer.View) (uint64, error) {
	first, err := v.ReadByte()
	if err != nil {
		return 0, err
	}
	width := varIntWidth(first)
	if width < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	if width == 1 {
		if first == 0xfb {
			// NULL marker; no integer value.
			return 0, nil
		}
		return uint64(first), nil
	}
	rest := width - 1
	if rest > v.Len() {
		rest = v.Len()
	}
	p, err := v.Next(rest)
	if err != nil {
		return 0, err
	}
	var num uint64
	for i, c := range p {
		num |= uint64(c) << (8 * i)
	}
	return num, nil
}
