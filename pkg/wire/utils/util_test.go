package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hejun5448/r2dbc-mysql/pkg/wire/buffer"
)

func TestReadUint24(t *testing.T) {
	require.Equal(t, uint32(0), ReadUint24([]byte{0x00, 0x00, 0x00}))
	require.Equal(t, uint32(1), ReadUint24([]byte{0x01, 0x00, 0x00}))
	require.Equal(t, uint32(0xffffff), ReadUint24([]byte{0xff, 0xff, 0xff}))
	require.Equal(t, uint32(0x030201), ReadUint24([]byte{0x01, 0x02, 0x03}))
}

func TestReadLengthEncodedInteger(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		num    uint64
		isNull bool
		n      int
	}{
		{"empty", nil, 0, true, 0},
		{"one byte", []byte{0x05}, 5, false, 1},
		{"max one byte", []byte{0xfa}, 250, false, 1},
		{"null marker", []byte{0xfb}, 0, true, 1},
		{"two bytes", []byte{0xfc, 0x10, 0x01}, 0x0110, false, 3},
		{"three bytes", []byte{0xfd, 0x01, 0x02, 0x03}, 0x030201, false, 4},
		{"eight bytes", []byte{0xfe, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, 1, false, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			num, isNull, n := ReadLengthEncodedInteger(tt.input)
			require.Equal(t, tt.num, num)
			require.Equal(t, tt.isNull, isNull)
			require.Equal(t, tt.n, n)
		})
	}
}

func TestReadLengthEncodedString(t *testing.T) {
	s, isNull, n, err := ReadLengthEncodedString([]byte{0x03, 'a', 'b', 'c', 'd'})
	require.NoError(t, err)
	require.False(t, isNull)
	require.Equal(t, 4, n)
	require.Equal(t, []byte("abc"), s)

	_, _, _, err = ReadLengthEncodedString([]byte{0x05, 'a'})
	require.Error(t, err)
}

func TestRemainingAfterVarInt(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  int
	}{
		{"single byte exhausts", []byte{0x05}, 0},
		{"single byte with tail", []byte{0x05, 0x01}, 1},
		{"two byte form", []byte{0xfc, 0x10, 0x00}, 0},
		{"two byte form with tail", []byte{0xfc, 0x10, 0x00, 0x01}, 1},
		{"three byte form", []byte{0xfd, 0x01, 0x02, 0x03}, 0},
		{"eight byte form", []byte{0xfe, 1, 2, 3, 4, 5, 6, 7, 8}, 0},
		// The width clamps to what is readable: a lone 0xfe still counts
		// as exactly one var int.
		{"truncated eight byte form", []byte{0xfe}, 0},
		{"error marker", []byte{0xff, 0x01}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := buffer.From(tt.input)
			defer v.Release()
			require.Equal(t, tt.want, RemainingAfterVarInt(v))
		})
	}

	empty := buffer.From(nil)
	defer empty.Release()
	require.Equal(t, -1, RemainingAfterVarInt(empty))
}

func TestReadVarInt(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  uint64
	}{
		{"single byte", []byte{0x2a}, 42},
		{"two byte form", []byte{0xfc, 0x00, 0x10}, 0x1000},
		{"three byte form", []byte{0xfd, 0x01, 0x02, 0x03}, 0x030201},
		{"truncated eight byte form", []byte{0xfe}, 0},
		{"null marker", []byte{0xfb}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := buffer.From(tt.input)
			defer v.Release()
			num, err := ReadVarInt(v)
			require.NoError(t, err)
			require.Equal(t, tt.want, num)
			require.Equal(t, 0, v.Len())
		})
	}
}
