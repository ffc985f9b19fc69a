package wire

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hejun5448/r2dbc-mysql/pkg/wire/buffer"
)

func TestFieldReaderReadsAllForms(t *testing.T) {
	payload := []byte{0x03, 'a', 'b', 'c'}
	payload = append(payload, 0xfb)
	payload = append(payload, 0x00)
	payload = append(payload, 0xfc, 0x02, 0x00, 'h', 'i')

	r := NewFieldReader([]*buffer.Buffer{buffer.From(payload)})
	defer r.Close()

	field, err := r.ReadField()
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), field.Value)

	field, err = r.ReadField()
	require.NoError(t, err)
	require.True(t, field.Null)
	require.Nil(t, field.Value)

	field, err = r.ReadField()
	require.NoError(t, err)
	require.False(t, field.Null)
	require.Empty(t, field.Value)

	field, err = r.ReadField()
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), field.Value)

	_, err = r.ReadField()
	require.ErrorIs(t, err, io.EOF)
}

func TestFieldReaderCrossesFrameBoundaries(t *testing.T) {
	parts := []*buffer.Buffer{
		buffer.From([]byte{0xfd, 0x0a, 0x00, 0x00, 'a', 'b', 'c'}),
		buffer.From([]byte("defg")),
		buffer.From([]byte("hij")),
	}
	r := NewFieldReader(parts)

	field, err := r.ReadField()
	require.NoError(t, err)
	require.Equal(t, []byte("abcdefghij"), field.Value)

	// Every fully-consumed frame is released as the reader drains it.
	for _, p := range parts {
		require.True(t, p.Released())
	}

	value := field.Value
	r.Close()
	require.Equal(t, []byte("abcdefghij"), value, "values must stay valid after Close")
}

func TestFieldReaderReleasesEagerly(t *testing.T) {
	parts := []*buffer.Buffer{
		buffer.From([]byte{0x01, 'x'}),
		buffer.From([]byte{0x01, 'y'}),
	}
	r := NewFieldReader(parts)

	_, err := r.ReadField()
	require.NoError(t, err)
	require.True(t, parts[0].Released())
	require.False(t, parts[1].Released())

	r.Close()
	require.True(t, parts[1].Released())
	r.Close()
}

func TestFieldReaderInvalidPrefix(t *testing.T) {
	r := NewFieldReader([]*buffer.Buffer{buffer.From([]byte{0xff, 0x01})})
	defer r.Close()

	_, err := r.ReadField()
	require.Error(t, err)
}

func TestFieldReaderTruncatedValue(t *testing.T) {
	r := NewFieldReader([]*buffer.Buffer{buffer.From([]byte{0x05, 'a', 'b'})})
	defer r.Close()

	_, err := r.ReadField()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestFieldReaderLen(t *testing.T) {
	parts := []*buffer.Buffer{
		buffer.From([]byte{0x01, 'x'}),
		buffer.From([]byte{0x01, 'y'}),
	}
	r := NewFieldReader(parts)
	defer r.Close()

	require.Equal(t, 4, r.Len())
	_, err := r.ReadField()
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())
}
