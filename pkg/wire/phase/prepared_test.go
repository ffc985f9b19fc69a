package phase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hejun5448/r2dbc-mysql/pkg/wire/buffer"
)

func stmtPrepareOkPayload() []byte {
	return []byte{
		0x00,                   // status
		0x01, 0x00, 0x00, 0x00, // statement id
		0x02, 0x00, // num columns
		0x01, 0x00, // num params
		0x00,       // filler
		0x00, 0x00, // warning count
	}
}

func TestLooksLikeStmtPrepareOk(t *testing.T) {
	v := buffer.From(stmtPrepareOkPayload())
	defer v.Release()
	require.True(t, LooksLikeStmtPrepareOk(v))
	require.Equal(t, 12, v.Len(), "the check must not consume")

	// A generic OK of a different size is not a prepare response.
	ok := buffer.From([]byte{0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00})
	defer ok.Release()
	require.False(t, LooksLikeStmtPrepareOk(ok))

	// Right size but the filler byte is not zero.
	bad := stmtPrepareOkPayload()
	bad[9] = 0x01
	badView := buffer.From(bad)
	defer badView.Release()
	require.False(t, LooksLikeStmtPrepareOk(badView))
}

func TestDecodeStmtPrepareOk(t *testing.T) {
	v := buffer.From(stmtPrepareOkPayload())
	defer v.Release()

	packet, err := DecodeStmtPrepareOk(context.Background(), v)
	require.NoError(t, err)
	require.Equal(t, byte(0x00), packet.Status)
	require.Equal(t, uint32(1), packet.StatementID)
	require.Equal(t, uint16(2), packet.NumColumns)
	require.Equal(t, uint16(1), packet.NumParams)
	require.Equal(t, uint16(0), packet.WarningCount)
}

func TestDecodeStmtPrepareOkTooShort(t *testing.T) {
	v := buffer.From([]byte{0x00, 0x01})
	defer v.Release()

	_, err := DecodeStmtPrepareOk(context.Background(), v)
	require.Error(t, err)
}
