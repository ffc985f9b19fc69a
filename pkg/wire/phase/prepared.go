package phase

import (
	"context"
	"fmt"

	"github.com/hejun5448/r2dbc-mysql/pkg/models/mysql"
	"github.com/hejun5448/r2dbc-mysql/pkg/wire/buffer"
)

// stmtPrepareOkSize is the exact payload size of COM_STMT_PREPARE_OK:
// status, statement id u32, num columns u16, num params u16, filler,
// warning count u16.
const stmtPrepareOkSize = 12

// LooksLikeStmtPrepareOk reports whether the payload has the exact
// COM_STMT_PREPARE_OK shape. A generic OK also starts with 0x00, so the
// prepare-query phase needs this check before committing to a decoder.
func LooksLikeStmtPrepareOk(view buffer.View) bool {
	if view.Len() != stmtPrepareOkSize {
		return false
	}
	p, err := view.Peek(stmtPrepareOkSize)
	if err != nil {
		return false
	}
	return p[0] == 0x00 && p[9] == 0x00
}

//ref: https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_com_stmt_prepare.html

func DecodeStmtPrepareOk(_ context.Context, view buffer.View) (*mysql.StmtPrepareOkPacket, error) {
	if view.Len() < stmtPrepareOkSize {
		return nil, fmt.Errorf("COM_STMT_PREPARE_OK packet too short")
	}

	packet := &mysql.StmtPrepareOkPacket{}

	var err error
	if packet.Status, err = view.ReadByte(); err != nil {
		return nil, err
	}
	if packet.StatementID, err = readUint32(view); err != nil {
		return nil, err
	}
	if packet.NumColumns, err = readUint16(view); err != nil {
		return nil, err
	}
	if packet.NumParams, err = readUint16(view); err != nil {
		return nil, err
	}
	if packet.Filler, err = view.ReadByte(); err != nil {
		return nil, err
	}
	if packet.WarningCount, err = readUint16(view); err != nil {
		return nil, err
	}

	return packet, nil
}
