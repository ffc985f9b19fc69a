// Package phase contains the decoding functions for the structured server
// messages of the MySQL protocol: the generic OK, ERR and EOF responses,
// the connection-phase packets, and the resultset metadata packets.
//
// Decoders read sequentially from a buffer.View and never retain slices of
// it: every decoded field is copied out, so the view's backing frames can
// be released as soon as the decoder returns.
package phase

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/hejun5448/r2dbc-mysql/pkg/models/mysql"
	"github.com/hejun5448/r2dbc-mysql/pkg/wire/buffer"
	"github.com/hejun5448/r2dbc-mysql/pkg/wire/utils"
)

const (
	// minOKSize is header + two 1-byte lenenc integers + status + warnings.
	minOKSize = 7
	// eofSize is header + warnings + status flags under CLIENT_PROTOCOL_41.
	eofSize = 5
)

// IsValidOKSize reports whether a payload of n bytes can be an OK packet.
func IsValidOKSize(n int) bool {
	return n >= minOKSize
}

// IsValidEOFSize reports whether a payload of n bytes can be an EOF packet.
func IsValidEOFSize(n int) bool {
	return n == eofSize
}

//ref: https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_basic_ok_packet.html

func DecodeOK(_ context.Context, view buffer.View, capabilities uint32) (*mysql.OKPacket, error) {
	if view.Len() < minOKSize {
		return nil, fmt.Errorf("OK packet too short")
	}

	header, err := view.ReadByte()
	if err != nil {
		return nil, err
	}
	packet := &mysql.OKPacket{Header: header}

	packet.AffectedRows, err = utils.ReadVarInt(view)
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	packet.LastInsertID, err = utils.ReadVarInt(view)
	if err != nil {
		return nil, fmt.Errorf("failed to read last insert id: %w", err)
	}

	if capabilities&mysql.CLIENT_PROTOCOL_41 > 0 {
		packet.StatusFlags, err = readUint16(view)
		if err != nil {
			return nil, err
		}
		packet.Warnings, err = readUint16(view)
		if err != nil {
			return nil, err
		}
	} else if capabilities&mysql.CLIENT_TRANSACTIONS > 0 {
		packet.StatusFlags, err = readUint16(view)
		if err != nil {
			return nil, err
		}
	}

	if view.Len() > 0 {
		info, err := view.Next(view.Len())
		if err != nil {
			return nil, err
		}
		packet.Info = string(info)
	}

	return packet, nil
}

//ref: https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_basic_eof_packet.html

func DecodeEOF(_ context.Context, view buffer.View, capabilities uint32) (*mysql.EOFPacket, error) {
	if view.Len() > eofSize {
		return nil, fmt.Errorf("EOF packet too long for EOF")
	}

	header, err := view.ReadByte()
	if err != nil {
		return nil, err
	}
	packet := &mysql.EOFPacket{Header: header}

	if capabilities&mysql.CLIENT_PROTOCOL_41 > 0 && view.Len() >= 4 {
		packet.Warnings, err = readUint16(view)
		if err != nil {
			return nil, err
		}
		packet.StatusFlags, err = readUint16(view)
		if err != nil {
			return nil, err
		}
	}

	return packet, nil
}

//ref: https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_basic_err_packet.html

func DecodeERR(_ context.Context, view buffer.View, capabilities uint32) (*mysql.ERRPacket, error) {
	if view.Len() < 9 {
		return nil, fmt.Errorf("ERR packet too short")
	}

	header, err := view.ReadByte()
	if err != nil {
		return nil, err
	}
	packet := &mysql.ERRPacket{Header: header}

	packet.ErrorCode, err = readUint16(view)
	if err != nil {
		return nil, err
	}

	if capabilities&mysql.CLIENT_PROTOCOL_41 > 0 {
		marker, err := view.ReadByte()
		if err != nil {
			return nil, err
		}
		if marker != '#' {
			return nil, fmt.Errorf("invalid SQL state marker: %c", marker)
		}
		packet.SQLStateMarker = string(marker)

		state, err := view.Next(5)
		if err != nil {
			return nil, err
		}
		packet.SQLState = string(state)
	}

	msg, err := view.Next(view.Len())
	if err != nil {
		return nil, err
	}
	packet.ErrorMessage = string(msg)
	return packet, nil
}

func readUint16(view buffer.View) (uint16, error) {
	p, err := view.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(p), nil
}

func readUint32(view buffer.View) (uint32, error) {
	p, err := view.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}
