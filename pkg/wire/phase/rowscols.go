package phase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hejun5448/r2dbc-mysql/pkg/models/mysql"
	"github.com/hejun5448/r2dbc-mysql/pkg/wire/buffer"
	"github.com/hejun5448/r2dbc-mysql/pkg/wire/utils"
)

//ref: https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_com_query_response_text_resultset.html

func DecodeColumnCount(_ context.Context, _ *zap.Logger, view buffer.View) (*mysql.ColumnCount, error) {
	if view.Len() == 0 {
		return nil, errors.New("invalid column count")
	}

	columnCount, err := utils.ReadVarInt(view)
	if err != nil {
		return nil, errors.New("invalid column count")
	}

	return &mysql.ColumnCount{ColumnNum: columnCount}, nil
}

//ref: https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_com_query_response_text_resultset_column_definition.html

func DecodeColumn(_ context.Context, _ *zap.Logger, view buffer.View) (*mysql.ColumnDefinition41, error) {
	packet := &mysql.ColumnDefinition41{}

	var err error
	if packet.Catalog, err = readLenencString(view); err != nil {
		return nil, fmt.Errorf("failed to read Catalog: %w", err)
	}
	if packet.Schema, err = readLenencString(view); err != nil {
		return nil, fmt.Errorf("failed to read Schema: %w", err)
	}
	if packet.Table, err = readLenencString(view); err != nil {
		return nil, fmt.Errorf("failed to read Table: %w", err)
	}
	if packet.OrgTable, err = readLenencString(view); err != nil {
		return nil, fmt.Errorf("failed to read OrgTable: %w", err)
	}
	if packet.Name, err = readLenencString(view); err != nil {
		return nil, fmt.Errorf("failed to read Name: %w", err)
	}
	if packet.OrgName, err = readLenencString(view); err != nil {
		return nil, fmt.Errorf("failed to read OrgName: %w", err)
	}

	// length of fixed-length fields, always 0x0c
	if packet.FixedLength, err = view.ReadByte(); err != nil {
		return nil, fmt.Errorf("invalid column definition packet")
	}

	if packet.CharacterSet, err = readUint16(view); err != nil {
		return nil, fmt.Errorf("invalid column definition packet")
	}
	if packet.ColumnLength, err = readUint32(view); err != nil {
		return nil, fmt.Errorf("invalid column definition packet")
	}
	if packet.Type, err = view.ReadByte(); err != nil {
		return nil, fmt.Errorf("invalid column definition packet")
	}
	if packet.Flags, err = readUint16(view); err != nil {
		return nil, fmt.Errorf("invalid column definition packet")
	}
	if packet.Decimals, err = view.ReadByte(); err != nil {
		return nil, fmt.Errorf("invalid column definition packet")
	}

	// filler [0x00][0x00]
	if err = view.Skip(2); err != nil {
		return nil, fmt.Errorf("invalid column definition packet")
	}

	// if more data, command was COM_FIELD_LIST and a default value follows
	if view.Len() > 0 {
		if packet.DefaultValue, err = readLenencString(view); err != nil {
			return nil, fmt.Errorf("malformed packet: %w", err)
		}
	}

	return packet, nil
}

// readLenencString reads one length-encoded string, copying it out of the
// view. NULL decodes as the empty string.
func readLenencString(view buffer.View) (string, error) {
	first, err := view.PeekByte()
	if err != nil {
		return "", err
	}
	if first == mysql.NullValue {
		_, _ = view.ReadByte()
		return "", nil
	}
	length, err := utils.ReadVarInt(view)
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	if int(length) > view.Len() {
		return "", errors.New("length-encoded string exceeds payload")
	}
	p, err := view.Next(int(length))
	if err != nil {
		return "", err
	}
	return string(p), nil
}
