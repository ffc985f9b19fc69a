package phase

import (
	"context"
	"fmt"
	"io"

	"github.com/hejun5448/r2dbc-mysql/pkg/models/mysql"
	"github.com/hejun5448/r2dbc-mysql/pkg/wire/buffer"
)

//ref: https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_connection_phase_packets_protocol_handshake_v10.html

func DecodeHandshakeV10(_ context.Context, view buffer.View) (*mysql.HandshakeV10Packet, error) {
	if view.Len() < 4 {
		return nil, fmt.Errorf("handshake packet too short")
	}

	packet := &mysql.HandshakeV10Packet{}

	var err error
	packet.ProtocolVersion, err = view.ReadByte()
	if err != nil {
		return nil, err
	}

	packet.ServerVersion, err = readNullTerminated(view)
	if err != nil {
		return nil, fmt.Errorf("malformed handshake packet: missing null terminator for ServerVersion")
	}

	packet.ConnectionID, err = readUint32(view)
	if err != nil {
		return nil, fmt.Errorf("handshake packet too short")
	}

	part1, err := view.Next(8)
	if err != nil {
		return nil, fmt.Errorf("handshake packet too short")
	}
	packet.AuthPluginData = append([]byte(nil), part1...)

	packet.Filler, err = view.ReadByte()
	if err != nil {
		return nil, err
	}

	capabilityFlagsLower, err := readUint16(view)
	if err != nil {
		return nil, fmt.Errorf("handshake packet too short")
	}
	packet.CapabilityFlags = uint32(capabilityFlagsLower)

	// Everything after the lower capability flags is optional.
	if view.Len() == 0 {
		return packet, nil
	}

	packet.CharacterSet, err = view.ReadByte()
	if err != nil {
		return nil, err
	}
	packet.StatusFlags, err = readUint16(view)
	if err != nil {
		return nil, err
	}
	capabilityFlagsUpper, err := readUint16(view)
	if err != nil {
		return nil, err
	}
	packet.CapabilityFlags |= uint32(capabilityFlagsUpper) << 16

	var authPluginDataLen int
	lenByte, err := view.ReadByte()
	if err != nil {
		return nil, err
	}
	if packet.CapabilityFlags&mysql.CLIENT_PLUGIN_AUTH != 0 {
		authPluginDataLen = int(lenByte)
	}

	if err := view.Skip(10); err != nil { // reserved
		return nil, fmt.Errorf("handshake packet too short")
	}

	if authPluginDataLen > 8 {
		lenToRead := authPluginDataLen - 8
		if lenToRead > view.Len() {
			lenToRead = view.Len()
		}
		part2, err := view.Next(lenToRead)
		if err != nil {
			return nil, err
		}
		// The second chunk carries a trailing NUL that is not auth data.
		if n := len(part2); n > 0 && part2[n-1] == 0x00 {
			part2 = part2[:n-1]
		}
		packet.AuthPluginData = append(packet.AuthPluginData, part2...)
	}

	if packet.CapabilityFlags&mysql.CLIENT_PLUGIN_AUTH != 0 {
		if view.Len() == 0 {
			return nil, fmt.Errorf("handshake packet too short for AuthPluginName")
		}
		packet.AuthPluginName, err = readNullTerminated(view)
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("malformed handshake packet: missing null terminator for AuthPluginName")
		}
		if err != nil {
			return nil, err
		}
	}

	return packet, nil
}

//ref: https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_connection_phase_packets_protocol_auth_switch_request.html

func DecodeAuthSwitchRequest(_ context.Context, view buffer.View) (*mysql.AuthSwitchRequestPacket, error) {
	tag, err := view.ReadByte()
	if err != nil {
		return nil, err
	}
	packet := &mysql.AuthSwitchRequestPacket{StatusTag: tag}

	packet.PluginName, err = readNullTerminated(view)
	if err != nil {
		return nil, fmt.Errorf("malformed auth switch request: missing null terminator for PluginName")
	}

	if view.Len() > 0 {
		data, err := view.Next(view.Len())
		if err != nil {
			return nil, err
		}
		packet.PluginData = append([]byte(nil), data...)
	}

	return packet, nil
}

//ref: https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_connection_phase_packets_protocol_auth_more_data.html

func DecodeAuthMoreData(_ context.Context, view buffer.View) (*mysql.AuthMoreDataPacket, error) {
	tag, err := view.ReadByte()
	if err != nil {
		return nil, err
	}
	packet := &mysql.AuthMoreDataPacket{StatusTag: tag}

	if view.Len() > 0 {
		data, err := view.Next(view.Len())
		if err != nil {
			return nil, err
		}
		packet.Data = append([]byte(nil), data...)
	}

	return packet, nil
}

// readNullTerminated consumes bytes up to and including the next NUL and
// returns them as a string without the terminator.
func readNullTerminated(view buffer.View) (string, error) {
	var out []byte
	for {
		c, err := view.ReadByte()
		if err != nil {
			return "", io.ErrUnexpectedEOF
		}
		if c == 0x00 {
			return string(out), nil
		}
		out = append(out, c)
	}
}
