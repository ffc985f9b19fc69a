package phase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hejun5448/r2dbc-mysql/pkg/wire/buffer"
)

func sampleHandshakeV10() []byte {
	payload := []byte{0x0a}
	payload = append(payload, []byte("8.0.33")...)
	payload = append(payload, 0x00)
	payload = append(payload, 0x01, 0x00, 0x00, 0x00)                         // connection id
	payload = append(payload, 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h')         // auth data part 1
	payload = append(payload, 0x00)                                           // filler
	payload = append(payload, 0x00, 0x80)                                     // capability flags lower
	payload = append(payload, 0xff)                                           // character set
	payload = append(payload, 0x02, 0x00)                                     // status flags
	payload = append(payload, 0x08, 0x00)                                     // capability flags upper (CLIENT_PLUGIN_AUTH)
	payload = append(payload, 0x15)                                           // auth plugin data len
	payload = append(payload, make([]byte, 10)...)                            // reserved
	payload = append(payload, 'i', 'j', 'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 0x00)
	payload = append(payload, []byte("mysql_native_password")...)
	payload = append(payload, 0x00)
	return payload
}

func TestDecodeHandshakeV10(t *testing.T) {
	v := buffer.From(sampleHandshakeV10())
	defer v.Release()

	packet, err := DecodeHandshakeV10(context.Background(), v)
	require.NoError(t, err)
	require.Equal(t, byte(0x0a), packet.ProtocolVersion)
	require.Equal(t, "8.0.33", packet.ServerVersion)
	require.Equal(t, uint32(1), packet.ConnectionID)
	require.Equal(t, []byte("abcdefghijklmnopqrst"), packet.AuthPluginData)
	require.Equal(t, uint32(0x00088000), packet.CapabilityFlags)
	require.Equal(t, uint16(0x0002), packet.StatusFlags)
	require.Equal(t, "mysql_native_password", packet.AuthPluginName)
}

func TestDecodeHandshakeV10ShortForm(t *testing.T) {
	// Protocol version, server version, connection id, auth data part 1,
	// filler and the lower capability flags only.
	payload := []byte{0x0a}
	payload = append(payload, []byte("5.1.0")...)
	payload = append(payload, 0x00)
	payload = append(payload, 0x2a, 0x00, 0x00, 0x00)
	payload = append(payload, '1', '2', '3', '4', '5', '6', '7', '8')
	payload = append(payload, 0x00)
	payload = append(payload, 0x00, 0x80)

	v := buffer.From(payload)
	defer v.Release()

	packet, err := DecodeHandshakeV10(context.Background(), v)
	require.NoError(t, err)
	require.Equal(t, "5.1.0", packet.ServerVersion)
	require.Equal(t, uint32(42), packet.ConnectionID)
	require.Equal(t, uint32(0x8000), packet.CapabilityFlags)
	require.Empty(t, packet.AuthPluginName)
}

func TestDecodeHandshakeV10MissingTerminator(t *testing.T) {
	v := buffer.From([]byte{0x0a, '8', '.', '0'})
	defer v.Release()

	_, err := DecodeHandshakeV10(context.Background(), v)
	require.Error(t, err)
}

func TestDecodeAuthSwitchRequest(t *testing.T) {
	payload := []byte{0xfe}
	payload = append(payload, []byte("caching_sha2_password")...)
	payload = append(payload, 0x00)
	payload = append(payload, 0x01, 0x02, 0x03)

	v := buffer.From(payload)
	defer v.Release()

	packet, err := DecodeAuthSwitchRequest(context.Background(), v)
	require.NoError(t, err)
	require.Equal(t, byte(0xfe), packet.StatusTag)
	require.Equal(t, "caching_sha2_password", packet.PluginName)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, packet.PluginData)
}

func TestDecodeAuthMoreData(t *testing.T) {
	v := buffer.From([]byte{0x01, 0x04})
	defer v.Release()

	packet, err := DecodeAuthMoreData(context.Background(), v)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), packet.StatusTag)
	require.Equal(t, []byte{0x04}, packet.Data)
}
