// Package mysql holds the typed server-response messages of the MySQL
// client/server protocol and the constants needed to classify them.
package mysql

// MySql Packet
//refer: https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_basic_packets.html

type Header struct {
	PayloadLength uint32 `json:"payload_length" yaml:"payload_length"`
	SequenceID    uint8  `json:"sequence_id" yaml:"sequence_id"`
}

type PacketInfo struct {
	Header *Header `json:"header" yaml:"header"`
	Type   string  `json:"packet_type" yaml:"packet_type"`
}

// PacketBundle pairs a decoded message with its classification and the
// header of the packet that completed it.
type PacketBundle struct {
	Header  *PacketInfo `json:"header" yaml:"header"`
	Message interface{} `json:"message" yaml:"message"`
}
