package mysql

// This file contains struct for connection phase packets
// refer: https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_connection_phase_packets.html

// HandshakeV10Packet represents the initial handshake packet sent by the server to the client.
// Protocol version 9 greetings are parsed with the same shape; version 9 itself is unsupported.
type HandshakeV10Packet struct {
	ProtocolVersion uint8  `yaml:"protocol_version" json:"protocol_version"`
	ServerVersion   string `yaml:"server_version" json:"server_version"`
	ConnectionID    uint32 `yaml:"connection_id" json:"connection_id"`
	AuthPluginData  []byte `yaml:"auth_plugin_data,omitempty,flow" json:"auth_plugin_data,omitempty"`
	Filler          byte   `yaml:"filler" json:"filler"`
	CapabilityFlags uint32 `yaml:"capability_flags" json:"capability_flags"`
	CharacterSet    uint8  `yaml:"character_set" json:"character_set"`
	StatusFlags     uint16 `yaml:"status_flags" json:"status_flags"`
	AuthPluginName  string `yaml:"auth_plugin_name" json:"auth_plugin_name"`
}

// AuthSwitchRequestPacket represents the packet sent by the server to the client to switch to a different authentication method
type AuthSwitchRequestPacket struct {
	StatusTag  byte   `yaml:"status_tag" json:"status_tag"`
	PluginName string `yaml:"plugin_name" json:"plugin_name"`
	PluginData []byte `yaml:"plugin_data,omitempty,flow" json:"plugin_data,omitempty"`
}

// AuthMoreDataPacket represents the packet sent by the server to the client to request additional data for authentication
type AuthMoreDataPacket struct {
	StatusTag byte   `yaml:"status_tag" json:"status_tag"`
	Data      []byte `yaml:"data,omitempty,flow" json:"data,omitempty"`
}
