package mysql

// Basic Response Packet Status
const (
	OK  byte = 0x00
	ERR byte = 0xff
	EOF byte = 0xfe
)

// NullValue is the text-protocol NULL column-value marker inside row data.
const NullValue byte = 0xfb

// Auth Packet Status
const (
	AuthSwitchRequest byte = 0xfe
	AuthMoreData      byte = 0x01
	HandshakeV9       byte = 0x09
	HandshakeV10      byte = 0x0a
)

// MaxPayloadLength is the largest payload a single packet can carry. A
// packet whose header reports exactly this length continues in the next
// packet; any smaller length ends the logical message.
const MaxPayloadLength = 1<<24 - 1

// MaxColumnsPerTable is the server's hard limit on columns per table. The
// command-phase disambiguation between OK and column-count packets relies
// on it: a column count large enough to collide with an OK payload would
// need more than 16777215 columns.
const MaxColumnsPerTable = 4096

// Client Capability Flags
const (
	// https://dev.mysql.com/doc/dev/mysql-server/latest/group__group__cs__capabilities__flags.html

	CLIENT_LONG_PASSWORD uint32 = 1 << iota
	CLIENT_FOUND_ROWS
	CLIENT_LONG_FLAG
	CLIENT_CONNECT_WITH_DB
	CLIENT_NO_SCHEMA
	CLIENT_COMPRESS
	CLIENT_ODBC
	CLIENT_LOCAL_FILES
	CLIENT_IGNORE_SPACE
	CLIENT_PROTOCOL_41
	CLIENT_INTERACTIVE
	CLIENT_SSL
	CLIENT_IGNORE_SIGPIPE
	CLIENT_TRANSACTIONS
	CLIENT_RESERVED
	CLIENT_SECURE_CONNECTION
	CLIENT_MULTI_STATEMENTS
	CLIENT_MULTI_RESULTS
	CLIENT_PS_MULTI_RESULTS
	CLIENT_PLUGIN_AUTH
	CLIENT_CONNECT_ATTRS
	CLIENT_PLUGIN_AUTH_LENENC_CLIENT_DATA
	CLIENT_CAN_HANDLE_EXPIRED_PASSWORDS
	CLIENT_SESSION_TRACK
	CLIENT_DEPRECATE_EOF
	CLIENT_OPTIONAL_RESULTSET_METADATA
	CLIENT_ZSTD_COMPRESSION_ALGORITHM
	CLIENT_QUERY_ATTRIBUTES
	MULTI_FACTOR_AUTHENTICATION
	CLIENT_CAPABILITY_EXTENSION
	CLIENT_SSL_VERIFY_SERVER_CERT
	CLIENT_REMEMBER_OPTIONS
)

// Packet type names used in PacketInfo.Type for messages that have no
// single status byte of their own.
const (
	StmtPrepareOK      = "STMT_PREPARE_OK"
	ColumnCountType    = "ColumnCount"
	ColumnDefinition   = "ColumnDefinition41"
	SyntheticMetadataT = "SyntheticMetadata"
	RowType            = "Row"
	HandshakeRequest   = "HandshakeV10"
)

// Define the maps for basic response packets
var statusToString = map[byte]string{
	OK:  "OK",
	ERR: "ERR",
	EOF: "EOF",
}

// Define the maps for auth packet status
var authStatusToString = map[byte]string{
	AuthSwitchRequest: "AuthSwitchRequest",
	AuthMoreData:      "AuthMoreData",
	HandshakeV10:      "HandshakeV10",
}

func StatusToString(status byte) string {
	if str, ok := statusToString[status]; ok {
		return str
	}
	return "UNKNOWN"
}

func AuthStatusToString(status byte) string {
	if str, ok := authStatusToString[status]; ok {
		return str
	}
	return "UNKNOWN"
}
