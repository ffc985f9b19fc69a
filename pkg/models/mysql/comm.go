package mysql

// This file contains structs for command phase response packets
/* refer:

(i) https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_command_phase_text.html
(ii) https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol_command_phase_ps.html

*/

// ColumnCount is the first packet of a text or binary resultset
type ColumnCount struct {
	ColumnNum uint64 `yaml:"columnNum" json:"columnNum"`
}

type ColumnDefinition41 struct {
	Catalog      string `yaml:"catalog" json:"catalog"`
	Schema       string `yaml:"schema" json:"schema"`
	Table        string `yaml:"table" json:"table"`
	OrgTable     string `yaml:"org_table" json:"org_table"`
	Name         string `yaml:"name" json:"name"`
	OrgName      string `yaml:"org_name" json:"org_name"`
	FixedLength  byte   `yaml:"fixed_length" json:"fixed_length"`
	CharacterSet uint16 `yaml:"character_set" json:"character_set"`
	ColumnLength uint32 `yaml:"column_length" json:"column_length"`
	Type         byte   `yaml:"type" json:"type"`
	Flags        uint16 `yaml:"flags" json:"flags"`
	Decimals     byte   `yaml:"decimals" json:"decimals"`
	DefaultValue string `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
}

// SyntheticMetadata wraps a completed column-definition block. It is not a
// wire packet itself: the decoder emits it once every definition of the
// current metadata block (and its terminating EOF, when the server does not
// deprecate EOF) has been read.
type SyntheticMetadata struct {
	Params  []*ColumnDefinition41 `yaml:"param_definitions,omitempty" json:"param_definitions,omitempty"`
	Columns []*ColumnDefinition41 `yaml:"column_definitions" json:"column_definitions"`
	EOF     *EOFPacket            `yaml:"eof,omitempty" json:"eof,omitempty"`
}

// StmtPrepareOkPacket represents the COM_STMT_PREPARE_OK packet, the first
// packet of a successful COM_STMT_PREPARE response. Param and column
// definitions follow in the prepared-metadata phase.
type StmtPrepareOkPacket struct {
	Status       byte   `yaml:"status" json:"status"`
	StatementID  uint32 `yaml:"statement_id" json:"statement_id"`
	NumColumns   uint16 `yaml:"num_columns" json:"num_columns"`
	NumParams    uint16 `yaml:"num_params" json:"num_params"`
	Filler       byte   `yaml:"filler" json:"filler"`
	WarningCount uint16 `yaml:"warning_count" json:"warning_count"`
}
