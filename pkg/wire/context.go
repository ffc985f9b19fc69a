package wire

import (
	"github.com/hejun5448/r2dbc-mysql/pkg/models/mysql"
)

// ConnContext carries the per-connection state the decoder consults and
// updates: the negotiated capability flags and the server status reported
// by the latest OK/EOF message.
type ConnContext struct {
	Capabilities uint32

	serverStatus uint16
}

// SetServerStatus records the status flags of the latest OK or EOF message.
func (c *ConnContext) SetServerStatus(flags uint16) {
	c.serverStatus = flags
}

// ServerStatus returns the most recently recorded server status flags.
func (c *ConnContext) ServerStatus() uint16 {
	return c.serverStatus
}

// DeprecateEOF reports whether both sides negotiated CLIENT_DEPRECATE_EOF,
// in which case metadata blocks end on column count instead of an EOF.
func (c *ConnContext) DeprecateEOF() bool {
	return c.Capabilities&mysql.CLIENT_DEPRECATE_EOF != 0
}

// DecodeContext selects the protocol phase for one Decode call. The set of
// phases is closed: Login, Command, PrepareQuery, PreparedMetadata, Result
// and Fetch. The caller owns the context and supplies it per call; the
// metadata-carrying contexts additionally accumulate column definitions
// across calls.
type DecodeContext interface {
	phase() string
}

// LoginContext is the connection/authentication phase.
type LoginContext struct{}

func (*LoginContext) phase() string { return "connection" }

// CommandContext is the phase after a command was sent, before any
// resultset metadata has been seen.
type CommandContext struct{}

func (*CommandContext) phase() string { return "command" }

// PrepareQueryContext is the phase after COM_STMT_PREPARE was sent.
type PrepareQueryContext struct{}

func (*PrepareQueryContext) phase() string { return "prepare query" }

// FetchContext is the row-fetch phase of a cursored statement.
type FetchContext struct{}

func (*FetchContext) phase() string { return "fetch" }

// metadataContext is implemented by the two phases that read a
// column-definition block before row data.
type metadataContext interface {
	DecodeContext
	InMetadata() bool
	putPart(msg interface{}) *mysql.SyntheticMetadata
}

// ResultContext is the resultset phase of a query. It starts in metadata
// mode, collecting one ColumnDefinition41 per column, and switches to row
// reading once the block completes.
type ResultContext struct {
	total        int
	deprecateEOF bool
	columns      []*mysql.ColumnDefinition41
	inMetadata   bool
}

// NewResultContext creates a result phase expecting columnCount column
// definitions. When deprecateEOF is false the block is terminated by an
// EOF packet instead of the count.
func NewResultContext(columnCount int, deprecateEOF bool) *ResultContext {
	return &ResultContext{
		total:        columnCount,
		deprecateEOF: deprecateEOF,
		inMetadata:   columnCount > 0,
	}
}

func (*ResultContext) phase() string { return "result" }

// InMetadata reports whether column definitions are still expected.
func (c *ResultContext) InMetadata() bool { return c.inMetadata }

func (c *ResultContext) putPart(msg interface{}) *mysql.SyntheticMetadata {
	switch m := msg.(type) {
	case *mysql.EOFPacket:
		c.inMetadata = false
		return &mysql.SyntheticMetadata{Columns: c.columns, EOF: m}
	case *mysql.ColumnDefinition41:
		c.columns = append(c.columns, m)
		if c.deprecateEOF && len(c.columns) >= c.total {
			c.inMetadata = false
			return &mysql.SyntheticMetadata{Columns: c.columns}
		}
	}
	return nil
}

// PreparedMetadataContext is the metadata phase following a successful
// COM_STMT_PREPARE: first the parameter definitions, then the column
// definitions, each block terminated by an EOF unless deprecated.
type PreparedMetadataContext struct {
	numParams    int
	numColumns   int
	deprecateEOF bool

	params           []*mysql.ColumnDefinition41
	columns          []*mysql.ColumnDefinition41
	paramsTerminated bool
	done             bool
}

// NewPreparedMetadataContext creates a prepared-statement metadata phase
// expecting numParams parameter definitions followed by numColumns column
// definitions, per the prepare-OK packet.
func NewPreparedMetadataContext(numParams, numColumns int, deprecateEOF bool) *PreparedMetadataContext {
	return &PreparedMetadataContext{
		numParams:    numParams,
		numColumns:   numColumns,
		deprecateEOF: deprecateEOF,
		done:         numParams == 0 && numColumns == 0,
	}
}

func (*PreparedMetadataContext) phase() string { return "prepared metadata" }

// InMetadata reports whether definitions are still expected.
func (c *PreparedMetadataContext) InMetadata() bool { return !c.done }

func (c *PreparedMetadataContext) complete() bool {
	return len(c.params) >= c.numParams && len(c.columns) >= c.numColumns
}

func (c *PreparedMetadataContext) emit(eof *mysql.EOFPacket) *mysql.SyntheticMetadata {
	c.done = true
	return &mysql.SyntheticMetadata{Params: c.params, Columns: c.columns, EOF: eof}
}

func (c *PreparedMetadataContext) putPart(msg interface{}) *mysql.SyntheticMetadata {
	if c.done {
		return nil
	}
	switch m := msg.(type) {
	case *mysql.ColumnDefinition41:
		if len(c.params) < c.numParams {
			c.params = append(c.params, m)
		} else {
			c.columns = append(c.columns, m)
		}
		if c.deprecateEOF && c.complete() {
			return c.emit(nil)
		}
	case *mysql.EOFPacket:
		// An EOF between the parameter and column blocks is a separator,
		// not the end of metadata.
		if !c.paramsTerminated && c.numParams > 0 && c.numColumns > 0 && len(c.columns) == 0 {
			c.paramsTerminated = true
			return nil
		}
		return c.emit(m)
	}
	return nil
}
