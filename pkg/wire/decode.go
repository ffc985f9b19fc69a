// Package wire implements the server-response decoder of the MySQL
// client/server protocol: frame reassembly across multi-packet messages,
// phase-aware dispatch of the overloaded header bytes, and the buffer
// ownership discipline that releases every frame exactly once.
package wire

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hejun5448/r2dbc-mysql/pkg/models/mysql"
	"github.com/hejun5448/r2dbc-mysql/pkg/wire/buffer"
	"github.com/hejun5448/r2dbc-mysql/pkg/wire/phase"
	"github.com/hejun5448/r2dbc-mysql/pkg/wire/utils"
)

// Decoder turns a stream of physical frames into typed server messages.
// It buffers the payloads of an in-progress logical message across calls
// and owns every buffer handed to it until that buffer is released, either
// here or by the consumer a decoded message was handed to.
//
// A Decoder is not safe for concurrent use; one frame is decoded at a time
// on the connection's read loop.
type Decoder struct {
	logger *zap.Logger
	parts  []*buffer.Buffer
}

func NewDecoder(logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{logger: logger}
}

// Decode feeds one physical frame into the decoder. It returns (nil, nil)
// while the logical message is still incomplete; the transport should read
// the next frame and call Decode again. Ownership of frame transfers to the
// decoder except when the frame header itself is unreadable, in which case
// the frame is released before the error returns.
func (d *Decoder) Decode(ctx context.Context, frame *buffer.Buffer, conn *ConnContext, dctx DecodeContext) (*mysql.PacketBundle, error) {
	if frame == nil || conn == nil || dctx == nil {
		return nil, fmt.Errorf("frame, conn and decode context must not be nil")
	}

	seqID, complete, err := d.readNotFinish(frame)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, nil
	}

	parts := d.parts
	d.parts = nil

	return d.decodeMessage(ctx, parts, seqID, conn, dctx)
}

// Dispose releases every buffered frame of an in-progress logical message
// and clears the pending list. It is idempotent and must be called on
// connection teardown so an abandoned multi-frame message cannot leak.
func (d *Decoder) Dispose() {
	buffer.ReleaseAll(d.parts)
	d.parts = nil
}

// readNotFinish strips the packet header and buffers the payload. It
// returns the sequence id and true when this frame ends the logical
// message; for a continuation frame (payload length == MaxPayloadLength)
// the sequence id is discarded and complete is false.
func (d *Decoder) readNotFinish(frame *buffer.Buffer) (seqID byte, complete bool, err error) {
	if frame.Len() < 4 {
		frame.Release()
		return 0, false, ErrMalformedFrame
	}

	hdr, err := frame.Next(3)
	if err != nil {
		frame.Release()
		return 0, false, err
	}
	size := utils.ReadUint24(hdr)

	seqID, err = frame.ReadByte()
	if err != nil {
		frame.Release()
		return 0, false, err
	}

	d.parts = append(d.parts, frame)

	if size < mysql.MaxPayloadLength {
		return seqID, true, nil
	}
	return 0, false, nil
}

func (d *Decoder) decodeMessage(ctx context.Context, parts []*buffer.Buffer, seqID byte, conn *ConnContext, dctx DecodeContext) (*mysql.PacketBundle, error) {
	// The row-bearing phases skip joining: row payloads can be large and
	// are read lazily from the raw frame list instead.
	switch c := dctx.(type) {
	case *ResultContext:
		return d.decodeResult(ctx, parts, seqID, conn, c)
	case *FetchContext:
		return d.decodeFetch(ctx, parts, seqID, conn)
	}

	view := buffer.Join(parts)
	defer view.Release()

	switch c := dctx.(type) {
	case *CommandContext:
		return d.decodeCommand(ctx, view, seqID, conn)
	case *PreparedMetadataContext:
		return d.decodePreparedMetadata(ctx, view, seqID, conn, c)
	case *PrepareQueryContext:
		return d.decodePrepareQuery(ctx, view, seqID, conn)
	case *LoginContext:
		return d.decodeLogin(ctx, view, seqID, conn)
	}

	return nil, fmt.Errorf("unknown decode context type: %T", dctx)
}

func (d *Decoder) decodeCommand(ctx context.Context, view buffer.View, seqID byte, conn *ConnContext) (*mysql.PacketBundle, error) {
	size := view.Len()
	header, err := view.PeekByte()
	if err != nil {
		return nil, &ProtocolError{Phase: "command", ReadableBytes: size}
	}

	switch header {
	case mysql.ERR:
		return d.decodeErrBundle(ctx, view, seqID, size, conn)
	case mysql.OK:
		if phase.IsValidOKSize(size) {
			return d.decodeOkBundle(ctx, view, seqID, size, conn)
		}
	case mysql.EOF:
		// Maybe OK, maybe a column count. The server has a hard limit of
		// 4096 columns per table, so a column count whose var-int is long
		// enough to collide with an OK payload would have to exceed
		// 16777215 columns. It must be an OK message.
		if phase.IsValidOKSize(size) {
			return d.decodeOkBundle(ctx, view, seqID, size, conn)
		}
		if phase.IsValidEOFSize(size) {
			return d.decodeEofBundle(ctx, view, seqID, size, conn)
		}
	}

	// An EOF message is always 5 bytes, so a payload holding exactly one
	// var integer can only be a column count.
	if utils.RemainingAfterVarInt(view) == 0 {
		count, err := phase.DecodeColumnCount(ctx, d.logger, view)
		if err != nil {
			return nil, err
		}
		return newBundle(mysql.ColumnCountType, count, seqID, size), nil
	}

	return nil, &ProtocolError{Header: header, Phase: "command", ReadableBytes: size}
}

func (d *Decoder) decodeLogin(ctx context.Context, view buffer.View, seqID byte, conn *ConnContext) (*mysql.PacketBundle, error) {
	size := view.Len()
	header, err := view.PeekByte()
	if err != nil {
		return nil, &AccessDeniedError{ReadableBytes: size}
	}

	switch header {
	case mysql.OK:
		if phase.IsValidOKSize(size) {
			return d.decodeOkBundle(ctx, view, seqID, size, conn)
		}
	case mysql.AuthMoreData:
		pkt, err := phase.DecodeAuthMoreData(ctx, view)
		if err != nil {
			return nil, err
		}
		return newBundle(mysql.AuthStatusToString(mysql.AuthMoreData), pkt, seqID, size), nil
	case mysql.HandshakeV9, mysql.HandshakeV10:
		// Protocol version 9 is unsupported but shares version 10's shape.
		pkt, err := phase.DecodeHandshakeV10(ctx, view)
		if err != nil {
			return nil, err
		}
		return newBundle(mysql.HandshakeRequest, pkt, seqID, size), nil
	case mysql.ERR:
		return d.decodeErrBundle(ctx, view, seqID, size, conn)
	case mysql.EOF:
		// Either a real EOF or an auth switch request.
		if phase.IsValidEOFSize(size) {
			return d.decodeEofBundle(ctx, view, seqID, size, conn)
		}
		pkt, err := phase.DecodeAuthSwitchRequest(ctx, view)
		if err != nil {
			return nil, err
		}
		return newBundle(mysql.AuthStatusToString(mysql.AuthSwitchRequest), pkt, seqID, size), nil
	}

	return nil, &AccessDeniedError{Header: header, ReadableBytes: size}
}

func (d *Decoder) decodePrepareQuery(ctx context.Context, view buffer.View, seqID byte, conn *ConnContext) (*mysql.PacketBundle, error) {
	size := view.Len()
	header, err := view.PeekByte()
	if err != nil {
		return nil, &ProtocolError{Phase: "prepare query", ReadableBytes: size}
	}

	switch header {
	case mysql.ERR:
		return d.decodeErrBundle(ctx, view, seqID, size, conn)
	case mysql.OK:
		// A generic OK also starts with 0x00; only the exact prepare-OK
		// shape is accepted here.
		if phase.LooksLikeStmtPrepareOk(view) {
			pkt, err := phase.DecodeStmtPrepareOk(ctx, view)
			if err != nil {
				return nil, err
			}
			return newBundle(mysql.StmtPrepareOK, pkt, seqID, size), nil
		}
	}

	return nil, &ProtocolError{Header: header, Phase: "prepare query", ReadableBytes: size}
}

func (d *Decoder) decodePreparedMetadata(ctx context.Context, view buffer.View, seqID byte, conn *ConnContext, c *PreparedMetadataContext) (*mysql.PacketBundle, error) {
	size := view.Len()
	header, err := view.PeekByte()
	if err != nil {
		return nil, &ProtocolError{Phase: "prepared metadata", ReadableBytes: size}
	}

	if header == mysql.ERR {
		// 0xff is not a var-int header and cannot start a column
		// definition, so this is always an error message.
		return d.decodeErrBundle(ctx, view, seqID, size, conn)
	}

	if c.InMetadata() {
		return d.decodeInMetadata(ctx, view, header, seqID, conn, c)
	}

	return nil, &ProtocolError{Header: header, Phase: "prepared metadata", ReadableBytes: size}
}

func (d *Decoder) decodeResult(ctx context.Context, parts []*buffer.Buffer, seqID byte, conn *ConnContext, c *ResultContext) (*mysql.PacketBundle, error) {
	firstBuf := parts[0]
	header, err := firstBuf.PeekByte()
	if err != nil {
		return nil, d.drainUnknown(parts, 0, "result")
	}

	if header == mysql.ERR {
		view := buffer.Join(parts)
		defer view.Release()
		return d.decodeErrBundle(ctx, view, seqID, view.Len(), conn)
	}

	if c.InMetadata() {
		view := buffer.Join(parts)
		defer view.Release()
		// Only column definitions or a terminating EOF can appear while
		// metadata is being read.
		return d.decodeInMetadata(ctx, view, header, seqID, conn, c)
	}

	return d.decodeRow(ctx, parts, firstBuf, header, seqID, conn, "result")
}

func (d *Decoder) decodeFetch(ctx context.Context, parts []*buffer.Buffer, seqID byte, conn *ConnContext) (*mysql.PacketBundle, error) {
	firstBuf := parts[0]
	header, err := firstBuf.PeekByte()
	if err != nil {
		return nil, d.drainUnknown(parts, 0, "fetch")
	}

	if header == mysql.ERR {
		view := buffer.Join(parts)
		defer view.Release()
		return d.decodeErrBundle(ctx, view, seqID, view.Len(), conn)
	}

	return d.decodeRow(ctx, parts, firstBuf, header, seqID, conn, "fetch")
}

// isRow applies the row-reading disambiguation heuristics for a message
// whose header survived the error check.
func isRow(parts []*buffer.Buffer, firstBuf *buffer.Buffer, header byte) bool {
	switch header {
	case mysql.NullValue:
		// 0xfb is not a var-int header and not an OK/EOF marker; it can
		// only be a NULL column value.
		return true
	case mysql.EOF:
		// 0xfe is either an EOF/OK or the 8-byte var-int length prefix of
		// a large value. A genuine EOF/OK always fits in a single frame.
		if len(parts) > 1 {
			return true
		}
		size := firstBuf.Len()
		return !phase.IsValidEOFSize(size) && !phase.IsValidOKSize(size)
	default:
		// Even 0x00 is a row here: in resultsets the server terminates
		// with 0xfe-headed OK messages, never 0x00-headed ones.
		return true
	}
}

func (d *Decoder) decodeRow(ctx context.Context, parts []*buffer.Buffer, firstBuf *buffer.Buffer, header byte, seqID byte, conn *ConnContext, phaseName string) (*mysql.PacketBundle, error) {
	if isRow(parts, firstBuf, header) {
		total := 0
		for _, p := range parts {
			total += p.Len()
		}
		d.logger.Debug("decoded row message",
			zap.Int("readable_bytes", total),
			zap.Int("frames", len(parts)),
			zap.String("phase", phaseName))
		// The field reader owns the frames now and releases them as the
		// caller consumes the row.
		return newBundle(mysql.RowType, &Row{Fields: NewFieldReader(parts)}, seqID, total), nil
	}

	if header == mysql.EOF {
		size := firstBuf.Len()
		if phase.IsValidOKSize(size) {
			view := buffer.Join(parts)
			defer view.Release()
			return d.decodeOkBundle(ctx, view, seqID, size, conn)
		}
		if phase.IsValidEOFSize(size) {
			view := buffer.Join(parts)
			defer view.Release()
			return d.decodeEofBundle(ctx, view, seqID, size, conn)
		}
	}

	return nil, d.drainUnknown(parts, header, phaseName)
}

// drainUnknown releases every buffered frame of an unclassifiable message
// and builds the protocol error from the byte count seen while draining.
func (d *Decoder) drainUnknown(parts []*buffer.Buffer, header byte, phaseName string) error {
	total := 0
	for _, p := range parts {
		total += p.Len()
		p.Release()
	}
	return &ProtocolError{Header: header, Phase: phaseName, ReadableBytes: total}
}

func (d *Decoder) decodeInMetadata(ctx context.Context, view buffer.View, header byte, seqID byte, conn *ConnContext, c metadataContext) (*mysql.PacketBundle, error) {
	size := view.Len()

	var msg interface{}
	if header == mysql.EOF && phase.IsValidEOFSize(size) {
		pkt, err := phase.DecodeEOF(ctx, view, conn.Capabilities)
		if err != nil {
			return nil, err
		}
		conn.SetServerStatus(pkt.StatusFlags)
		msg = pkt
	} else {
		pkt, err := phase.DecodeColumn(ctx, d.logger, view)
		if err != nil {
			return nil, err
		}
		msg = pkt
	}

	meta := c.putPart(msg)
	if meta == nil {
		// Block not complete yet; more definitions expected.
		return nil, nil
	}
	return newBundle(mysql.SyntheticMetadataT, meta, seqID, size), nil
}

func (d *Decoder) decodeOkBundle(ctx context.Context, view buffer.View, seqID byte, size int, conn *ConnContext) (*mysql.PacketBundle, error) {
	pkt, err := phase.DecodeOK(ctx, view, conn.Capabilities)
	if err != nil {
		return nil, err
	}
	conn.SetServerStatus(pkt.StatusFlags)
	return newBundle(mysql.StatusToString(mysql.OK), pkt, seqID, size), nil
}

func (d *Decoder) decodeEofBundle(ctx context.Context, view buffer.View, seqID byte, size int, conn *ConnContext) (*mysql.PacketBundle, error) {
	pkt, err := phase.DecodeEOF(ctx, view, conn.Capabilities)
	if err != nil {
		return nil, err
	}
	return newBundle(mysql.StatusToString(mysql.EOF), pkt, seqID, size), nil
}

func (d *Decoder) decodeErrBundle(ctx context.Context, view buffer.View, seqID byte, size int, conn *ConnContext) (*mysql.PacketBundle, error) {
	pkt, err := phase.DecodeERR(ctx, view, conn.Capabilities)
	if err != nil {
		return nil, err
	}
	return newBundle(mysql.StatusToString(mysql.ERR), pkt, seqID, size), nil
}

func newBundle(pktType string, msg interface{}, seqID byte, readable int) *mysql.PacketBundle {
	return &mysql.PacketBundle{
		Header: &mysql.PacketInfo{
			Header: &mysql.Header{
				PayloadLength: uint32(readable),
				SequenceID:    seqID,
			},
			Type: pktType,
		},
		Message: msg,
	}
}
