package journal

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/jackc/pgio"
)

// Frame opcodes of the journal-retrieval service protocol.
const (
	opRetrieve        = 'R'
	opCurrentPosition = 'P'
	opReceiverChain   = 'C'
)

const diagnosticIDSize = 7

// Client is a Transport and InfoRetriever over a TCP connection to the
// journal-retrieval service. Frames are length-prefixed, big-endian, with a
// one-byte opcode. The protocol is strictly request/response and the client
// allows one in-flight call at a time, matching the engine's single
// suspension point.
type Client struct {
	conn net.Conn
	mu   sync.Mutex
}

// Dial connects to the retrieval service at addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to journal service: %w", err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Call implements Transport.
func (c *Client) Call(ctx context.Context, criteria *Criteria) (*CallResult, error) {
	payload, err := c.roundTrip(ctx, opRetrieve, criteria.Encode())
	if err != nil {
		return nil, err
	}
	if len(payload) < 1 {
		return nil, fmt.Errorf("short retrieve response: %d bytes", len(payload))
	}

	res := &CallResult{Success: payload[0] == 1}
	body := payload[1:]
	if res.Success {
		res.Data = body
		return res, nil
	}

	if len(body) < 2 {
		return nil, fmt.Errorf("short diagnostics block: %d bytes", len(body))
	}
	count := int(binary.BigEndian.Uint16(body[:2]))
	body = body[2:]
	for i := 0; i < count; i++ {
		var d Diagnostic
		if len(body) < diagnosticIDSize {
			return nil, fmt.Errorf("truncated diagnostic %d", i)
		}
		d.ID = trimName(body[:diagnosticIDSize])
		body = body[diagnosticIDSize:]
		if d.Text, body, err = readString(body); err != nil {
			return nil, fmt.Errorf("truncated diagnostic %d text: %w", i, err)
		}
		if d.Help, body, err = readString(body); err != nil {
			return nil, fmt.Errorf("truncated diagnostic %d help: %w", i, err)
		}
		res.Diagnostics = append(res.Diagnostics, d)
	}
	return res, nil
}

// CurrentPosition implements InfoRetriever.
func (c *Client) CurrentPosition(ctx context.Context) (Position, error) {
	payload, err := c.roundTrip(ctx, opCurrentPosition, nil)
	if err != nil {
		return Position{}, err
	}
	if len(payload) < 28 {
		return Position{}, fmt.Errorf("short position response: %d bytes", len(payload))
	}
	return Position{
		Sequence:        binary.BigEndian.Uint64(payload[0:8]),
		Receiver:        trimName(payload[8:18]),
		ReceiverLibrary: trimName(payload[18:28]),
	}, nil
}

// ReceiverChain implements InfoRetriever.
func (c *Client) ReceiverChain(ctx context.Context) ([]ReceiverInfo, error) {
	payload, err := c.roundTrip(ctx, opReceiverChain, nil)
	if err != nil {
		return nil, err
	}
	if len(payload) < 2 {
		return nil, fmt.Errorf("short chain response: %d bytes", len(payload))
	}
	count := int(binary.BigEndian.Uint16(payload[:2]))
	payload = payload[2:]

	const recordSize = 36
	chain := make([]ReceiverInfo, 0, count)
	for i := 0; i < count; i++ {
		if len(payload) < recordSize {
			return nil, fmt.Errorf("truncated receiver record %d", i)
		}
		chain = append(chain, ReceiverInfo{
			Name:          trimName(payload[0:10]),
			Library:       trimName(payload[10:20]),
			FirstSequence: binary.BigEndian.Uint64(payload[20:28]),
			LastSequence:  binary.BigEndian.Uint64(payload[28:36]),
		})
		payload = payload[recordSize:]
	}
	return chain, nil
}

func (c *Client) roundTrip(ctx context.Context, op byte, body []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	frame := make([]byte, 0, 5+len(body))
	frame = pgio.AppendInt32(frame, int32(1+len(body)))
	frame = append(frame, op)
	frame = append(frame, body...)
	if _, err := c.conn.Write(frame); err != nil {
		return nil, fmt.Errorf("failed to send %c frame: %w", op, err)
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(c.conn, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read %c response: %w", op, err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(c.conn, payload); err != nil {
		return nil, fmt.Errorf("failed to read %c response body: %w", op, err)
	}
	return payload, nil
}

func readString(b []byte) (string, []byte, error) {
	if len(b) < 4 {
		return "", nil, io.ErrUnexpectedEOF
	}
	n := int(binary.BigEndian.Uint32(b[:4]))
	b = b[4:]
	if len(b) < n {
		return "", nil, io.ErrUnexpectedEOF
	}
	return string(b[:n]), b[n:], nil
}

func trimName(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == ' ' || b[end-1] == 0) {
		end--
	}
	return string(b[:end])
}

var (
	_ Transport     = (*Client)(nil)
	_ InfoRetriever = (*Client)(nil)
)
