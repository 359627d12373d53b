package journal_test

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web3tea/journal-sentinel/journal"
)

// serveFrames runs a one-connection fake retrieval service: each frame is a
// big-endian length prefix, an opcode byte and a body, answered by handler.
func serveFrames(t *testing.T, handler func(op byte, body []byte) []byte) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var lenBuf [4]byte
			if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
				return
			}
			frame := make([]byte, binary.BigEndian.Uint32(lenBuf[:]))
			if _, err := io.ReadFull(conn, frame); err != nil {
				return
			}
			resp := handler(frame[0], frame[1:])
			out := pgio.AppendInt32(nil, int32(len(resp)))
			out = append(out, resp...)
			if _, err := conn.Write(out); err != nil {
				return
			}
		}
	}()
	return ln.Addr().String()
}

func dialTest(t *testing.T, addr string) *journal.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := journal.Dial(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClientCallSuccess(t *testing.T) {
	var gotBody []byte
	addr := serveFrames(t, func(op byte, body []byte) []byte {
		require.Equal(t, byte('R'), op)
		gotBody = append([]byte(nil), body...)
		return append([]byte{1}, "block-bytes"...)
	})

	client := dialTest(t, addr)
	criteria := journal.NewCriteriaBuilder("JRN", "JRNLIB").
		FromPositionToEnd(journal.Position{Sequence: 10}).
		Build()

	res, err := client.Call(context.Background(), criteria)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []byte("block-bytes"), res.Data)
	assert.Empty(t, res.Diagnostics)

	// the encoded criteria traveled as the frame body
	assert.Equal(t, criteria.Encode(), gotBody)
}

func TestClientCallDiagnostics(t *testing.T) {
	appendString := func(buf []byte, s string) []byte {
		buf = pgio.AppendUint32(buf, uint32(len(s)))
		return append(buf, s...)
	}
	addr := serveFrames(t, func(op byte, body []byte) []byte {
		resp := []byte{0}
		resp = pgio.AppendUint16(resp, 2)
		resp = append(resp, "CPF7053"...)
		resp = appendString(resp, "sequence not found")
		resp = appendString(resp, "check the receiver chain")
		resp = append(resp, "       "...) // blank id
		resp = appendString(resp, "garbled")
		resp = appendString(resp, "")
		return resp
	})

	client := dialTest(t, addr)
	res, err := client.Call(context.Background(), journal.NewCriteriaBuilder("JRN", "JRNLIB").Build())
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, journal.Diagnostic{
		ID:   "CPF7053",
		Text: "sequence not found",
		Help: "check the receiver chain",
	}, res.Diagnostics[0])
	assert.Empty(t, res.Diagnostics[1].ID)
	assert.Equal(t, "garbled", res.Diagnostics[1].Text)
}

func TestClientCurrentPosition(t *testing.T) {
	addr := serveFrames(t, func(op byte, body []byte) []byte {
		require.Equal(t, byte('P'), op)
		resp := pgio.AppendUint64(nil, 4711)
		resp = appendName(resp, "RCV0009")
		resp = appendName(resp, "JRNLIB")
		return resp
	})

	client := dialTest(t, addr)
	pos, err := client.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, journal.Position{Sequence: 4711, Receiver: "RCV0009", ReceiverLibrary: "JRNLIB"}, pos)
}

func TestClientReceiverChain(t *testing.T) {
	addr := serveFrames(t, func(op byte, body []byte) []byte {
		require.Equal(t, byte('C'), op)
		resp := pgio.AppendUint16(nil, 2)
		resp = appendName(resp, "RCV0001")
		resp = appendName(resp, "JRNLIB")
		resp = pgio.AppendUint64(resp, 1)
		resp = pgio.AppendUint64(resp, 50)
		resp = appendName(resp, "RCV0002")
		resp = appendName(resp, "JRNLIB")
		resp = pgio.AppendUint64(resp, 51)
		resp = pgio.AppendUint64(resp, 200)
		return resp
	})

	client := dialTest(t, addr)
	chain, err := client.ReceiverChain(context.Background())
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, journal.ReceiverInfo{Name: "RCV0001", Library: "JRNLIB", FirstSequence: 1, LastSequence: 50}, chain[0])
	assert.Equal(t, journal.ReceiverInfo{Name: "RCV0002", Library: "JRNLIB", FirstSequence: 51, LastSequence: 200}, chain[1])
}

func TestClientTruncatedResponse(t *testing.T) {
	addr := serveFrames(t, func(op byte, body []byte) []byte {
		return []byte{} // empty payload
	})

	client := dialTest(t, addr)
	_, err := client.Call(context.Background(), journal.NewCriteriaBuilder("JRN", "JRNLIB").Build())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short retrieve response")
}

func TestClientDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := journal.Dial(ctx, "127.0.0.1:1")
	require.Error(t, err)
}
