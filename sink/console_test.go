package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleSinkOptions(t *testing.T) {
	s := NewConsoleSink(
		WithColorOutput(false),
		WithMaxColumnWidth(20),
		WithBinaryFormat("base64"),
	)
	assert.False(t, s.colorEnabled)
	assert.Equal(t, 20, s.maxColumnWidth)
	assert.Equal(t, "base64", s.binaryFormat)
	assert.Equal(t, "console", s.Type())
}

func TestConsoleSinkInit(t *testing.T) {
	s := NewConsoleSink()
	require.NoError(t, s.Init(context.Background(), map[string]any{
		"color":         false,
		"binary_format": "escaped",
	}))
	assert.False(t, s.colorEnabled)
	assert.Equal(t, "escaped", s.binaryFormat)
}

func TestFormatByteArray(t *testing.T) {
	s := NewConsoleSink()

	assert.Equal(t, "[]", s.formatByteArray(nil))
	assert.Equal(t, "0x010203", s.formatByteArray([]byte{1, 2, 3}))

	s.binaryFormat = "base64"
	assert.Equal(t, "base64:AQID", s.formatByteArray([]byte{1, 2, 3}))

	s.binaryFormat = "escaped"
	assert.Equal(t, `"hello"`, s.formatByteArray([]byte("hello")))
	// non-textual data falls back to hex even in escaped mode
	assert.Equal(t, "0x00ff", s.formatByteArray([]byte{0x00, 0xff}))
}

func TestTruncateString(t *testing.T) {
	s := NewConsoleSink(WithMaxColumnWidth(8))
	assert.Equal(t, "short", s.truncateString("short"))
	assert.Equal(t, "01234...", s.truncateString("0123456789"))
}

func TestStdoutSinkInit(t *testing.T) {
	s := NewStdoutSink()
	assert.True(t, s.prettyPrint)
	require.NoError(t, s.Init(context.Background(), map[string]any{"pretty_print": false}))
	assert.False(t, s.prettyPrint)
	assert.Equal(t, "stdout", s.Type())
}
