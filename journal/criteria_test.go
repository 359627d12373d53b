package journal_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web3tea/journal-sentinel/journal"
)

func TestParseFileFilter(t *testing.T) {
	f, err := journal.ParseFileFilter("APPLIB/ORDERS")
	require.NoError(t, err)
	assert.Equal(t, journal.FileFilter{Library: "APPLIB", Name: "ORDERS"}, f)
	assert.Equal(t, "APPLIB/ORDERS", f.String())

	f, err = journal.ParseFileFilter("APPLIB/ORDERS(HISTORY)")
	require.NoError(t, err)
	assert.Equal(t, journal.FileFilter{Library: "APPLIB", Name: "ORDERS", Member: "HISTORY"}, f)
	assert.Equal(t, "APPLIB/ORDERS(HISTORY)", f.String())

	for _, bad := range []string{"", "ORDERS", "/ORDERS", "APPLIB/", "APPLIB/ORDERS(", "APPLIB/ORDERS()", "APPLIB/(HISTORY)"} {
		_, err := journal.ParseFileFilter(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestCriteriaBuilder(t *testing.T) {
	b := journal.NewCriteriaBuilder("JRN", "JRNLIB")

	c := b.
		WithStartingSequence(10).
		WithEndingSequence(99).
		WithReceivers("RCV0001", "JRNLIB", "RCV0002", "JRNLIB").
		Build()

	assert.Equal(t, "JRN", c.JournalName)
	assert.Equal(t, "JRNLIB", c.JournalLibrary)
	assert.Equal(t, journal.EntryTypeAll, c.EntryTypes)
	assert.Equal(t, uint64(10), c.FromSequence)
	assert.Equal(t, uint64(99), c.ToSequence)
	assert.Equal(t, "RCV0001", c.StartReceiver)
	assert.Equal(t, "RCV0002", c.EndReceiver)
	assert.False(t, c.OpenEnded)

	// Reset clears the bounds but keeps the journal identity
	c2 := b.Reset().Build()
	assert.Equal(t, "JRN", c2.JournalName)
	assert.Zero(t, c2.FromSequence)
	assert.Empty(t, c2.StartReceiver)
	assert.Equal(t, journal.EntryTypeAll, c2.EntryTypes)

	// Build returns a copy, later builder use must not alias it
	b.WithStartingSequence(55)
	assert.Zero(t, c2.FromSequence)
}

func TestCriteriaBuilderFromPositionToEnd(t *testing.T) {
	pos := journal.Position{Sequence: 42, Receiver: "RCV0001", ReceiverLibrary: "JRNLIB"}
	c := journal.NewCriteriaBuilder("JRN", "JRNLIB").FromPositionToEnd(pos).Build()

	assert.True(t, c.OpenEnded)
	assert.Equal(t, uint64(42), c.FromSequence)
	assert.Equal(t, "RCV0001", c.StartReceiver)
	assert.Equal(t, "JRNLIB", c.StartReceiverLibrary)
}

func TestCriteriaEncode(t *testing.T) {
	c := journal.NewCriteriaBuilder("JRN", "JRNLIB").
		WithStartingSequence(10).
		WithEndingSequence(99).
		WithReceivers("RCV0001", "JRNLIB", "RCV0002", "JRNLIB").
		WithFileFilters([]journal.FileFilter{{Name: "ORDERS", Library: "APPLIB", Member: "HISTORY"}}).
		Build()

	buf := c.Encode()

	// three names, open-ended flag, two sequences, four receiver names,
	// filter count, one filter of three names
	require.Len(t, buf, 30+1+16+40+2+30)

	assert.Equal(t, "JRN       ", string(buf[0:10]))
	assert.Equal(t, "JRNLIB    ", string(buf[10:20]))
	assert.Equal(t, "*ALL      ", string(buf[20:30]))
	assert.Equal(t, byte(0), buf[30])
	assert.Equal(t, uint64(10), binary.BigEndian.Uint64(buf[31:39]))
	assert.Equal(t, uint64(99), binary.BigEndian.Uint64(buf[39:47]))
	assert.Equal(t, "RCV0001   ", string(buf[47:57]))
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(buf[87:89]))
	assert.Equal(t, "ORDERS    ", string(buf[89:99]))
	assert.Equal(t, "APPLIB    ", string(buf[99:109]))
	assert.Equal(t, "HISTORY   ", string(buf[109:119]))
}

func TestCriteriaEncodeOpenEnded(t *testing.T) {
	pos := journal.Position{Sequence: 7}
	buf := journal.NewCriteriaBuilder("JRN", "JRNLIB").FromPositionToEnd(pos).Build().Encode()

	require.Len(t, buf, 30+1+16+40+2)
	assert.Equal(t, byte(1), buf[30])
	assert.Equal(t, uint64(7), binary.BigEndian.Uint64(buf[31:39]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(buf[87:89]))
}
