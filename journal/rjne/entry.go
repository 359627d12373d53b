package rjne

import (
	"encoding/binary"
	"fmt"
)

// EntryHeaderSize is the fixed number of bytes each entry header occupies
// before its entry-specific data.
const EntryHeaderSize = 40

// Journal codes classify what subsystem produced an entry.
const (
	CodeRecord  byte = 'R' // record-level operation
	CodeCommit  byte = 'C' // commitment control
	CodeFile    byte = 'D' // database file operation
	CodeMember  byte = 'F' // member-level operation
	CodeJournal byte = 'J' // journal management
	CodeUser    byte = 'U' // user-generated
)

// Entry types within journal code R and C, as the service reports them.
const (
	TypeInsert         = "PT"
	TypeInsertDirect   = "PX"
	TypeUpdateAfter    = "UP"
	TypeUpdateBefore   = "UB"
	TypeDelete         = "DL"
	TypeDeleteRestrict = "DR"
	TypeCreate         = "CT"
	TypeCreateDirect   = "CG"
	TypeStartCommit    = "SC"
	TypeCommit         = "CM"
)

// EntryHeader describes one change record inside a fetched buffer. Offsets
// are relative to the start of the entry header within the buffer; a zero
// NextEntryOffset marks the last entry.
type EntryHeader struct {
	NextEntryOffset         uint32
	Sequence                uint64
	JournalCode             byte
	EntryType               string
	EntrySpecificDataOffset uint32
	Receiver                string
	ReceiverLibrary         string
}

// HasReceiver reports whether the entry carries the identity of the storage
// segment that holds it.
func (h EntryHeader) HasReceiver() bool {
	return h.Receiver != ""
}

func (h EntryHeader) String() string {
	return fmt.Sprintf("sequence: %d code: %c type: %s receiver: %s.%s next: %d data offset: %d",
		h.Sequence, h.JournalCode, h.EntryType, h.Receiver, h.ReceiverLibrary,
		h.NextEntryOffset, h.EntrySpecificDataOffset)
}

// DecodeEntryHeader parses the entry header starting at offset within buf.
func DecodeEntryHeader(buf []byte, offset int) (EntryHeader, error) {
	if offset < 0 || offset > len(buf) {
		return EntryHeader{}, &DecodeError{Field: "entry header offset", Want: offset, Have: len(buf)}
	}
	b := buf[offset:]
	if len(b) < EntryHeaderSize {
		return EntryHeader{}, &DecodeError{Field: "entry header", Want: EntryHeaderSize, Have: len(b)}
	}

	return EntryHeader{
		NextEntryOffset:         binary.BigEndian.Uint32(b[0:4]),
		Sequence:                binary.BigEndian.Uint64(b[4:12]),
		JournalCode:             b[12],
		EntryType:               string(b[13:15]),
		EntrySpecificDataOffset: binary.BigEndian.Uint32(b[16:20]),
		Receiver:                decodeName(b[20:30]),
		ReceiverLibrary:         decodeName(b[30:40]),
	}, nil
}
