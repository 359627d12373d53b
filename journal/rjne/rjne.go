// Package rjne decodes the fixed-layout buffers returned by the journal
// retrieval service. All multi-byte fields are big-endian. The decoders are
// pure: a buffer shorter than a declared field is rejected outright so that
// callers never compute offsets from a partially populated header.
package rjne

import "fmt"

// OffsetStatus is the continuation indicator carried in a block header.
type OffsetStatus byte

const (
	// NoMoreData means the buffer holds the last of the currently
	// available entries.
	NoMoreData OffsetStatus = '0'

	// MoreDataSameOffset means more entries remain server side and the
	// next fetch should reuse the current position.
	MoreDataSameOffset OffsetStatus = '1'

	// MoreDataNewOffset means the buffer was truncated and the header
	// carries a continuation position for the next fetch.
	MoreDataNewOffset OffsetStatus = '2'
)

func (s OffsetStatus) String() string {
	switch s {
	case NoMoreData:
		return "no-more-data"
	case MoreDataSameOffset:
		return "more-data-same-offset"
	case MoreDataNewOffset:
		return "more-data-new-offset"
	}
	return fmt.Sprintf("unknown(%q)", byte(s))
}

// EntryPosition identifies a point in the journal stream as the service
// reports it: a sequence number, optionally qualified by the receiver that
// holds it.
type EntryPosition struct {
	Sequence        uint64
	Receiver        string
	ReceiverLibrary string
}

func (p EntryPosition) String() string {
	if p.Receiver == "" {
		return fmt.Sprintf("%d", p.Sequence)
	}
	return fmt.Sprintf("%d@%s.%s", p.Sequence, p.Receiver, p.ReceiverLibrary)
}

// DecodeError reports a buffer that is too short or malformed for the field
// being read.
type DecodeError struct {
	Field string
	Want  int
	Have  int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("rjne: decoding %s needs %d bytes, have %d", e.Field, e.Want, e.Have)
}
