package journal

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	"github.com/web3tea/journal-sentinel/journal/rjne"
)

// Position is the resumable cursor into a journal stream. It is either
// receiver-qualified (Receiver non-empty) or plain sequence-qualified.
// Processed records whether the entry at this exact position has already
// been surfaced downstream; equality deliberately ignores it.
type Position struct {
	Sequence        uint64 `json:"sequence"`
	Receiver        string `json:"receiver,omitempty"`
	ReceiverLibrary string `json:"receiver_library,omitempty"`
	Processed       bool   `json:"processed"`
}

// ReceiverQualified reports whether the cursor names the storage segment
// that holds its sequence.
func (p Position) ReceiverQualified() bool {
	return p.Receiver != ""
}

// SamePosition compares the qualifying fields only, ignoring Processed.
func (p Position) SamePosition(o Position) bool {
	return p.Sequence == o.Sequence &&
		p.Receiver == o.Receiver &&
		p.ReceiverLibrary == o.ReceiverLibrary
}

// Advance moves the cursor to the entry and marks it processed. When the
// entry carries a receiver identity the cursor switches to
// receiver-qualified mode; otherwise the current receiver qualification is
// kept and only the sequence moves.
func (p *Position) Advance(e rjne.EntryHeader) {
	if e.HasReceiver() {
		p.Receiver = e.Receiver
		p.ReceiverLibrary = e.ReceiverLibrary
	}
	p.Sequence = e.Sequence
	p.Processed = true
}

// SetTo replaces the cursor wholesale, Processed included.
func (p *Position) SetTo(o Position) {
	*p = o
}

// SetFromHint moves the cursor to a position supplied by the service
// (continuation hint or live head). The entry there has not been seen, so
// Processed resets.
func (p *Position) SetFromHint(h rjne.EntryPosition) {
	p.Sequence = h.Sequence
	p.Receiver = h.Receiver
	p.ReceiverLibrary = h.ReceiverLibrary
	p.Processed = false
}

// AlreadyProcessed reports whether the entry would land the cursor on a
// position it has already emitted. Pure: prev is taken by value and the
// candidate is computed on a copy.
func AlreadyProcessed(prev Position, e rjne.EntryHeader) bool {
	if !prev.Processed {
		return false
	}
	candidate := prev
	candidate.Advance(e)
	return candidate.SamePosition(prev)
}

func (p Position) String() string {
	if !p.ReceiverQualified() {
		return strconv.FormatUint(p.Sequence, 10)
	}
	return fmt.Sprintf("%d@%s.%s", p.Sequence, p.Receiver, p.ReceiverLibrary)
}

// ParsePosition parses the textual form produced by String:
// "sequence" or "sequence@RECEIVER.LIBRARY".
func ParsePosition(s string) (Position, error) {
	seqPart, recvPart, qualified := strings.Cut(s, "@")
	seq, err := strconv.ParseUint(seqPart, 10, 64)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse position %q: %w", s, err)
	}
	p := Position{Sequence: seq}
	if qualified {
		name, lib, ok := strings.Cut(recvPart, ".")
		if !ok || name == "" || lib == "" {
			return Position{}, fmt.Errorf("failed to parse position %q: malformed receiver", s)
		}
		p.Receiver = name
		p.ReceiverLibrary = lib
	}
	return p, nil
}

// Scan implements the Scanner interface.
func (p *Position) Scan(src interface{}) error {
	if p == nil {
		return nil
	}
	switch v := src.(type) {
	case string:
		parsed, err := ParsePosition(v)
		if err != nil {
			return err
		}
		*p = parsed
	case []byte:
		parsed, err := ParsePosition(string(v))
		if err != nil {
			return err
		}
		*p = parsed
	default:
		return fmt.Errorf("cannot scan %T into Position", src)
	}
	return nil
}

// Value implements the Valuer interface.
func (p Position) Value() (driver.Value, error) {
	return p.String(), nil
}

// PositionRange is the inclusive bounds of live, fetchable journal data at
// the moment of resolution. Start always orders at or before End.
type PositionRange struct {
	Start Position
	End   Position
}

// Empty reports whether the range holds no new data.
func (r PositionRange) Empty() bool {
	return r.Start.SamePosition(r.End)
}

func (r PositionRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}
