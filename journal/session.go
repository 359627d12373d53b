package journal

import (
	"github.com/web3tea/journal-sentinel/journal/rjne"
)

// Session is the short-lived state of one Retrieve call: the fetched buffer,
// its headers, and the walk offset. It is drained with HasData/NextEntry
// until exhausted, after which the caller issues a new Retrieve with the
// advanced cursor. Not safe for concurrent use.
type Session struct {
	r      *Retriever
	data   []byte
	header rjne.BlockHeader
	entry  rjne.EntryHeader
	offset int
	pos    *Position
}

// Header returns the decoded block header of this fetch.
func (s *Session) Header() rjne.BlockHeader {
	return s.header
}

// Position returns the cursor this session advances.
func (s *Session) Position() *Position {
	return s.pos
}

// EntryHeader returns the header of the entry NextEntry last surfaced.
func (s *Session) EntryHeader() rjne.EntryHeader {
	return s.entry
}

// FutureDataAvailable reports whether the service indicated more entries
// remain beyond this buffer.
func (s *Session) FutureDataAvailable() bool {
	return s.header.HasFutureData()
}

// HasData reports whether the fetch left more data behind the walk point.
// A terminal (no-more-data) buffer reports false outright, even before its
// entries are drained; NextEntry still walks them.
func (s *Session) HasData() bool {
	if s.header.Status == rjne.NoMoreData {
		return false
	}
	if s.offset < 0 && s.header.Size > 0 {
		return true
	}
	if s.offset > 0 && s.entry.NextEntryOffset > 0 {
		return true
	}
	return false
}

// NextEntry advances to the next entry in the buffer, updating the cursor.
// The first call decodes at the block's declared offset; an entry whose
// resulting position was already processed is skipped without being
// surfaced, which keeps delivery at-most-once across a reconnect that
// re-fetches overlapping data. When the chain ends the cursor is left at
// the block's continuation hint, if any, and false is returned.
func (s *Session) NextEntry() (bool, error) {
	if s.offset < 0 {
		if s.header.Size == 0 {
			return false, nil
		}
		s.offset = int(s.header.Offset)
		entry, err := rjne.DecodeEntryHeader(s.data, s.offset)
		if err != nil {
			return false, err
		}
		s.entry = entry
		if AlreadyProcessed(*s.pos, entry) {
			s.pos.Advance(entry)
			return s.NextEntry()
		}
		s.pos.Advance(entry)
		return true, nil
	}

	if next := s.entry.NextEntryOffset; next > 0 {
		s.offset += int(next)
		entry, err := rjne.DecodeEntryHeader(s.data, s.offset)
		if err != nil {
			return false, err
		}
		s.entry = entry
		s.pos.Advance(entry)
		return true, nil
	}

	if s.header.NextPosition != nil {
		s.r.log.Debug().Stringer("continuation", s.header.NextPosition).Msg("setting continuation offset")
		s.pos.SetFromHint(*s.header.NextPosition)
	}
	return false, nil
}

// EntryDecoder extracts entry-specific payload from the raw buffer. offset
// is the start of the entry header within data.
type EntryDecoder[T any] interface {
	Decode(header rjne.EntryHeader, data []byte, offset int) (T, error)
}

// Decode extracts the current entry's payload with dec. On failure the raw
// buffer and header text are dumped to the configured diagnostics folder
// before the error propagates.
func Decode[T any](s *Session, dec EntryDecoder[T]) (T, error) {
	t, err := dec.Decode(s.entry, s.data, s.offset)
	if err != nil {
		s.dumpEntry()
		var zero T
		return zero, err
	}
	return t, nil
}

// RawData is the EntryDecoder that returns the entry-specific bytes as-is.
type RawData struct{}

func (RawData) Decode(header rjne.EntryHeader, data []byte, offset int) ([]byte, error) {
	start := offset + int(header.EntrySpecificDataOffset)
	end := len(data)
	if header.NextEntryOffset > 0 {
		end = offset + int(header.NextEntryOffset)
	}
	if start > end || end > len(data) {
		return nil, &rjne.DecodeError{Field: "entry specific data", Want: end, Have: len(data)}
	}
	return data[start:end], nil
}
