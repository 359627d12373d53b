package rjne

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// BlockHeaderSize is the minimum number of bytes a retrieval buffer
	// must carry.
	BlockHeaderSize = 16

	continuationSize = 28
	nameFieldSize    = 10
)

// BlockHeader describes one fetched buffer: how much entry data it holds,
// where the first entry header starts, and whether more data remains.
type BlockHeader struct {
	TotalBytes uint32
	Size       uint32
	Offset     uint32
	Status     OffsetStatus

	// NextPosition is the continuation hint supplied when the service
	// truncated the buffer (status MoreDataNewOffset).
	NextPosition *EntryPosition

	// CurrentPosition is the live journal head, folded in by the caller
	// when a fetch matched no data so that the cursor can still advance.
	CurrentPosition *EntryPosition
}

// HasFutureData reports whether the service indicated more entries remain
// beyond this buffer.
func (h BlockHeader) HasFutureData() bool {
	return h.Status == MoreDataSameOffset || h.Status == MoreDataNewOffset
}

func (h BlockHeader) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "total: %d size: %d offset: %d status: %s", h.TotalBytes, h.Size, h.Offset, h.Status)
	if h.NextPosition != nil {
		fmt.Fprintf(&b, " next: %s", h.NextPosition)
	}
	if h.CurrentPosition != nil {
		fmt.Fprintf(&b, " current: %s", h.CurrentPosition)
	}
	return b.String()
}

// DecodeBlockHeader parses the leading block header of a retrieval buffer.
// Buffers shorter than BlockHeaderSize fail, as does a truncated
// continuation descriptor when the status declares one.
func DecodeBlockHeader(buf []byte) (BlockHeader, error) {
	if len(buf) < BlockHeaderSize {
		return BlockHeader{}, &DecodeError{Field: "block header", Want: BlockHeaderSize, Have: len(buf)}
	}

	h := BlockHeader{
		TotalBytes: binary.BigEndian.Uint32(buf[0:4]),
		Size:       binary.BigEndian.Uint32(buf[4:8]),
		Offset:     binary.BigEndian.Uint32(buf[8:12]),
		Status:     OffsetStatus(buf[12]),
	}

	switch h.Status {
	case NoMoreData, MoreDataSameOffset:
	case MoreDataNewOffset:
		if len(buf) < BlockHeaderSize+continuationSize {
			return BlockHeader{}, &DecodeError{
				Field: "continuation position",
				Want:  BlockHeaderSize + continuationSize,
				Have:  len(buf),
			}
		}
		h.NextPosition = &EntryPosition{
			Sequence:        binary.BigEndian.Uint64(buf[16:24]),
			Receiver:        decodeName(buf[24:34]),
			ReceiverLibrary: decodeName(buf[34:44]),
		}
	default:
		return BlockHeader{}, fmt.Errorf("rjne: unknown block status %q", byte(h.Status))
	}

	return h, nil
}

// decodeName reads a fixed-width, space-padded name field. An all-blank
// field decodes to the empty string.
func decodeName(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}
