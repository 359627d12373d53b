package journal

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/web3tea/journal-sentinel/journal/rjne"
)

// Config holds the per-journal settings of a Retriever.
type Config struct {
	JournalName    string
	JournalLibrary string

	// IncludeFiles restricts retrieval to these journaled objects when
	// Filtering is set. The protocol entry-type filter stays *ALL.
	IncludeFiles []FileFilter
	Filtering    bool

	// DumpFolder receives diagnostic artifacts when entry payload
	// decoding fails. Empty disables dumping.
	DumpFolder string

	// MaxServerSideEntries caps how many entries one resolved range may
	// span. Zero means uncapped.
	MaxServerSideEntries uint64
}

// Retriever is the block-fetch engine for one journal stream. It is
// single-threaded: one cursor, one in-flight call. Consumers of multiple
// journals need one Retriever each; instances share nothing.
type Retriever struct {
	cfg              Config
	transport        Transport
	receivers        *Receivers
	builder          *CriteriaBuilder
	totalTransferred uint64
	log              zerolog.Logger
}

func NewRetriever(cfg Config, transport Transport, info InfoRetriever, logger zerolog.Logger) *Retriever {
	return &Retriever{
		cfg:       cfg,
		transport: transport,
		receivers: NewReceivers(info, cfg.MaxServerSideEntries),
		builder:   NewCriteriaBuilder(cfg.JournalName, cfg.JournalLibrary),
		log:       logger,
	}
}

// TotalTransferred returns the cumulative bytes reported by all block
// headers this Retriever has decoded.
func (r *Retriever) TotalTransferred() uint64 {
	return r.totalTransferred
}

// Retrieve fetches one block of journal data starting at pos and returns a
// Session for draining it entry by entry. pos is advanced in place as the
// session is drained.
//
// Recoverable conditions come back as a successful, possibly empty session
// with the cursor already advanced: a range whose end equals pos
// (short-circuit, no remote call), a receive buffer too small for even one
// entry (cursor moves to the continuation hint), and a filtered fetch that
// matched nothing (cursor moves to the live head). Callers must keep
// polling with the advanced cursor; an empty drain is not an error.
func (r *Retriever) Retrieve(ctx context.Context, pos *Position) (*Session, error) {
	s := &Session{r: r, pos: pos, offset: -1}

	r.log.Debug().Stringer("position", pos).Msg("fetch journal block")

	b := r.builder.Reset()
	if r.cfg.Filtering && len(r.cfg.IncludeFiles) > 0 {
		b.WithFileFilters(r.cfg.IncludeFiles)
	}

	rng, err := r.receivers.FindRange(ctx, *pos)
	if err != nil {
		return nil, err
	}

	var liveHead *Position
	if rng != nil {
		b.WithStartingSequence(rng.Start.Sequence)
		b.WithReceivers(rng.Start.Receiver, rng.Start.ReceiverLibrary, rng.End.Receiver, rng.End.ReceiverLibrary)
		b.WithEndingSequence(rng.End.Sequence)
		end := rng.End
		liveHead = &end

		if pos.SamePosition(rng.End) {
			// already at the end, nothing to fetch
			s.header = rjne.BlockHeader{Status: rjne.NoMoreData}
			return s, nil
		}
	} else {
		b.FromPositionToEnd(*pos)
	}

	criteria := b.Build()
	result, err := r.transport.Call(ctx, criteria)
	if err != nil {
		return nil, &RetrievalError{Position: *pos, Criteria: criteria.String(), Err: err}
	}
	if !result.Success {
		if err := r.classify(result.Diagnostics, pos, criteria, liveHead, s); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.data = result.Data
	header, err := rjne.DecodeBlockHeader(s.data)
	if err != nil {
		return nil, err
	}
	r.totalTransferred += uint64(header.TotalBytes)
	s.header = header
	r.log.Debug().Stringer("header", header).Msg("block header")

	if header.Status == rjne.MoreDataNewOffset && header.Offset == 0 {
		r.log.Error().Stringer("position", pos).Msg("buffer too small, skipping this entry")
		if header.NextPosition != nil {
			pos.SetFromHint(*header.NextPosition)
		}
	} else if header.Size == 0 && liveHead != nil {
		r.log.Debug().Stringer("head", liveHead).Msg("no entries, moving on to current position")
		s.header = withCurrentPosition(s.header, *liveHead)
		pos.SetTo(*liveHead)
	}
	return s, nil
}

// classify walks the diagnostics of a failed call. It either returns a fatal
// error from the taxonomy, or handles the no-data-after-filtering case by
// priming the session with a synthetic no-more-data header and advancing the
// cursor to the live head.
func (r *Retriever) classify(diags []Diagnostic, pos *Position, criteria *Criteria, liveHead *Position, s *Session) error {
	for _, d := range diags {
		switch d.ID {
		case "":
			r.log.Error().
				Stringer("position", pos).
				Str("parameters", criteria.String()).
				Str("message", d.Text).
				Msg("call failed with no message id")
			continue
		case MsgSequenceNotFound:
			return &InvalidPositionError{Position: *pos, Criteria: criteria.String(),
				Message: "failed to find sequence or break in receivers: " + d.fullText()}
		case MsgInvalidReceiver:
			return &InvalidPositionError{Position: *pos, Criteria: criteria.String(),
				Message: "failed to find receiver: " + d.fullText()}
		case MsgInvalidOffsetRange:
			return &InvalidPositionError{Position: *pos, Criteria: criteria.String(),
				Message: "failed to find offset or invalid offsets: " + d.Text}
		case MsgFilterTargetMissing:
			return &InvalidFilterError{Position: *pos, Criteria: criteria.String(),
				Message: "object not found or not journaled: " + d.fullText()}
		case MsgNoDataAfterFilter:
			r.log.Debug().
				Stringer("position", pos).
				Str("message", d.Text).
				Msg("no data received, probably all filtered")
			header := rjne.BlockHeader{Status: rjne.NoMoreData}
			if liveHead != nil {
				header = withCurrentPosition(header, *liveHead)
				pos.SetTo(*liveHead)
			}
			s.header = header
			return nil
		default:
			r.log.Error().
				Stringer("position", pos).
				Str("parameters", criteria.String()).
				Str("id", d.ID).
				Str("message", d.fullText()).
				Msg("call failed")
		}
	}
	return &RetrievalError{Position: *pos, Criteria: criteria.String()}
}

func (d Diagnostic) fullText() string {
	if d.Help == "" {
		return d.Text
	}
	return d.Text + " " + d.Help
}

// withCurrentPosition returns a copy of the header carrying the live journal
// head. Used wherever a fetch matched no data but the head is known, so a
// caller that skipped everything still makes forward progress.
func withCurrentPosition(h rjne.BlockHeader, head Position) rjne.BlockHeader {
	h.CurrentPosition = &rjne.EntryPosition{
		Sequence:        head.Sequence,
		Receiver:        head.Receiver,
		ReceiverLibrary: head.ReceiverLibrary,
	}
	return h
}
