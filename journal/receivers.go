package journal

import (
	"context"
	"fmt"
)

// ReceiverInfo describes one storage segment in the journal's receiver
// chain, with the inclusive sequence span it holds.
type ReceiverInfo struct {
	Name          string
	Library       string
	FirstSequence uint64
	LastSequence  uint64
}

func (r ReceiverInfo) holds(seq uint64) bool {
	return seq >= r.FirstSequence && seq <= r.LastSequence
}

func (r ReceiverInfo) String() string {
	return fmt.Sprintf("%s.%s[%d..%d]", r.Name, r.Library, r.FirstSequence, r.LastSequence)
}

// Receivers resolves the contiguous chain of receivers that a fetch starting
// at a given cursor must scan. The chain is cached and refreshed only when
// the cursor or the live head fall outside it.
type Receivers struct {
	info                 InfoRetriever
	maxServerSideEntries uint64
	chain                []ReceiverInfo
}

// NewReceivers builds a resolver. maxServerSideEntries caps how many entries
// one resolved range may span; zero means uncapped.
func NewReceivers(info InfoRetriever, maxServerSideEntries uint64) *Receivers {
	return &Receivers{info: info, maxServerSideEntries: maxServerSideEntries}
}

// FindRange resolves the explicit bounds for a fetch starting at start. A
// nil range (with nil error) means the caller should issue an open-ended
// from-position-to-end request and let the service determine the live end:
// either the stream is sequence-addressed only, or the cursor already sits
// past the live head. When the returned range's end equals start, no new
// data exists and the caller must short-circuit without any remote call.
func (r *Receivers) FindRange(ctx context.Context, start Position) (*PositionRange, error) {
	if !start.ReceiverQualified() {
		return nil, nil
	}

	head, err := r.info.CurrentPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve journal head: %w", err)
	}

	if r.indexOf(start.Receiver, start.ReceiverLibrary) < 0 || !r.attached(head) {
		chain, err := r.info.ReceiverChain(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve receiver chain: %w", err)
		}
		r.chain = chain
	}

	idx := r.indexOf(start.Receiver, start.ReceiverLibrary)
	if idx < 0 {
		return nil, &InvalidPositionError{
			Position: start,
			Message:  fmt.Sprintf("receiver %s.%s not found in chain", start.Receiver, start.ReceiverLibrary),
		}
	}

	if start.Sequence > head.Sequence {
		// cursor is past the live head, nothing resolvable yet
		return nil, nil
	}

	end := head
	if r.maxServerSideEntries > 0 && head.Sequence-start.Sequence > r.maxServerSideEntries {
		capSeq := start.Sequence + r.maxServerSideEntries
		for _, recv := range r.chain[idx:] {
			if recv.LastSequence >= capSeq {
				end = Position{Sequence: capSeq, Receiver: recv.Name, ReceiverLibrary: recv.Library}
				break
			}
		}
	}

	return &PositionRange{Start: start, End: end}, nil
}

func (r *Receivers) indexOf(name, library string) int {
	for i, recv := range r.chain {
		if recv.Name == name && recv.Library == library {
			return i
		}
	}
	return -1
}

// attached reports whether the live head still lands in the last receiver of
// the cached chain.
func (r *Receivers) attached(head Position) bool {
	if len(r.chain) == 0 {
		return false
	}
	last := r.chain[len(r.chain)-1]
	if head.ReceiverQualified() {
		return last.Name == head.Receiver && last.Library == head.ReceiverLibrary
	}
	return last.holds(head.Sequence)
}
