package filter

import (
	"github.com/web3tea/journal-sentinel/capturer"
	"github.com/web3tea/journal-sentinel/pkg/log"
	"github.com/web3tea/journal-sentinel/processor"
)

// DebugFilter passes every event through, tracing the journal entry it came
// from. Useful ahead of a TypeFilter to see what gets dropped.
type DebugFilter struct{}

func NewDebugFilter() *DebugFilter {
	return &DebugFilter{}
}

func (f *DebugFilter) Process(event *capturer.Event) (*capturer.Event, error) {
	log.Debugf("filter event %s: %s entry %s%s seq %d receiver %s",
		event.ID, event.Type, event.JournalCode, event.EntryType, event.Sequence, event.Receiver)
	return event, nil
}

var _ processor.EventProcessor = (*DebugFilter)(nil)
