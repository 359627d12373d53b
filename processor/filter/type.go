package filter

import (
	"github.com/samber/lo"
	"github.com/web3tea/journal-sentinel/capturer"
	"github.com/web3tea/journal-sentinel/processor"
)

// TypeFilter keeps only events whose operation type is in the configured
// set. An empty set keeps everything.
type TypeFilter struct {
	types []capturer.OperationType
}

func NewTypeFilter(types []string) *TypeFilter {
	return &TypeFilter{
		types: lo.Map(types, func(t string, _ int) capturer.OperationType {
			return capturer.OperationType(t)
		}),
	}
}

func (f *TypeFilter) Process(event *capturer.Event) (*capturer.Event, error) {
	if len(f.types) == 0 || lo.Contains(f.types, event.Type) {
		return event, nil
	}
	return nil, nil
}

var _ processor.EventProcessor = (*TypeFilter)(nil)
