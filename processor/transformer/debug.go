package transformer

import (
	"github.com/web3tea/journal-sentinel/capturer"
	"github.com/web3tea/journal-sentinel/pkg/log"
	"github.com/web3tea/journal-sentinel/processor"
)

// DebugTransformer passes every event through, tracing it with its resume
// checkpoint so a stalled pipeline can be correlated with the cursor.
type DebugTransformer struct{}

func NewDebugTransformer() *DebugTransformer {
	return &DebugTransformer{}
}

// Process implements processor.EventProcessor.
func (d *DebugTransformer) Process(event *capturer.Event) (*capturer.Event, error) {
	log.Debugf("transform event %s: %s seq %d checkpoint %s",
		event.ID, event.Type, event.Sequence, event.Checkpoint)
	return event, nil
}

var _ processor.EventProcessor = (*DebugTransformer)(nil)
