package processor

import (
	"github.com/web3tea/journal-sentinel/capturer"
)

// EventProcessor handles one captured journal event. Returning a nil event
// (and nil error) drops the event from the pipeline; the capturer's cursor
// still advances past it, so dropped entries are not re-delivered.
type EventProcessor interface {
	Process(event *capturer.Event) (*capturer.Event, error)
}

// ProcessorComposite assembles a pipeline stage by stage. Filters run before
// transformers so entries excluded from the stream are never annotated.
type ProcessorComposite interface {
	AddFilter(processor EventProcessor)
	AddTransformer(processor EventProcessor)
}

type Processor interface {
	EventProcessor
	ProcessorComposite
}
