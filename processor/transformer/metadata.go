package transformer

import (
	"github.com/web3tea/journal-sentinel/capturer"
	"github.com/web3tea/journal-sentinel/processor"
)

// MetadataTransformer annotates every event with a fixed set of metadata,
// typically the journal identity of the capturing pipeline.
type MetadataTransformer struct {
	metadata map[string]any
}

func NewMetadataTransformer(metadata map[string]any) *MetadataTransformer {
	return &MetadataTransformer{metadata: metadata}
}

func (t *MetadataTransformer) Process(event *capturer.Event) (*capturer.Event, error) {
	if len(t.metadata) == 0 {
		return event, nil
	}
	if event.Metadata == nil {
		event.Metadata = make(map[string]any, len(t.metadata))
	}
	for k, v := range t.metadata {
		event.Metadata[k] = v
	}
	return event, nil
}

var _ processor.EventProcessor = (*MetadataTransformer)(nil)
