package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web3tea/journal-sentinel/capturer"
	"github.com/web3tea/journal-sentinel/processor"
	"github.com/web3tea/journal-sentinel/processor/filter"
	"github.com/web3tea/journal-sentinel/processor/transformer"
)

func TestTypeFilter(t *testing.T) {
	f := filter.NewTypeFilter([]string{"INSERT", "DELETE"})

	ev, err := f.Process(&capturer.Event{Type: capturer.OperationTypeInsert})
	require.NoError(t, err)
	assert.NotNil(t, ev)

	ev, err = f.Process(&capturer.Event{Type: capturer.OperationTypeUpdate})
	require.NoError(t, err)
	assert.Nil(t, ev)

	// empty filter keeps everything
	f = filter.NewTypeFilter(nil)
	ev, err = f.Process(&capturer.Event{Type: capturer.OperationTypeOther})
	require.NoError(t, err)
	assert.NotNil(t, ev)
}

func TestMetadataTransformer(t *testing.T) {
	tr := transformer.NewMetadataTransformer(map[string]any{"journal": "JRNLIB.JRN"})

	ev, err := tr.Process(&capturer.Event{})
	require.NoError(t, err)
	assert.Equal(t, "JRNLIB.JRN", ev.Metadata["journal"])

	// existing metadata is preserved
	ev, err = tr.Process(&capturer.Event{Metadata: map[string]any{"source": "test"}})
	require.NoError(t, err)
	assert.Equal(t, "test", ev.Metadata["source"])
	assert.Equal(t, "JRNLIB.JRN", ev.Metadata["journal"])
}

func TestProcessorChain(t *testing.T) {
	chain := processor.NewProcessorChain()
	chain.AddFilter(filter.NewTypeFilter([]string{"INSERT"}))
	chain.AddTransformer(transformer.NewMetadataTransformer(map[string]any{"stage": "captured"}))

	ev, err := chain.Process(&capturer.Event{Type: capturer.OperationTypeInsert})
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "captured", ev.Metadata["stage"])

	// a filtered event short-circuits the chain without error
	ev, err = chain.Process(&capturer.Event{Type: capturer.OperationTypeDelete})
	require.NoError(t, err)
	assert.Nil(t, ev)
}
