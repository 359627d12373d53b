package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/web3tea/journal-sentinel/capturer"
	"github.com/web3tea/journal-sentinel/pkg/log"
)

type StdoutSink struct {
	prettyPrint bool
}

func NewStdoutSink() *StdoutSink {
	return &StdoutSink{
		prettyPrint: true,
	}
}

func (s *StdoutSink) Init(ctx context.Context, config map[string]any) error {
	if prettyPrint, ok := config["pretty_print"].(bool); ok {
		s.prettyPrint = prettyPrint
	}
	return nil
}

func (s *StdoutSink) Close() error {
	return nil
}

func (s *StdoutSink) Flush(ctx context.Context) error {
	return nil
}

func (s *StdoutSink) Type() string {
	return "stdout"
}

func (s *StdoutSink) Write(ctx context.Context, events []*capturer.Event) error {
	log.Debugf("StdoutSink Write %d events", len(events))

	if len(events) == 0 {
		return nil
	}

	if s.prettyPrint {
		fmt.Print(s.buildPrettyOutput(events))
		return nil
	}

	var outputs []string
	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			log.Errorf("Failed to marshal event: %v", err)
			continue
		}
		outputs = append(outputs, string(data))
	}
	fmt.Println(strings.Join(outputs, "\n"))
	return nil
}

func (s *StdoutSink) buildPrettyOutput(events []*capturer.Event) string {
	var sb strings.Builder

	for i, event := range events {
		if i > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString("----------------------------------------\n")
		sb.WriteString(fmt.Sprintf("Event ID: %s\n", event.ID))
		sb.WriteString(fmt.Sprintf("Operation: %s\n", event.Type))
		sb.WriteString(fmt.Sprintf("Entry: %s %s\n", event.JournalCode, event.EntryType))
		sb.WriteString(fmt.Sprintf("Sequence: %d\n", event.Sequence))
		if event.Receiver != "" {
			sb.WriteString(fmt.Sprintf("Receiver: %s\n", event.Receiver))
		}
		sb.WriteString(fmt.Sprintf("Timestamp: %s\n", event.Timestamp.Format(time.RFC3339)))
		if event.Checkpoint != "" {
			sb.WriteString(fmt.Sprintf("Checkpoint: %s\n", event.Checkpoint))
		}

		if len(event.Data) > 0 {
			sb.WriteString(fmt.Sprintf("Payload: %d bytes\n", len(event.Data)))
		}

		if len(event.Metadata) > 0 {
			sb.WriteString("Extra:\n")
			extraBytes, _ := json.MarshalIndent(event.Metadata, "  ", "  ")
			sb.WriteString(string(extraBytes))
			sb.WriteString("\n")
		}

		sb.WriteString("----------------------------------------\n")
	}

	return sb.String()
}

var _ Sink = (*StdoutSink)(nil)
