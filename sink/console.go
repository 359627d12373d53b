package sink

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/web3tea/journal-sentinel/capturer"
)

// ConsoleSink implements the Sink interface to output events to the console in a pretty table format
type ConsoleSink struct {
	// whether to use colored output
	colorEnabled bool
	// unified table style
	tableStyle table.Style
	// max column width for truncation
	maxColumnWidth int
	// how to handle binary payloads
	binaryFormat string // "hex", "base64", or "escaped"
}

// ConsoleSinkOption defines functional options for ConsoleSink
type ConsoleSinkOption func(*ConsoleSink)

// WithColorOutput enables or disables colored output
func WithColorOutput(enabled bool) ConsoleSinkOption {
	return func(s *ConsoleSink) {
		s.colorEnabled = enabled
	}
}

// WithMaxColumnWidth sets the maximum column width for truncation
func WithMaxColumnWidth(width int) ConsoleSinkOption {
	return func(s *ConsoleSink) {
		s.maxColumnWidth = width
	}
}

// WithBinaryFormat sets the format for binary payload display
// Valid values: "hex", "base64", "escaped"
func WithBinaryFormat(format string) ConsoleSinkOption {
	return func(s *ConsoleSink) {
		s.binaryFormat = format
	}
}

// NewConsoleSink creates a new console sink
func NewConsoleSink(options ...ConsoleSinkOption) *ConsoleSink {
	customStyle := table.Style{
		Name: "CDC-Custom",
		Box: table.BoxStyle{
			BottomLeft:       "└",
			BottomRight:      "┘",
			BottomSeparator:  "┴",
			Left:             "│",
			LeftSeparator:    "├",
			MiddleHorizontal: "─",
			MiddleSeparator:  "┼",
			MiddleVertical:   "│",
			PaddingLeft:      " ",
			PaddingRight:     " ",
			Right:            "│",
			RightSeparator:   "┤",
			TopLeft:          "┌",
			TopRight:         "┐",
			TopSeparator:     "┬",
			UnfinishedRow:    "...",
		},
		Options: table.Options{
			DrawBorder:      true,
			SeparateColumns: true,
			SeparateFooter:  true,
			SeparateHeader:  true,
			SeparateRows:    false,
		},
		Title: table.TitleOptions{
			Align:  text.AlignCenter,
			Colors: text.Colors{text.FgHiWhite, text.Bold},
		},
		Color: table.ColorOptions{
			Header: text.Colors{text.FgHiWhite, text.Bold},
			Row:    text.Colors{},
			Footer: text.Colors{text.FgHiWhite, text.Bold},
		},
	}

	sink := &ConsoleSink{
		colorEnabled:   true,
		tableStyle:     customStyle,
		maxColumnWidth: 80,
		binaryFormat:   "hex",
	}

	for _, option := range options {
		option(sink)
	}

	return sink
}

func (s *ConsoleSink) Init(ctx context.Context, config map[string]any) error {
	if enabled, ok := config["color"].(bool); ok {
		s.colorEnabled = enabled
	}
	if format, ok := config["binary_format"].(string); ok {
		s.binaryFormat = format
	}
	return nil
}

// Write outputs events to the console
func (s *ConsoleSink) Write(ctx context.Context, events []*capturer.Event) error {
	for _, event := range events {
		s.writeEventTable(event)
	}
	return nil
}

// writeEventTable outputs an event as a nicely formatted table
func (s *ConsoleSink) writeEventTable(event *capturer.Event) {
	insertColor := color.New(color.FgGreen, color.Bold).SprintFunc()
	updateColor := color.New(color.FgYellow, color.Bold).SprintFunc()
	deleteColor := color.New(color.FgRed, color.Bold).SprintFunc()
	commitColor := color.New(color.FgBlue, color.Bold).SprintFunc()

	if !s.colorEnabled {
		insertColor = fmt.Sprint
		updateColor = fmt.Sprint
		deleteColor = fmt.Sprint
		commitColor = fmt.Sprint
	}

	eventTable := table.NewWriter()
	eventTable.SetOutputMirror(os.Stdout)

	var opText string
	switch event.Type {
	case capturer.OperationTypeInsert:
		opText = insertColor("INSERT")
	case capturer.OperationTypeUpdate:
		opText = updateColor("UPDATE")
	case capturer.OperationTypeDelete:
		opText = deleteColor("DELETE")
	case capturer.OperationTypeCommit:
		opText = commitColor("COMMIT")
	default:
		opText = fmt.Sprintf("%v", event.Type)
	}

	summaryRows := []table.Row{
		{"Event ID", event.ID},
		{"Operation", opText},
		{"Entry", fmt.Sprintf("%s %s", event.JournalCode, event.EntryType)},
		{"Sequence", fmt.Sprintf("%d", event.Sequence)},
		{"Timestamp", event.Timestamp.Format(time.RFC3339)},
	}

	if event.Receiver != "" {
		summaryRows = append(summaryRows, table.Row{"Receiver", event.Receiver})
	}
	if event.Checkpoint != "" {
		summaryRows = append(summaryRows, table.Row{"Checkpoint", event.Checkpoint})
	}

	summaryTable := table.NewWriter()
	for _, row := range summaryRows {
		summaryTable.AppendRow(row)
	}
	summaryTable.SetStyle(s.tableStyle)
	summaryTable.Style().Options.DrawBorder = false
	summaryTable.Style().Options.SeparateRows = false
	summaryTable.Style().Box.PaddingLeft = " "
	summaryTable.Style().Box.PaddingRight = " "

	eventTable.AppendRow(table.Row{summaryTable.Render()})

	if len(event.Data) > 0 {
		payloadTable := table.NewWriter()
		payloadTable.AppendHeader(table.Row{"Payload", "Value"})
		payloadTable.AppendRow(table.Row{"bytes", fmt.Sprintf("%d", len(event.Data))})
		payloadTable.AppendRow(table.Row{"data", s.formatByteArray(event.Data)})
		payloadTable.SetStyle(s.tableStyle)

		eventTable.AppendRow(table.Row{""})
		eventTable.AppendRow(table.Row{text.Bold.Sprint("Entry Data")})
		eventTable.AppendRow(table.Row{payloadTable.Render()})
	}

	if len(event.Metadata) > 0 {
		metadataTable := s.createMetadataTable(event.Metadata)

		eventTable.AppendRow(table.Row{""})
		eventTable.AppendRow(table.Row{text.Bold.Sprint("Additional Metadata")})
		eventTable.AppendRow(table.Row{metadataTable.Render()})
	}

	eventTable.SetStyle(s.tableStyle)
	eventTable.SetTitle(fmt.Sprintf("%s sequence %d", event.Type, event.Sequence))

	fmt.Println()
	fmt.Println(strings.Repeat("─", 100))

	eventTable.Render()
	fmt.Println()
}

// createMetadataTable creates a table for additional metadata
func (s *ConsoleSink) createMetadataTable(metadata map[string]any) table.Writer {
	metadataTable := table.NewWriter()
	metadataTable.AppendHeader(table.Row{"Key", "Value"})

	keys := getSortedKeys(metadata)

	for _, k := range keys {
		metadataTable.AppendRow(table.Row{
			k,
			s.formatValue(metadata[k]),
		})
	}

	metadataTable.SetStyle(s.tableStyle)
	return metadataTable
}

// formatValue formats a value for display, handling truncation, binary data, and nil values
func (s *ConsoleSink) formatValue(val interface{}) string {
	if val == nil {
		return "NULL"
	}
	if byteSlice, ok := val.([]byte); ok {
		return s.formatByteArray(byteSlice)
	}
	return s.truncateString(fmt.Sprintf("%v", val))
}

// formatByteArray formats a byte array according to the configured format
func (s *ConsoleSink) formatByteArray(data []byte) string {
	if len(data) == 0 {
		return "[]"
	}

	var result string
	switch s.binaryFormat {
	case "base64":
		result = "base64:" + base64.StdEncoding.EncodeToString(data)
	case "escaped":
		if isTextual(data) {
			result = formatEscapedString(data)
		} else {
			result = "0x" + hex.EncodeToString(data)
		}
	default:
		result = "0x" + hex.EncodeToString(data)
	}

	return s.truncateString(result)
}

// truncateString truncates a string if it's longer than maxColumnWidth
func (s *ConsoleSink) truncateString(str string) string {
	if len(str) <= s.maxColumnWidth {
		return str
	}
	return str[:s.maxColumnWidth-3] + "..."
}

// isTextual checks if a byte array is likely to be textual data
func isTextual(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}

	for _, r := range string(data) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// formatEscapedString formats a byte array as a string with special characters escaped
func formatEscapedString(data []byte) string {
	var result strings.Builder
	result.WriteRune('"')

	for _, r := range string(data) {
		switch r {
		case '\n':
			result.WriteString("\\n")
		case '\r':
			result.WriteString("\\r")
		case '\t':
			result.WriteString("\\t")
		case '\\':
			result.WriteString("\\\\")
		case '"':
			result.WriteString("\\\"")
		default:
			if unicode.IsPrint(r) {
				result.WriteRune(r)
			} else {
				result.WriteString(fmt.Sprintf("\\u%04x", r))
			}
		}
	}

	result.WriteRune('"')
	return result.String()
}

// getSortedKeys returns sorted keys from a map for consistent output
func getSortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flush implements the Sink interface, no buffering for console output
func (s *ConsoleSink) Flush(ctx context.Context) error {
	return nil
}

// Close implements the Sink interface
func (s *ConsoleSink) Close() error {
	return nil
}

// Type returns the type of this sink
func (s *ConsoleSink) Type() string {
	return "console"
}

var _ Sink = (*ConsoleSink)(nil)
