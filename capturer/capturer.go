package capturer

import (
	"context"
	"time"
)

type Capturer interface {
	Start() error

	Stop() error

	Events() <-chan *Event

	Checkpoint(ctx context.Context) (string, error)
	ACK(ctx context.Context, position string) error
}

type Config struct {
	JournalName    string   `json:"journal_name" yaml:"journal_name" toml:"journal_name"`
	JournalLibrary string   `json:"journal_library" yaml:"journal_library" toml:"journal_library"`
	IncludeFiles   []string `json:"include_files" yaml:"include_files" toml:"include_files"`

	// DumpFolder receives diagnostic artifacts when an entry payload
	// fails to decode.
	DumpFolder string `json:"dump_folder" yaml:"dump_folder" toml:"dump_folder"`

	MaxServerSideEntries uint64        `json:"max_server_side_entries" yaml:"max_server_side_entries" toml:"max_server_side_entries"`
	PollInterval         time.Duration `json:"poll_interval" yaml:"poll_interval" toml:"poll_interval"`
	EventBufferSize      int           `json:"event_buffer_size" yaml:"event_buffer_size" toml:"event_buffer_size"`

	// FromBeginning starts at the oldest available entry instead of the
	// live head when no checkpoint exists.
	FromBeginning bool `json:"from_beginning" yaml:"from_beginning" toml:"from_beginning"`
}

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (l *noopLogger) Debugf(format string, args ...any) {}
func (l *noopLogger) Infof(format string, args ...any)  {}
func (l *noopLogger) Warnf(format string, args ...any)  {}
func (l *noopLogger) Errorf(format string, args ...any) {}
