package sentinel

import "time"

// Option configures a Sentinel.
type Option func(*Sentinel)

// WithBatchSize sets how many events accumulate before a flush.
func WithBatchSize(size int) Option {
	return func(s *Sentinel) {
		if size > 0 {
			s.BatchSize = size
		}
	}
}

// WithFlushInterval sets the maximum time events sit unflushed.
func WithFlushInterval(interval time.Duration) Option {
	return func(s *Sentinel) {
		s.FlushInterval = interval
	}
}

// WithCheckpointInterval sets how often the last flushed checkpoint is
// acknowledged back to the capturer.
func WithCheckpointInterval(interval time.Duration) Option {
	return func(s *Sentinel) {
		s.checkpointInterval = interval
	}
}

// WithStatusReporter registers a reporter for status changes.
func WithStatusReporter(reporter StatusReporter) Option {
	return func(s *Sentinel) {
		s.statusReporter = reporter
	}
}
