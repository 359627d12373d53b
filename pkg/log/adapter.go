package log

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/web3tea/journal-sentinel/capturer"
)

// ZerologAdapter exposes a zerolog.Logger through the capturer's printf-style
// Logger contract.
type ZerologAdapter struct {
	logger zerolog.Logger
}

func NewZerologAdapter(logger zerolog.Logger) capturer.Logger {
	return &ZerologAdapter{
		logger: logger,
	}
}

// NewCaptureLogger builds the capturer's logger stamped with the journal it
// captures, so interleaved lines from multiple capture pipelines stay
// attributable.
func NewCaptureLogger(journalName, journalLibrary string, output io.Writer) capturer.Logger {
	logger := NewLogger("capturer", output).Zerolog().With().
		Str("journal", journalLibrary+"."+journalName).
		Logger()
	return &ZerologAdapter{logger: logger}
}

func (z *ZerologAdapter) Debugf(format string, args ...any) {
	z.logger.Debug().Msgf(format, args...)
}

func (z *ZerologAdapter) Infof(format string, args ...any) {
	z.logger.Info().Msgf(format, args...)
}

func (z *ZerologAdapter) Warnf(format string, args ...any) {
	z.logger.Warn().Msgf(format, args...)
}

func (z *ZerologAdapter) Errorf(format string, args ...any) {
	z.logger.Error().Msgf(format, args...)
}
