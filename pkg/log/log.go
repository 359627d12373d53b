package log

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/rs/zerolog"
)

type ZeroLogger struct {
	logger zerolog.Logger
	name   string
}

func init() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// SetLevelFromString applies a textual level such as "debug" or "info".
func SetLevelFromString(level string) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}

func NewLogger(name string, output io.Writer) *ZeroLogger {
	if output == nil {
		output = os.Stdout
	}

	// Create logger with caller information
	logger := zerolog.New(output).
		With().
		Timestamp().
		Str("logger", name).
		Caller().
		Logger()

	return &ZeroLogger{
		logger: logger,
		name:   name,
	}
}

// Zerolog exposes the underlying logger for components that take a
// zerolog.Logger directly.
func (l *ZeroLogger) Zerolog() zerolog.Logger {
	return l.logger
}

func (l *ZeroLogger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *ZeroLogger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

func (l *ZeroLogger) Warnf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *ZeroLogger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

var defaultLogger = NewLogger("default", nil)

// Default returns the shared process-wide logger.
func Default() zerolog.Logger {
	return defaultLogger.logger
}

func caller(event *zerolog.Event) *zerolog.Event {
	_, file, line, ok := runtime.Caller(2)
	if ok {
		event = event.Str("caller", filepath.Base(file)+":"+strconv.Itoa(line))
	}
	return event
}

func Debugf(format string, args ...any) {
	caller(defaultLogger.logger.Debug()).Msgf(format, args...)
}

func Infof(format string, args ...any) {
	caller(defaultLogger.logger.Info()).Msgf(format, args...)
}

func Warnf(format string, args ...any) {
	caller(defaultLogger.logger.Warn()).Msgf(format, args...)
}

func Errorf(format string, args ...any) {
	caller(defaultLogger.logger.Error()).Msgf(format, args...)
}

func Fatalf(format string, args ...any) {
	caller(defaultLogger.logger.Fatal()).Msgf(format, args...)
	// zerolog calls os.Exit(1) when the event is actually logged
}
