package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger writing to the configured output.
// APP_ENV=dev or a console format selects the human readable writer. All logs
// include the provided component field.
func NewZerologLogger(component string) Logger {
	output.mu.RLock()
	w, console := output.w, output.console
	output.mu.RUnlock()
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		console = true
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Infow(msg string, fields map[string]any) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

// With returns a child logger with the field attached.
func (l *ZerologLogger) With(key string, value any) Logger {
	return &ZerologLogger{log: l.log.With().Interface(key, value).Logger()}
}
