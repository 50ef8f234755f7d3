package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	corelogger "github.com/kilianp07/primaryfuel/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.NopLogger

// Options configures the process wide log output.
type Options struct {
	// Level is a zerolog level name such as "debug" or "info".
	Level string
	// Format is "json" or "console". APP_ENV=dev forces console.
	Format string
	// File, when set, receives logs through a rotating writer instead of stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var output = struct {
	mu      sync.RWMutex
	w       io.Writer
	closer  io.Closer
	console bool
}{w: os.Stderr}

// Configure applies the options to every logger created afterwards.
func Configure(opts Options) error {
	lvl := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		lvl = l
	}
	zerolog.SetGlobalLevel(lvl)

	var w io.Writer = os.Stderr
	var closer io.Closer
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		w, closer = lj, lj
	}
	output.mu.Lock()
	prev := output.closer
	output.w = w
	output.closer = closer
	output.console = strings.EqualFold(opts.Format, "console")
	output.mu.Unlock()
	if prev != nil {
		return prev.Close()
	}
	return nil
}

// Close closes the rotating log file, if any, and sends later output to stderr.
func Close() error {
	output.mu.Lock()
	c := output.closer
	output.closer = nil
	if c != nil {
		output.w = os.Stderr
	}
	output.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// SetOutput redirects loggers created afterwards to w.
func SetOutput(w io.Writer) {
	output.mu.Lock()
	output.w = w
	output.mu.Unlock()
}

// New returns a Logger for the given component. The environment is detected via
// the APP_ENV variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}
