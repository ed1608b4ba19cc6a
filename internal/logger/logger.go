package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger for application-wide logging
type Logger struct {
	*zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string    // debug, info, warn, error
	Pretty     bool      // Enable pretty console output
	OutputFile string    // Optional file output path
	Output     io.Writer // Defaults to stderr
}

// New creates a new logger with the given configuration
//
// Output goes to stderr unless Config.Output says otherwise. Stdout carries
// the tool protocol and must never receive log lines.
func New(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var output io.Writer = out
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	if cfg.OutputFile != "" {
		file, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			output = io.MultiWriter(output, file)
		}
	}

	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()

	return &Logger{Logger: &logger}
}

// NewDefault creates a logger with default settings
func NewDefault() *Logger {
	return New(Config{Level: "info"})
}

// Nop returns a logger that discards everything, handy in tests
func Nop() *Logger {
	l := zerolog.Nop()
	return &Logger{Logger: &l}
}

// WithComponent returns a logger with a component field
func (l *Logger) WithComponent(component string) *Logger {
	newLogger := l.With().Str("component", component).Logger()
	return &Logger{Logger: &newLogger}
}

// WithTool returns a logger with a tool name field
func (l *Logger) WithTool(tool string) *Logger {
	newLogger := l.With().Str("tool", tool).Logger()
	return &Logger{Logger: &newLogger}
}
