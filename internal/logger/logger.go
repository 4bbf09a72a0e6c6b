package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger
type Logger struct {
	*logrus.Logger
}

// New creates a new logger instance writing to stderr.
// Stdout is reserved for the JSON-RPC stream when the bridge runs as a sidecar.
func New(level string) *Logger {
	return NewWithOutput(level, os.Stderr)
}

// NewWithOutput creates a logger writing JSON entries to the given writer
func NewWithOutput(level string, output io.Writer) *Logger {
	log := logrus.New()
	log.SetOutput(output)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(parseLevel(level))

	return &Logger{Logger: log}
}

func parseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Command returns an entry scoped to one bridge command invocation
func (l *Logger) Command(name string) *logrus.Entry {
	return l.WithField("command", name)
}
