// Package log implements structured logging on logrus.
package log

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"firestige.xyz/pktparse/internal/config"
)

var (
	mu     sync.RWMutex
	logger = newLogger(logrus.InfoLevel, NewMultiWriter().Add(os.Stderr), defaultTextFormatter())
	output *MultiWriter
)

// Init replaces the global logger according to cfg. Logs always go to
// stderr, stdout is reserved for decoded records. It may be called again
// to reconfigure; the previous file output is closed.
func Init(cfg config.LogConfig) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	var fmtr logrus.Formatter
	switch strings.ToLower(cfg.Format) {
	case "json":
		fmtr = &logrus.JSONFormatter{TimestampFormat: timeLayout}
	case "text", "":
		fmtr = defaultTextFormatter()
	default:
		return fmt.Errorf("unsupported log format: %s (must be json or text)", cfg.Format)
	}

	out := NewMultiWriter().Add(os.Stderr)
	if cfg.Outputs.File.Enabled {
		if err := out.AddFileAppender(cfg.Outputs.File); err != nil {
			return fmt.Errorf("failed to create file output: %w", err)
		}
	}

	mu.Lock()
	prev := output
	logger = newLogger(level, out, fmtr)
	output = out
	mu.Unlock()

	if prev != nil {
		return prev.Close()
	}
	return nil
}

// GetLogger returns the global logger.
func GetLogger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// WithLayer returns an entry tagged with a protocol layer.
func WithLayer(layer string) *logrus.Entry {
	return GetLogger().WithField("layer", layer)
}

// Close flushes and closes file outputs opened by Init.
func Close() error {
	mu.Lock()
	out := output
	output = nil
	mu.Unlock()
	if out == nil {
		return nil
	}
	return out.Close()
}

func newLogger(level logrus.Level, out *MultiWriter, f logrus.Formatter) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetOutput(out)
	l.SetFormatter(f)
	return l
}

// parseLevel accepts the four configured levels, case-insensitively.
func parseLevel(levelStr string) (logrus.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return logrus.DebugLevel, nil
	case "info":
		return logrus.InfoLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("unknown level: %s", levelStr)
	}
}
