package log

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/natefinch/lumberjack.v2"

	"firestige.xyz/pktparse/internal/config"
)

// MultiWriter fans every write out to all appenders. A failing appender
// does not stop the others.
type MultiWriter struct {
	writers []io.Writer
	closers []io.Closer
}

func NewMultiWriter() *MultiWriter {
	return &MultiWriter{}
}

func (m *MultiWriter) Write(p []byte) (n int, err error) {
	for _, w := range m.writers {
		if _, e := w.Write(p); e != nil {
			err = e
		}
	}
	return len(p), err
}

// Add appends a writer that is owned by the caller.
func (m *MultiWriter) Add(writer io.Writer) *MultiWriter {
	m.writers = append(m.writers, writer)
	return m
}

// AddFileAppender appends a size-rotated log file.
func (m *MultiWriter) AddFileAppender(fc config.FileOutputConfig) error {
	if fc.Path == "" {
		return fmt.Errorf("file output requires 'path' field")
	}
	w := &lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    fc.Rotation.MaxSizeMB,  // megabytes
		MaxBackups: fc.Rotation.MaxBackups, // number of backups
		MaxAge:     fc.Rotation.MaxAgeDays, // days
		Compress:   fc.Rotation.Compress,
	}
	m.writers = append(m.writers, w)
	m.closers = append(m.closers, w)
	return nil
}

// Close closes the file appenders.
func (m *MultiWriter) Close() error {
	var errs []error
	for _, c := range m.closers {
		errs = append(errs, c.Close())
	}
	m.closers = nil
	return errors.Join(errs...)
}
