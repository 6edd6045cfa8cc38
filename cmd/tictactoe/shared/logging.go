package shared

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger returns a logger writing to stderr at level
func SetupLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// SetupFileLogger logs to path, or nowhere when path is empty. The returned
// closer must be called on exit.
func SetupFileLogger(path string, level log.Level) (*log.Logger, io.Closer, error) {
	if path == "" {
		return log.NewWithOptions(io.Discard, log.Options{Level: level}), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
	}), f, nil
}
