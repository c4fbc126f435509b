package shared

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger returns a logger for commands that print to the terminal.
// Only warnings and errors are shown unless debug is set.
func SetupLogger(debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// SetupFileLogger opens path for appending and returns a logger writing to
// it. The caller closes the returned file.
func SetupFileLogger(path string, debug bool) (*log.Logger, io.Closer, error) {
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(logFile, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, logFile, nil
}
