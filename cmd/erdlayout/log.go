package main

import (
	"os"

	"github.com/charmbracelet/log"
)

// newLogger creates a stderr logger with "HH:MM:SS.ms" timestamps
func newLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
