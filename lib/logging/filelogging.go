package logging

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ziflex/lecho/v3"
)

// Logger writes to STDOUT, or to a daily log file when logFilePath is set.
func Logger(logFilePath string, level string) *lecho.Logger {
	logger := lecho.New(
		os.Stdout,
		lecho.WithLevel(ParseLevel(level)),
		lecho.WithTimestamp(),
	)
	if logFilePath != "" {
		file, err := OpenLogFile(logFilePath, time.Now())
		if err != nil {
			logger.Errorf("failed to open log file, logging to stdout: %v", err)
			return logger
		}
		logger.SetOutput(file)
	}

	return logger
}

// OpenLogFile appends to path, suffixed with the day of now when path has no extension.
func OpenLogFile(path string, now time.Time) (*os.File, error) {
	if filepath.Ext(path) == "" {
		path = path + now.Format("-2006-01-02") + ".log"
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
}

func ParseLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
