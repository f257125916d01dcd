package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"time-tracker-gateway/internal/config"
)

// DebugEnabled returns true if debug mode is enabled via TT_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TT_DEBUG") != ""
}

// New builds a logger from cfg. Output goes to stderr, and additionally to a
// size-rotated file when cfg.File is set. TT_DEBUG forces debug level.
func New(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(Writer(cfg, os.Stderr))
	logger.SetLevel(ParseLevel(cfg.Level))

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// Writer returns the sink a logger built from cfg writes to.
func Writer(cfg config.LoggingConfig, console io.Writer) io.Writer {
	if cfg.File == "" {
		return console
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	return io.MultiWriter(console, rotator)
}

// ParseLevel maps a level name onto a logrus level. Unknown names fall back to
// info.
func ParseLevel(name string) logrus.Level {
	if DebugEnabled() {
		return logrus.DebugLevel
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Discard returns a logger that drops everything, for tests and quiet CLI runs.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
