// Package logging configures the engine's zerolog output: console for
// interactive use, an optional session log file, and an optional GELF
// stream to a Graylog endpoint.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// Config selects log sinks and verbosity.
type Config struct {
	Level       string
	Pretty      bool   // human console output instead of JSON
	LogsDir     string // empty disables the session file
	GelfAddress string // empty disables Graylog
}

// Setup builds the root logger. Sink failures degrade to the remaining
// sinks rather than failing startup; the returned cleanup closes any
// opened files.
func Setup(cfg Config) (zerolog.Logger, func(), error) {
	var writers []io.Writer
	var closers []io.Closer

	if cfg.Pretty {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		writers = append(writers, os.Stdout)
	}

	if cfg.LogsDir != "" {
		path := LogFilePath(cfg.LogsDir, "seatplan", time.Now())
		if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("creating logs dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
		}
		writers = append(writers, f)
		closers = append(closers, f)
	}

	if cfg.GelfAddress != "" {
		gw, err := gelf.NewWriter(cfg.GelfAddress)
		if err == nil {
			writers = append(writers, gw)
		}
		// A down Graylog endpoint is not a startup failure.
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().Timestamp().Logger()

	cleanup := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	return logger, cleanup, nil
}

// ParseLevel maps a config string to a zerolog level, defaulting to
// info for unrecognized values.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogFilePath builds a session log file path using OS-appropriate path
// separators.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", name, sessionStart.Format("20060102_150405")),
	)
}
