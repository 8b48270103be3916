// Package logging wraps zerolog with the daemon's file-destination setup.
// Call sites use the chained zerolog API directly (Debug().Str(...).Msg(...));
// this package only owns where events go and at what level.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	logger = zerolog.New(io.Discard).With().Timestamp().Logger()
	file   *os.File
)

// Init opens the daemon's log file under $HOME/.local/state/tilewm and
// points the package logger at it. level sets the minimum emitted level
// ("debug", "info", "warn", "error"); an unrecognized level defaults to info.
func Init(level string) error {
	mu.Lock()
	defer mu.Unlock()

	logDir := filepath.Join(os.Getenv("HOME"), ".local", "state", "tilewm")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, "tilewmd.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	file = f
	logger = zerolog.New(f).With().Timestamp().Logger().Level(parseLevel(level))
	return nil
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Close flushes and closes the log file, if one is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event { return logger.Debug() }

// Info starts an info-level event.
func Info() *zerolog.Event { return logger.Info() }

// Warn starts a warn-level event.
func Warn() *zerolog.Event { return logger.Warn() }

// Error starts an error-level event.
func Error() *zerolog.Event { return logger.Error() }
