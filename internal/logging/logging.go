// Package logging exposes the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// SetLevel sets the logger level. Trace, fatal and panic are not exposed.
func SetLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "info", "":
		Log.SetLevel(logrus.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	default:
		return fmt.Errorf("bad log level %q", level)
	}
	return nil
}

// ToFile redirects the logger to path. The returned closer restores stderr.
func ToFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	Log.SetOutput(f)
	Log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	return closerFunc(func() error {
		Log.SetOutput(os.Stderr)
		return f.Close()
	}), nil
}

// Discard silences the logger, for tests and stdout-bound commands.
func Discard() {
	Log.SetOutput(io.Discard)
}

type closerFunc func() error

func (fn closerFunc) Close() error { return fn() }
