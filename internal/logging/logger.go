package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // process-wide fallback for code without a context logger
var defaultLogger atomic.Pointer[log.Logger]

// Options configures a logger built by NewWithOptions.
type Options struct {
	// Writer receives log output. Nil means stderr.
	Writer io.Writer
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string
	// Prefix is printed before every message.
	Prefix string
	// Timestamps enables a time column, useful when output goes to a file.
	Timestamps bool
}

// New returns a stderr logger at the named level.
func New(level string) *log.Logger {
	return NewWithOptions(Options{Level: level})
}

// NewWithOptions builds a logger from opts.
func NewWithOptions(opts Options) *log.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamps,
	})
}

// ParseLevel maps a level name to a log.Level, case-insensitively.
// "warning" is accepted as an alias for warn.
func ParseLevel(level string) log.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := log.ParseLevel(name)
	if err != nil || name == "" {
		return log.InfoLevel
	}
	return lvl
}

// Default returns the process-wide logger, creating an info-level one on first use.
func Default() *log.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger. Nil is ignored.
func SetDefault(logger *log.Logger) {
	if logger != nil {
		defaultLogger.Store(logger)
	}
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
