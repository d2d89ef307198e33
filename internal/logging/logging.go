// Package logging configures slog for the launcher.
//
// Records go to journald when stderr is a journal stream (the launcher runs
// under systemd) and to a text handler on stderr otherwise.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
	"golang.org/x/term"
)

// EnvLevel selects the log level: debug, info, warn or error.
const EnvLevel = "ESLAUNCH_LOG_LEVEL"

// ParseLevel maps a level name to a slog.Level. Unknown names yield warn,
// which keeps a normal launch quiet apart from warnings.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New builds the launcher's logger.
func New(levelName string, stderr *os.File) *slog.Logger {
	level := ParseLevel(levelName)
	if ok, _ := journal.StderrIsJournalStream(); ok && journal.Enabled() {
		return slog.New(NewJournalHandler(level))
	}
	return slog.New(NewTextHandler(stderr, level, term.IsTerminal(int(stderr.Fd()))))
}

// NewTextHandler returns a text handler. On a terminal the timestamp is
// dropped; the user is watching it happen.
func NewTextHandler(w io.Writer, level slog.Level, interactive bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if interactive {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
	}
	return slog.NewTextHandler(w, opts)
}
