// Package logging builds the process logger: a clog console handler for CLI
// commands, a JSON file handler for the TUI, secrets masked in both.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

type Options struct {
	// Level is debug|info|warn|error.
	Level string
	// File receives JSON logs instead of the console when set.
	File string
	// Console is the console writer (stderr when nil).
	Console io.Writer
	// Quiet discards everything when no File is given. The TUI owns the
	// terminal, so it logs nowhere else.
	Quiet bool
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, goerr.New("invalid log level", goerr.V("level", s))
}

// redactor hides credentials wherever they appear in log attributes.
func redactor() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithFieldName("Token"),
		masq.WithFieldName("Authorization"),
		masq.WithContain("Bearer "),
	)
}

// redactHeader masks attributes whose key names a credential, then defers
// to masq for struct fields and string contents.
func redactHeader(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		switch strings.ToLower(a.Key) {
		case "token", "authorization", "password":
			if a.Value.String() != "" {
				return slog.String(a.Key, "[REDACTED]")
			}
		}
		return next(groups, a)
	}
}

// New returns the logger and a closer for any opened file.
func New(opts Options) (*slog.Logger, func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, func() {}, err
	}
	replace := redactHeader(redactor())

	if path := strings.TrimSpace(opts.File); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, func() {}, goerr.Wrap(err, "failed to open log file", goerr.V("path", path))
		}
		h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level, ReplaceAttr: replace})
		return slog.New(h), func() { _ = f.Close() }, nil
	}
	if opts.Quiet {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	w := opts.Console
	if w == nil {
		w = os.Stderr
	}
	h := clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithColor(isTerminal(w)),
		clog.WithReplaceAttr(replace),
	)
	return slog.New(h), func() {}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	st, err := f.Stat()
	if err != nil {
		return false
	}
	return st.Mode()&os.ModeCharDevice != 0
}

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.New(slog.DiscardHandler))
}

func Default() *slog.Logger { return defaultLogger.Load() }

func SetDefault(l *slog.Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

type ctxKey struct{}

func With(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger carried by ctx, or the default.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}
