package sloginit

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/mattn/go-isatty"

	"github.com/smazurov/sloginit/directive"
)

// ModuleKey is the attribute key naming a logger's module, which is the
// target matched by filter directives.
const ModuleKey = "module"

type sinkKind int

const (
	sinkStderr sinkKind = iota
	sinkFile
	sinkJournal
)

type sink struct {
	kind    sinkKind
	writer  io.Writer    // stderr and file sinks
	handler slog.Handler // journal sink, built eagerly so failures surface early
}

// Backend is a composed set of sinks plus a directive filter, installable as
// the process-wide default logger. Build one with NewBackend or Compose.
type Backend struct {
	json  bool
	state *filterState
	sinks []sink
	built slog.Handler
}

// Option configures a Backend under construction. Options validate eagerly:
// an unopenable file or a missing journal socket fails the NewBackend call,
// not the first log record.
type Option func(*Backend) error

// NewBackend composes a backend from the given options without installing
// it. A backend composed with no sink options writes to standard error. The
// filter defaults to info when no filter option is given.
func NewBackend(opts ...Option) (*Backend, error) {
	b := &Backend{state: newFilterState(directive.Directive{})}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	if len(b.sinks) == 0 {
		b.sinks = append(b.sinks, sink{kind: sinkStderr})
	}
	return b, nil
}

// WithStderr adds the standard error sink, colorized when stderr is a
// terminal.
func WithStderr() Option {
	return func(b *Backend) error {
		b.sinks = append(b.sinks, sink{kind: sinkStderr})
		return nil
	}
}

// WithFilter sets the directive applied to stderr and file sinks. Journal
// sinks are never filtered.
func WithFilter(d directive.Directive) Option {
	return func(b *Backend) error {
		b.state.cur.Store(compileFilter(d))
		return nil
	}
}

// WithFilterOr resolves the filter from the GO_LOG environment variable,
// falling back to def. An invalid def is a configuration error.
func WithFilterOr(def string) Option {
	return func(b *Backend) error {
		d, err := directive.Resolve(def)
		if err != nil {
			return newError(ErrCodeBadDirective, "cannot resolve filter directive", err)
		}
		b.state.cur.Store(compileFilter(d))
		return nil
	}
}

// WithFileSink adds an append-only file sink. The file is created if
// missing, never truncated, and reopened for every write. Output is never
// colorized.
func WithFileSink(path string) Option {
	return func(b *Backend) error {
		w, err := newAppendWriter(path)
		if err != nil {
			return newError(ErrCodeSinkUnavailable, "cannot open log file "+path, err)
		}
		b.sinks = append(b.sinks, sink{kind: sinkFile, writer: w})
		return nil
	}
}

// WithJournalSink adds a systemd journal sink carrying no directive filter.
// Fails when the host has no journal socket.
func WithJournalSink() Option {
	return func(b *Backend) error {
		h, err := NewJournalHandler(filepath.Base(os.Args[0]))
		if err != nil {
			return newError(ErrCodeSinkUnavailable, "journal unavailable", err)
		}
		b.sinks = append(b.sinks, sink{kind: sinkJournal, handler: h})
		return nil
	}
}

// WithJSON switches stderr and file sinks from the human-readable line
// format to slog's JSON output.
func WithJSON() Option {
	return func(b *Backend) error {
		b.json = true
		return nil
	}
}

// Handler returns the composed slog.Handler, building it on first use.
func (b *Backend) Handler() slog.Handler {
	if b.built != nil {
		return b.built
	}

	handlers := make([]slog.Handler, 0, len(b.sinks))
	for _, s := range b.sinks {
		switch s.kind {
		case sinkStderr:
			h := b.lineHandler(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
			handlers = append(handlers, newSharedFilterHandler(h, b.state))
		case sinkFile:
			handlers = append(handlers, newSharedFilterHandler(b.lineHandler(s.writer, false), b.state))
		case sinkJournal:
			handlers = append(handlers, s.handler)
		}
	}

	if len(handlers) == 1 {
		b.built = handlers[0]
	} else {
		b.built = NewMultiHandler(handlers...)
	}
	return b.built
}

func (b *Backend) lineHandler(w io.Writer, color bool) slog.Handler {
	if b.json {
		return slog.NewJSONHandler(w, passEverything)
	}
	return newConsoleHandler(w, color)
}

// SetFilter replaces the directive filter of a composed, possibly already
// installed, backend. Journal sinks are unaffected.
func (b *Backend) SetFilter(d directive.Directive) {
	b.state.cur.Store(compileFilter(d))
}

// installed is the process-wide slot guard. Write-once for the lifetime of
// the process.
var installed atomic.Bool

// Install registers the backend as the process-wide default logger. The
// slot is one-shot: once any backend is installed, every further Install
// fails with ErrCodeAlreadyInstalled and the first backend stays active.
func (b *Backend) Install() error {
	if !installed.CompareAndSwap(false, true) {
		return newError(ErrCodeAlreadyInstalled, "a logging backend is already installed", nil)
	}
	slog.SetDefault(slog.New(b.Handler()))
	return nil
}
