package sloginit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/smazurov/sloginit/directive"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiGreen  = "\x1b[32m"
	ansiCyan   = "\x1b[36m"
	ansiGray   = "\x1b[90m"
)

// consoleHandler writes one human-readable line per record: timestamp,
// level, module, message, then sorted key=value attributes. Level coloring
// is used only when the writer is a terminal; file sinks never see ANSI
// codes.
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	color  bool
	attrs  []slog.Attr
	groups []string
}

func newConsoleHandler(w io.Writer, color bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, color: color}
}

// Enabled implements slog.Handler. Filtering is the FilterHandler's job.
func (h *consoleHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]string)
	module := ""

	for _, a := range h.attrs {
		h.collect(attrs, &module, h.groups, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.collect(attrs, &module, h.groups, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var sb strings.Builder
	sb.WriteString(ts.Format("2006-01-02T15:04:05.000Z07:00"))
	sb.WriteByte(' ')

	level := strings.ToUpper(levelString(r.Level))
	if h.color {
		sb.WriteString(levelColor(r.Level))
		sb.WriteString(level)
		sb.WriteString(ansiReset)
	} else {
		sb.WriteString(level)
	}

	if module != "" {
		sb.WriteString(" [")
		sb.WriteString(module)
		sb.WriteByte(']')
	}
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	if len(attrs) > 0 {
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteByte(' ')
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(attrs[k])
		}
	}
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

// collect flattens an attribute into the output map with dot-notation keys
// for groups. A top-level module attribute is routed to the line prefix
// instead.
func (h *consoleHandler) collect(attrs map[string]string, module *string, groups []string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	if len(groups) == 0 && a.Key == ModuleKey {
		*module = a.Value.String()
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		for _, ga := range a.Value.Group() {
			h.collect(attrs, module, append(groups, a.Key), ga)
		}
	case slog.KindTime:
		attrs[key] = a.Value.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		attrs[key] = a.Value.Duration().String()
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			attrs[key] = err.Error()
		} else {
			attrs[key] = fmt.Sprint(a.Value.Any())
		}
	default:
		attrs[key] = a.Value.String()
	}
}

// WithAttrs implements slog.Handler.
func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	copy(merged[len(h.attrs):], attrs)

	return &consoleHandler{mu: h.mu, w: h.w, color: h.color, attrs: merged, groups: h.groups}
}

// WithGroup implements slog.Handler.
func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, len(h.groups)+1)
	copy(groups, h.groups)
	groups[len(h.groups)] = name

	return &consoleHandler{mu: h.mu, w: h.w, color: h.color, attrs: h.attrs, groups: groups}
}

// levelString converts a slog.Level to its lowercase directive name.
func levelString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	case level >= slog.LevelDebug:
		return "debug"
	default:
		return "trace"
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiGreen
	case level >= slog.LevelDebug:
		return ansiCyan
	default:
		return ansiGray
	}
}

// minimum level passed to slog's own handlers so the directive filter is the
// only gate.
var passEverything = &slog.HandlerOptions{Level: directive.LevelTrace}
