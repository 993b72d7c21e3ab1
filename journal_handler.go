package sloginit

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

// JournalHandler is a slog.Handler that sends records to the systemd
// journal. It carries no directive filter: whatever reaches it is sent,
// relying on any filtering layered above it.
type JournalHandler struct {
	identifier string
	attrs      []slog.Attr
	groups     []string
}

// NewJournalHandler creates a journal handler tagged with the given syslog
// identifier. It fails when no journal socket is present on the host.
func NewJournalHandler(identifier string) (*JournalHandler, error) {
	if !journal.Enabled() {
		return nil, errors.New("systemd journal socket not present")
	}
	return &JournalHandler{identifier: identifier}, nil
}

// Enabled implements slog.Handler.
func (h *JournalHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
func (h *JournalHandler) Handle(_ context.Context, r slog.Record) error {
	fields := map[string]string{
		"SYSLOG_IDENTIFIER": h.identifier,
	}
	for _, a := range h.attrs {
		journalField(fields, h.groups, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		journalField(fields, h.groups, a)
		return true
	})

	return journal.Send(r.Message, levelPriority(r.Level), fields)
}

// WithAttrs implements slog.Handler.
func (h *JournalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	copy(merged[len(h.attrs):], attrs)

	return &JournalHandler{identifier: h.identifier, attrs: merged, groups: h.groups}
}

// WithGroup implements slog.Handler.
func (h *JournalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, len(h.groups)+1)
	copy(groups, h.groups)
	groups[len(h.groups)] = name

	return &JournalHandler{identifier: h.identifier, attrs: h.attrs, groups: groups}
}

// levelPriority maps slog levels to journal priorities.
func levelPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// journalField adds one attribute to the journal field map. Keys follow the
// journal convention: uppercase, group segments joined with underscores.
func journalField(fields map[string]string, groups []string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, "_") + "_" + key
	}
	key = strings.ToUpper(key)

	switch a.Value.Kind() {
	case slog.KindString:
		fields[key] = a.Value.String()
	case slog.KindInt64:
		fields[key] = strconv.FormatInt(a.Value.Int64(), 10)
	case slog.KindUint64:
		fields[key] = strconv.FormatUint(a.Value.Uint64(), 10)
	case slog.KindFloat64:
		fields[key] = strconv.FormatFloat(a.Value.Float64(), 'f', -1, 64)
	case slog.KindBool:
		fields[key] = strconv.FormatBool(a.Value.Bool())
	case slog.KindDuration:
		fields[key] = a.Value.Duration().String()
	case slog.KindTime:
		fields[key] = a.Value.Time().Format(time.RFC3339Nano)
	case slog.KindGroup:
		sub := append(append([]string{}, groups...), a.Key)
		for _, ga := range a.Value.Group() {
			journalField(fields, sub, ga)
		}
	default:
		fields[key] = a.Value.String()
	}
}
