package sloginit

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/smazurov/sloginit/directive"
)

// compiledFilter is an immutable per-target level table built from one
// directive.
type compiledFilter struct {
	def     slog.Level
	targets []directive.Clause
	min     slog.Level
}

func compileFilter(d directive.Directive) *compiledFilter {
	cf := &compiledFilter{def: slog.LevelInfo}
	if level, ok := d.DefaultLevel(); ok {
		cf.def = level
	}
	for _, c := range d.Clauses() {
		if c.Target != "" {
			cf.targets = append(cf.targets, c)
		}
	}
	cf.min = cf.def
	for _, c := range cf.targets {
		if c.Level < cf.min {
			cf.min = c.Level
		}
	}
	return cf
}

// effective returns the level for a target. The longest matching clause
// wins; a clause matches its exact target and any dotted sub-path of it.
func (cf *compiledFilter) effective(target string) slog.Level {
	level := cf.def
	bestLen := -1
	for _, c := range cf.targets {
		if len(c.Target) <= bestLen {
			continue
		}
		if target == c.Target || strings.HasPrefix(target, c.Target+".") {
			level = c.Level
			bestLen = len(c.Target)
		}
	}
	return level
}

// filterState is shared between a Backend and every handler derived from it,
// so a filter change reaches loggers created before the change.
type filterState struct {
	cur atomic.Pointer[compiledFilter]
}

func newFilterState(d directive.Directive) *filterState {
	s := &filterState{}
	s.cur.Store(compileFilter(d))
	return s
}

// FilterHandler applies a directive to records before delegating to an inner
// handler. The target of a record is its "module" attribute, whether set on
// the logger via With or on the individual record.
type FilterHandler struct {
	inner  slog.Handler
	state  *filterState
	target string
}

// NewFilterHandler wraps inner with the given directive.
func NewFilterHandler(inner slog.Handler, d directive.Directive) *FilterHandler {
	return &FilterHandler{inner: inner, state: newFilterState(d)}
}

func newSharedFilterHandler(inner slog.Handler, state *filterState) *FilterHandler {
	return &FilterHandler{inner: inner, state: state}
}

// Enabled implements slog.Handler. It compares against the most verbose
// level any clause allows; the per-target decision happens in Handle.
func (h *FilterHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.state.cur.Load().min
}

// Handle implements slog.Handler.
func (h *FilterHandler) Handle(ctx context.Context, r slog.Record) error {
	target := h.target
	if target == "" {
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == ModuleKey {
				target = a.Value.String()
				return false
			}
			return true
		})
	}
	if r.Level < h.state.cur.Load().effective(target) {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler, capturing the module attribute as the
// filter target.
func (h *FilterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	target := h.target
	for _, a := range attrs {
		if a.Key == ModuleKey {
			target = a.Value.String()
		}
	}
	return &FilterHandler{inner: h.inner.WithAttrs(attrs), state: h.state, target: target}
}

// WithGroup implements slog.Handler.
func (h *FilterHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &FilterHandler{inner: h.inner.WithGroup(name), state: h.state, target: h.target}
}
