// Package directive parses and resolves filter directives: the string-shaped
// specification of which modules log at which severity.
//
// A directive is a comma-separated list of clauses. Each clause is either
// "target=level" or a bare "level" that sets the default severity:
//
//	info
//	streams=debug
//	streams=debug,api=warn,info
//
// Targets are dotted module paths; dashes are accepted and normalized to
// underscores. Levels are trace, debug, info, warn and error.
//
// The GO_LOG environment variable takes precedence over any directive
// supplied in code; see [Resolve].
package directive

import (
	"fmt"
	"log/slog"
	"strings"
)

// LevelTrace is one step more verbose than slog.LevelDebug, keeping slog's
// four-wide level spacing.
const LevelTrace = slog.LevelDebug - 4

// Clause is a single element of a directive. A Clause with an empty Target
// sets the default level for all modules.
type Clause struct {
	Target string
	Level  slog.Level
}

// Directive is a parsed, validated filter specification. The zero value is
// an empty directive that filters nothing in particular.
type Directive struct {
	clauses []Clause
	raw     string
}

// ParseError describes a directive string that does not conform to the
// grammar.
type ParseError struct {
	Input  string
	Clause string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Clause != "" {
		return fmt.Sprintf("invalid filter directive %q: clause %q: %s", e.Input, e.Clause, e.Reason)
	}
	return fmt.Sprintf("invalid filter directive %q: %s", e.Input, e.Reason)
}

// Parse validates s against the directive grammar.
func Parse(s string) (Directive, error) {
	if strings.TrimSpace(s) == "" {
		return Directive{}, &ParseError{Input: s, Reason: "empty directive"}
	}

	parts := strings.Split(s, ",")
	clauses := make([]Clause, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return Directive{}, &ParseError{Input: s, Reason: "empty clause"}
		}

		target, levelStr, hasTarget := strings.Cut(part, "=")
		if !hasTarget {
			level, err := ParseLevel(part)
			if err != nil {
				return Directive{}, &ParseError{Input: s, Clause: part, Reason: err.Error()}
			}
			clauses = append(clauses, Clause{Level: level})
			continue
		}

		target = strings.TrimSpace(target)
		if target == "" {
			return Directive{}, &ParseError{Input: s, Clause: part, Reason: "missing target"}
		}
		if !validTarget(target) {
			return Directive{}, &ParseError{Input: s, Clause: part, Reason: fmt.Sprintf("invalid target %q", target)}
		}
		level, err := ParseLevel(strings.TrimSpace(levelStr))
		if err != nil {
			return Directive{}, &ParseError{Input: s, Clause: part, Reason: err.Error()}
		}
		clauses = append(clauses, Clause{Target: normalizeTarget(target), Level: level})
	}

	return Directive{clauses: clauses, raw: s}, nil
}

// MustParse is Parse for directives known valid at compile time; it panics
// on error.
func MustParse(s string) Directive {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Clauses returns the parsed clauses in directive order.
func (d Directive) Clauses() []Clause {
	out := make([]Clause, len(d.clauses))
	copy(out, d.clauses)
	return out
}

// DefaultLevel returns the level of the last bare clause, if the directive
// has one.
func (d Directive) DefaultLevel() (slog.Level, bool) {
	var level slog.Level
	found := false
	for _, c := range d.clauses {
		if c.Target == "" {
			level = c.Level
			found = true
		}
	}
	return level, found
}

// String returns the original directive text.
func (d Directive) String() string {
	return d.raw
}

// ParseLevel converts a level name to its slog.Level. Accepted names are
// trace, debug, info, warn (or warning) and error, case-insensitive.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}

// validTarget reports whether s is a plausible module path: letters, digits,
// underscores, dashes and dots.
func validTarget(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}

// normalizeTarget applies the identifier convention used by build systems
// that substitute dashes in package names.
func normalizeTarget(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}
