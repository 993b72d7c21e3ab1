package sloginit

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/smazurov/sloginit/directive"
)

func captureHandler(buf *bytes.Buffer) slog.Handler {
	return slog.NewTextHandler(buf, passEverything)
}

func TestFilterByTarget(t *testing.T) {
	d := directive.MustParse("streams=debug,api=error,info")

	tests := []struct {
		module  string
		level   slog.Level
		written bool
	}{
		{"streams", slog.LevelDebug, true},
		{"streams", directive.LevelTrace, false},
		{"api", slog.LevelInfo, false},
		{"api", slog.LevelWarn, false},
		{"api", slog.LevelError, true},
		{"other", slog.LevelDebug, false},
		{"other", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.module+"/"+tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewFilterHandler(captureHandler(&buf), d)).With(ModuleKey, tt.module)

			logger.Log(context.Background(), tt.level, "probe")

			if got := buf.Len() > 0; got != tt.written {
				t.Errorf("module %q at %v: written = %v, want %v (output %q)",
					tt.module, tt.level, got, tt.written, buf.String())
			}
		})
	}
}

func TestFilterPrefixMatch(t *testing.T) {
	d := directive.MustParse("app=error,app.server=debug,warn")

	tests := []struct {
		module  string
		level   slog.Level
		written bool
	}{
		// app.server is the longest match, regardless of clause order.
		{"app.server", slog.LevelDebug, true},
		{"app.server.http", slog.LevelDebug, true},
		// app matches its own sub-paths.
		{"app.client", slog.LevelWarn, false},
		{"app.client", slog.LevelError, true},
		// appendix is not a sub-path of app.
		{"appendix", slog.LevelWarn, true},
		{"appendix", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.module+"/"+tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewFilterHandler(captureHandler(&buf), d)).With(ModuleKey, tt.module)

			logger.Log(context.Background(), tt.level, "probe")

			if got := buf.Len() > 0; got != tt.written {
				t.Errorf("module %q at %v: written = %v, want %v", tt.module, tt.level, got, tt.written)
			}
		})
	}
}

func TestFilterTargetFromRecordAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewFilterHandler(captureHandler(&buf), directive.MustParse("db=error,info")))

	logger.Info("dropped", ModuleKey, "db")
	if buf.Len() != 0 {
		t.Errorf("record-level module attr ignored, output %q", buf.String())
	}

	logger.Error("written", ModuleKey, "db")
	if !strings.Contains(buf.String(), "written") {
		t.Errorf("error record for db missing, output %q", buf.String())
	}
}

func TestFilterDefaultWithoutBareClause(t *testing.T) {
	// No bare clause: unmatched modules default to info.
	var buf bytes.Buffer
	logger := slog.New(NewFilterHandler(captureHandler(&buf), directive.MustParse("app=debug"))).With(ModuleKey, "other")

	logger.Debug("dropped")
	if buf.Len() != 0 {
		t.Errorf("debug for unmatched module written, output %q", buf.String())
	}
	logger.Info("written")
	if buf.Len() == 0 {
		t.Error("info for unmatched module dropped")
	}
}

func TestFilterEnabledUsesMostVerboseClause(t *testing.T) {
	h := NewFilterHandler(captureHandler(&bytes.Buffer{}), directive.MustParse("app=debug,warn"))

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(debug) = false despite a debug clause")
	}
	if h.Enabled(context.Background(), directive.LevelTrace) {
		t.Error("Enabled(trace) = true with no trace clause")
	}
}

func TestFilterWithGroupKeepsTarget(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewFilterHandler(captureHandler(&buf), directive.MustParse("req=debug"))).
		With(ModuleKey, "req").WithGroup("http")

	logger.Debug("written", "status", 200)
	if !strings.Contains(buf.String(), "written") {
		t.Errorf("grouped logger lost its filter target, output %q", buf.String())
	}
}
