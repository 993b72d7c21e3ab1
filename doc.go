// Package sloginit initializes structured logging: it picks output sinks,
// applies a filter directive resolved from the environment, and installs the
// result as the process-wide slog default.
//
// # Overview
//
// Three destinations are supported, in any of the shapes Compose documents:
//   - Standard error, colorized when attached to a terminal
//   - An append-only file, never colorized, never truncated
//   - The systemd journal (Linux systems with journald)
//
// Verbosity comes from a filter directive such as "streams=debug,info",
// resolved by the directive package: the GO_LOG environment variable wins
// over the directive supplied in code.
//
// # Usage
//
// Initialize once at startup:
//
//	sloginit.MustInit([]sloginit.Output{sloginit.Stderr, sloginit.File("app.log")}, "info")
//
// or compose explicitly and keep errors recoverable:
//
//	b, err := sloginit.NewBackend(
//		sloginit.WithStderr(),
//		sloginit.WithJournalSink(),
//		sloginit.WithFilterOr(directive.PackageDirective("debug", "my-lib", "my-bin")),
//	)
//	if err != nil {
//		// e.g. retry without the journal sink
//	}
//	err = b.Install()
//
// Installation is one-shot: a second Install fails with
// ErrCodeAlreadyInstalled and leaves the first backend active.
//
// Get a logger for your module:
//
//	logger := sloginit.Logger("streams")
//	logger.Info("stream started", "id", id)
//
// The module name is the target matched by filter directives, so
// "streams=debug" raises verbosity for exactly these loggers.
//
// # Filter Directives
//
// A directive is a comma-separated list of "target=level" clauses plus an
// optional bare "level" default. Levels are trace, debug, info, warn and
// error. Targets match their exact module and any dotted sub-path, longest
// match wins:
//
//	GO_LOG=api=warn,api.auth=debug,info
//
// # Viewing journal logs
//
// When the journal sink is active:
//
//	journalctl -t <binary> -f
//	journalctl -t <binary> MODULE=streams
//
// Structured attributes become uppercased journal fields.
package sloginit
