// Package logging assembles structured slog loggers and formatting helpers used
// across scriptsync.
//
// It owns the configurable console/JSON handlers, the optional per-session log
// file, and context-aware helpers so workflow code can tag log lines with job
// IDs and stage names. The package also provides a no-op logger for tests and
// for library callers that do not want output.
//
// The alignment core never logs; only the workflow, batch, and CLI layers
// build loggers here.
package logging
