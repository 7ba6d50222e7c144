// Package history persists a ledger of alignment runs in SQLite.
//
// Each workflow run, successful or not, becomes one row keyed by a UUID job
// ID: the request's title and inputs, the outcome status, the error class on
// failure, alignment statistics, and the files written. The CLI reads the
// ledger for `scriptsync history list` and `history show`.
//
// The store opens the database in WAL mode with a busy timeout and retries
// SQLITE_BUSY writes with bounded backoff, so parallel batch workers can
// record concurrently.
package history
