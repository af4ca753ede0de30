// Package history keeps a SQLite ledger of sidecar conversions.
//
// Every processed clip produces one row: the input path and digest, the
// sidecar path, the outcome, and how many properties were written. The
// ledger is append-only; the CLI lists recent rows and the watcher consults
// it to avoid rewriting sidecars for unchanged inputs.
package history
