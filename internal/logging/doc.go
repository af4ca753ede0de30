// Package logging assembles the structured slog loggers used by clipmeta.
//
// Every run writes to its own log file under the configured log directory,
// formatted as human-readable console text or JSON. Records can be mirrored to
// stderr, and each one carries the run_id of the conversion that produced it.
// Old run logs are pruned by PruneRunLogs.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits the same field names (see the Field constants).
package logging
