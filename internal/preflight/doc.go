// Package preflight provides readiness checks for the filesystem paths
// clipmeta depends on.
//
// The CLI runs RunAll before a conversion or watch starts. A failing input
// directory check stops the run before any clip is touched; state and log
// directory failures are reported so the operator can fix them, since the
// lock file and run logs live there.
package preflight
