// Package main hosts the clipmeta CLI entrypoint and command graph.
//
// The root command converts every clip metadata file in one directory into an
// XMP sidecar. Subcommands keep a directory converted as new clips arrive,
// list the conversion history, check directory access, and scaffold the
// configuration file. Configuration resolution, the run lock, and logging
// setup live in commandContext so each command only wires its own flow.
package main
