// Package config loads, normalizes, and validates clipmeta configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. Every field has a usable default, so a
// missing configuration file is not an error; an explicit file with unknown
// keys is.
package config
