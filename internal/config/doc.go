// Package config loads, normalizes, and validates dynastysync configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the DYNASTYSYNC_SIDECAR environment override. Every
// knob the CLI and the watch daemon need lives on Config so callers receive
// absolute paths and clear validation errors from one place.
package config
