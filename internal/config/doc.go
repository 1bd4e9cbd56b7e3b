// Package config loads, normalizes, and validates podalign configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the PODALIGN_WORK_DIR environment fallback. Matching
// thresholds live here so the CLI and the planner build their matchers from
// one validated source.
package config
