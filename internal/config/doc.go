// Package config loads, normalizes, and validates scriptsync configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SCRIPTSYNC_OUTPUT_DIR
// environment fallback. The Config type holds every alignment, output, and
// timeline knob the CLI and batch runner need, plus per-language overrides
// for word joiners and script replacements.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
