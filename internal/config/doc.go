// Package config loads, normalizes, and validates trackmix configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TRACKMIX_DEV and TRACKMIX_TOOLS_DIR, optionally sourced from a .env file
// in the working directory. The Config type centralizes every knob the CLI
// and API server need, so tool locations, temp/state directories and mix
// behaviour are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
