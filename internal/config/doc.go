// Package config loads, normalizes, and validates charstream configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. Always obtain settings through this
// package so downstream code receives sanitized paths, canonical encoding
// names, and clear validation errors.
package config
