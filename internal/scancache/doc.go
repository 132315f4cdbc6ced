// Package scancache persists detection results between scan runs in a
// SQLite database. Entries are keyed by path and invalidated whenever the
// file's size or modification time changes.
package scancache
