// Package charset resolves encoding names to golang.org/x/text codecs.
//
// Names are canonicalized before lookup so the common alias spellings
// (cp1252, latin-1, shift-jis, windows-949) all reach the same codec.
// Resolution is pure table lookup with no I/O; unresolvable names yield
// ErrUnknownEncoding so callers can reject bad input before opening files.
package charset
