// Package detect guesses the character encoding and newline style of a byte
// sample.
//
// Detection runs a fixed ladder: byte-order marks win outright, pure ASCII
// short-circuits to UTF-8, a null-byte distribution check catches BOM-less
// UTF-16, and everything else goes through candidate scoring where each
// supported encoding decodes the sample and is ranked by replacement ratio
// plus script-frequency hints. A windows-1252 fallback guarantees a result
// for arbitrary bytes. Detection is pure: the same sample always yields the
// same Result.
//
// The Sampler reads a bounded slice of a file for detection without loading
// the whole file, either as a plain prefix or as a head/middle/tail
// strategic sample for very large inputs.
package detect
