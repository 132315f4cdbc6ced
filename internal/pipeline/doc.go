// Package pipeline wires sampling, detection, and the streaming
// decode/normalize/encode stages into the detect, convert, and normalize
// operations.
//
// Each call builds a private session: one decoder, one optional newline
// normalizer, one encoder, and a fixed-size read buffer, so memory stays
// bounded by the chunk size no matter how large the input file is. File
// rewrites go through a hidden temp sibling and commit with a single atomic
// rename; any failure removes the temp file and leaves the destination
// exactly as it was.
package pipeline
