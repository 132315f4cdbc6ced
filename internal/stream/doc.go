// Package stream implements the chunk-wise decode, newline-normalize, and
// encode stages of the conversion pipeline.
//
// Each stage owns explicit carry state so character sequences and CRLF pairs
// split across chunk boundaries are handled identically regardless of chunk
// size: the Decoder holds back an incomplete trailing multi-byte sequence,
// the Normalizer withholds a chunk-final bare CR until the next chunk
// classifies it, and the Encoder substitutes unrepresentable runes instead
// of aborting. Stages are single-session values; never share one across
// concurrent conversions.
package stream
