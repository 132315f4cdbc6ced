package stream

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Decoder feeds raw byte chunks through a charset decoder, carrying any
// incomplete trailing multi-byte sequence across chunk boundaries. Invalid
// sequences are replaced with U+FFFD and counted; decoding never aborts on
// malformed input.
type Decoder struct {
	transformer  *encoding.Decoder
	pending      []byte
	src          []byte
	dst          []byte
	replacements int64
}

// NewDecoder wraps dec for chunk-wise use. chunkSize sizes the internal
// scratch buffers; it bounds per-call allocation, not correctness.
func NewDecoder(dec *encoding.Decoder, chunkSize int) *Decoder {
	if chunkSize <= 0 {
		chunkSize = 8 * 1024
	}
	return &Decoder{
		transformer: dec,
		dst:         make([]byte, chunkSize*int(utf8.UTFMax)),
	}
}

// Decode converts raw into UTF-8 text. Bytes held over from the previous
// call are prepended first. When last is false, a trailing sequence that
// needs more input is withheld and carried into the next call; when last is
// true everything is consumed and incomplete tails decode to U+FFFD.
func (d *Decoder) Decode(raw []byte, last bool) (string, error) {
	d.src = append(d.src[:0], d.pending...)
	d.src = append(d.src, raw...)
	d.pending = d.pending[:0]

	var out strings.Builder
	out.Grow(len(d.src))

	src := d.src
	for {
		nDst, nSrc, err := d.transformer.Transform(d.dst, src, last)
		out.Write(d.dst[:nDst])
		src = src[nSrc:]

		switch {
		case err == nil:
			if len(src) == 0 {
				text := out.String()
				d.replacements += int64(strings.Count(text, string(utf8.RuneError)))
				return text, nil
			}
		case errors.Is(err, transform.ErrShortDst):
			// dst drained above; go around again.
		case errors.Is(err, transform.ErrShortSrc):
			if last {
				return "", fmt.Errorf("decode chunk: %w", err)
			}
			d.pending = append(d.pending[:0], src...)
			text := out.String()
			d.replacements += int64(strings.Count(text, string(utf8.RuneError)))
			return text, nil
		default:
			return "", fmt.Errorf("decode chunk: %w", err)
		}
	}
}

// Pending returns the bytes withheld for the next chunk. Its length is
// always smaller than the longest byte sequence of the source encoding.
func (d *Decoder) Pending() []byte { return d.pending }

// Replacements reports how many invalid sequences were substituted with
// U+FFFD so far.
func (d *Decoder) Replacements() int64 { return d.replacements }
