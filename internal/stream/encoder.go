package stream

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// defaultSubstitute stands in for unrepresentable runes when the encoder's
// error does not supply an encoding-specific replacement byte.
const defaultSubstitute = byte('?')

// Encoder converts normalized UTF-8 text into the target encoding
// chunk-wise. Runes the target cannot represent are substituted and
// counted rather than aborting the stream.
type Encoder struct {
	transformer  *encoding.Encoder
	pending      []byte
	src          []byte
	dst          []byte
	replacements int64
}

// NewEncoder wraps enc for chunk-wise use.
func NewEncoder(enc *encoding.Encoder, chunkSize int) *Encoder {
	if chunkSize <= 0 {
		chunkSize = 8 * 1024
	}
	return &Encoder{
		transformer: enc,
		dst:         make([]byte, chunkSize*int(utf8.UTFMax)),
	}
}

// Encode converts text to the target encoding. Callers pass last=true on
// the final call (an empty final call is fine) so the encoder can flush any
// internal state.
func (e *Encoder) Encode(text string, last bool) ([]byte, error) {
	e.src = append(e.src[:0], e.pending...)
	e.src = append(e.src, text...)
	e.pending = e.pending[:0]

	out := make([]byte, 0, len(e.src))
	src := e.src
	for {
		nDst, nSrc, err := e.transformer.Transform(e.dst, src, last)
		out = append(out, e.dst[:nDst]...)
		src = src[nSrc:]

		switch {
		case err == nil:
			if len(src) == 0 {
				return out, nil
			}
		case errors.Is(err, transform.ErrShortDst):
			// dst drained above; go around again.
		case errors.Is(err, transform.ErrShortSrc):
			if last {
				return nil, fmt.Errorf("encode chunk: %w", err)
			}
			e.pending = append(e.pending[:0], src...)
			return out, nil
		default:
			// Unrepresentable rune (or a stray invalid UTF-8 byte from a
			// decoder substitution). Replace it, count it, move on.
			_, size := utf8.DecodeRune(src)
			if size == 0 {
				return out, nil
			}
			out = append(out, substituteFor(err))
			src = src[size:]
			e.replacements++
		}
	}
}

// Replacements reports how many runes were substituted because the target
// encoding cannot represent them.
func (e *Encoder) Replacements() int64 { return e.replacements }

func substituteFor(err error) byte {
	var rerr interface{ Replacement() byte }
	if errors.As(err, &rerr) {
		return rerr.Replacement()
	}
	return defaultSubstitute
}
