package stream

import (
	"fmt"
	"strings"
)

// Style names a line-terminator convention.
type Style string

const (
	StyleLF   Style = "LF"
	StyleCRLF Style = "CRLF"
	StyleCR   Style = "CR"
)

// ParseStyle validates a user-supplied newline style name.
func ParseStyle(name string) (Style, error) {
	switch Style(strings.ToUpper(strings.TrimSpace(name))) {
	case StyleLF:
		return StyleLF, nil
	case StyleCRLF:
		return StyleCRLF, nil
	case StyleCR:
		return StyleCR, nil
	default:
		return "", fmt.Errorf("invalid newline style %q (want LF, CRLF, or CR)", name)
	}
}

// Terminator returns the byte sequence for the style.
func (s Style) Terminator() string {
	switch s {
	case StyleCRLF:
		return "\r\n"
	case StyleCR:
		return "\r"
	default:
		return "\n"
	}
}

// Normalizer rewrites line terminators in decoded text to one style. A
// chunk that ends in a bare CR cannot be classified (CRLF vs lone CR) until
// the next chunk's first byte is seen, so that CR is withheld and resolved
// on the following call. Exactly one target terminator is emitted per
// source terminator whatever the source mix.
type Normalizer struct {
	term      string
	pendingCR bool
}

// NewNormalizer returns a Normalizer targeting the given style.
func NewNormalizer(target Style) *Normalizer {
	return &Normalizer{term: target.Terminator()}
}

// Normalize rewrites terminators in text. Pass last=true on the final call
// so a withheld trailing CR is flushed as a lone-CR terminator.
func (n *Normalizer) Normalize(text string, last bool) string {
	if text == "" {
		if n.pendingCR && last {
			n.pendingCR = false
			return n.term
		}
		return ""
	}

	var out strings.Builder
	out.Grow(len(text) + len(n.term))

	if n.pendingCR {
		n.pendingCR = false
		out.WriteString(n.term)
		if text[0] == '\n' {
			// The withheld CR was the first half of a CRLF.
			text = text[1:]
		}
	}

	for len(text) > 0 {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			out.WriteString(text)
			break
		}
		out.WriteString(text[:i])
		switch text[i] {
		case '\n':
			out.WriteString(n.term)
			text = text[i+1:]
		case '\r':
			if i+1 < len(text) {
				out.WriteString(n.term)
				if text[i+1] == '\n' {
					text = text[i+2:]
				} else {
					text = text[i+1:]
				}
			} else if last {
				out.WriteString(n.term)
				text = ""
			} else {
				n.pendingCR = true
				text = ""
			}
		}
	}
	return out.String()
}

// PendingCR reports whether a trailing CR is being withheld for the next
// chunk.
func (n *Normalizer) PendingCR() bool { return n.pendingCR }
