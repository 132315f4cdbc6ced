package stream

import (
	"strings"
	"testing"
)

func normalizeInChunks(target Style, text string, chunkSize int) string {
	n := NewNormalizer(target)
	var out strings.Builder
	for start := 0; start < len(text); start += chunkSize {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}
		out.WriteString(n.Normalize(text[start:end], false))
	}
	out.WriteString(n.Normalize("", true))
	return out.String()
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"LF", StyleLF, false},
		{"lf", StyleLF, false},
		{" crlf ", StyleCRLF, false},
		{"CR", StyleCR, false},
		{"unix", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeMixedSources(t *testing.T) {
	tests := []struct {
		name   string
		target Style
		in     string
		want   string
	}{
		{"crlf to lf", StyleLF, "a\r\nb\r\nc", "a\nb\nc"},
		{"cr to lf", StyleLF, "a\rb\rc", "a\nb\nc"},
		{"mixed to lf", StyleLF, "a\r\nb\rc\nd", "a\nb\nc\nd"},
		{"lf to crlf", StyleCRLF, "a\nb\nc\n", "a\r\nb\r\nc\r\n"},
		{"crlf to crlf", StyleCRLF, "a\r\nb\r\n", "a\r\nb\r\n"},
		{"lf to cr", StyleCR, "a\nb\n", "a\rb\r"},
		{"consecutive terminators", StyleLF, "a\r\n\r\n\rb", "a\n\n\nb"},
		{"no terminators", StyleLF, "plain text", "plain text"},
		{"trailing cr at eof", StyleLF, "line\r", "line\n"},
		{"empty", StyleLF, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, chunkSize := range []int{1, 2, 3, len(tt.in) + 1} {
				got := normalizeInChunks(tt.target, tt.in, chunkSize)
				if got != tt.want {
					t.Errorf("chunk size %d: got %q, want %q", chunkSize, got, tt.want)
				}
			}
		})
	}
}

func TestNormalizeCRLFSplitAcrossChunks(t *testing.T) {
	n := NewNormalizer(StyleLF)

	first := n.Normalize("line one\r", false)
	if first != "line one" {
		t.Errorf("first chunk = %q, want CR withheld", first)
	}
	if !n.PendingCR() {
		t.Error("PendingCR() = false after chunk-final CR")
	}

	second := n.Normalize("\nline two", false)
	if second != "\nline two" {
		t.Errorf("second chunk = %q, want single terminator then text", second)
	}
	if n.PendingCR() {
		t.Error("PendingCR() still set after resolution")
	}

	if tail := n.Normalize("", true); tail != "" {
		t.Errorf("final flush = %q, want empty", tail)
	}
}

func TestNormalizeLoneCRAcrossChunks(t *testing.T) {
	n := NewNormalizer(StyleCRLF)

	if got := n.Normalize("a\r", false); got != "a" {
		t.Errorf("first chunk = %q", got)
	}
	// Next chunk starts with an ordinary byte: the withheld CR was a lone
	// CR terminator.
	if got := n.Normalize("b", false); got != "\r\nb" {
		t.Errorf("second chunk = %q, want %q", got, "\r\nb")
	}
	if got := n.Normalize("", true); got != "" {
		t.Errorf("final flush = %q, want empty", got)
	}
}

func TestNormalizePendingCRFlushedAtEOF(t *testing.T) {
	n := NewNormalizer(StyleLF)
	if got := n.Normalize("end\r", false); got != "end" {
		t.Errorf("chunk = %q", got)
	}
	if got := n.Normalize("", true); got != "\n" {
		t.Errorf("final flush = %q, want %q", got, "\n")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := "a\r\nb\rc\nd\r"
	once := normalizeInChunks(StyleLF, in, 3)
	twice := normalizeInChunks(StyleLF, once, 3)
	if once != twice {
		t.Errorf("second pass changed output: %q vs %q", once, twice)
	}
}
