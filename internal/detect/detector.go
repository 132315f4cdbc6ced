package detect

import (
	"unicode/utf8"

	"charstream/internal/charset"
	"charstream/internal/stream"
)

// Result is the outcome of one detection pass over a sample.
type Result struct {
	Encoding   string       `json:"encoding"`
	Confidence float64      `json:"confidence"`
	BOMPresent bool         `json:"bom_present"`
	Newlines   stream.Style `json:"newlines"`
}

// Scoring policy. The weights mirror the confusion fixes the candidate
// scorer needs in practice: script hints separate the single-byte
// encodings that otherwise all decode any sample without error.
const (
	// minConfidence is the lowest score a candidate may win with before
	// detection falls back to the default encoding.
	minConfidence = 0.5

	// fallbackEncoding decodes every byte sequence, so detection never
	// fails outright.
	fallbackEncoding   = "windows-1252"
	fallbackConfidence = 0.3

	// selfValidatingBoost rewards UTF-8 when multi-byte sequences decode
	// cleanly; random non-UTF-8 data almost never validates.
	selfValidatingBoost = 0.5
)

// candidates is the scoring order. Earlier entries win ties, so the list
// runs from common and self-validating to permissive catch-alls.
var candidates = []string{
	"utf-8",
	"windows-1252",
	"windows-1256",
	"windows-1251",
	"windows-1250",
	"windows-1253",
	"windows-1254",
	"windows-1255",
	"x-mac-cyrillic",
	"koi8-r",
	"shift_jis",
	"euc-jp",
	"euc-kr",
	"gbk",
	"big5",
	"iso-8859-1",
}

// Detect inspects sample and returns the best-guess encoding, a confidence
// in [0,1], whether a byte-order mark was seen, and the dominant newline
// style. It never fails: arbitrary bytes at worst yield the fallback
// encoding with low confidence.
func Detect(sample []byte) Result {
	if len(sample) == 0 {
		return Result{Encoding: "utf-8", Confidence: 1.0, Newlines: stream.StyleLF}
	}

	if encoding, length, ok := DetectBOM(sample); ok {
		return Result{
			Encoding:   encoding,
			Confidence: 1.0,
			BOMPresent: true,
			Newlines:   newlinesFor(encoding, sample[length:]),
		}
	}

	// BOM-less UTF-16 ASCII text is all bytes < 0x80, so the null-pattern
	// check has to run before the ASCII fast path.
	if encoding, ok := detectUTF16Pattern(sample); ok {
		return Result{
			Encoding:   encoding,
			Confidence: 0.85,
			Newlines:   newlinesFor(encoding, sample),
		}
	}

	if isASCII(sample) {
		return Result{
			Encoding:   "utf-8",
			Confidence: 1.0,
			Newlines:   DetectNewlines(string(sample)),
		}
	}

	encoding, confidence := scoreCandidates(sample)
	return Result{
		Encoding:   encoding,
		Confidence: confidence,
		Newlines:   newlinesFor(encoding, sample),
	}
}

// isASCII reports whether sample is printable-range ASCII. NUL bytes
// disqualify a sample: text never contains them, but BOM-less UTF-16 is
// full of them and must not take the fast path.
func isASCII(sample []byte) bool {
	for _, b := range sample {
		if b >= utf8.RuneSelf || b == 0x00 {
			return false
		}
	}
	return true
}

// detectUTF16Pattern recognizes BOM-less UTF-16 by its null-byte
// distribution: mostly-ASCII UTF-16LE text has nulls at odd offsets,
// UTF-16BE at even offsets.
func detectUTF16Pattern(sample []byte) (string, bool) {
	if len(sample) < 20 {
		return "", false
	}
	window := sample
	if len(window) > 1000 {
		window = window[:1000]
	}

	var evenNulls, oddNulls int
	for i, b := range window {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			evenNulls++
		} else {
			oddNulls++
		}
	}

	threshold := len(window) / 16
	switch {
	case oddNulls > threshold && evenNulls < threshold/2:
		return "utf-16le", true
	case evenNulls > threshold && oddNulls < threshold/2:
		return "utf-16be", true
	}
	return "", false
}

// selfValidating marks candidates whose byte sequences carry structural
// constraints, so a zero-error decode is strong evidence on its own.
var selfValidating = map[string]bool{
	"utf-8":     true,
	"shift_jis": true,
	"euc-jp":    true,
	"euc-kr":    true,
	"gbk":       true,
	"big5":      true,
}

// scoreCandidates decodes the sample with every candidate encoding and
// ranks them. The base score is the fraction of runes decoded without
// substitution; script hints push apart the single-byte encodings that
// decode anything.
func scoreCandidates(sample []byte) (string, float64) {
	bytesHints := byteHints(sample)

	best := ""
	bestScore := -1.0

	for _, name := range candidates {
		codec, err := charset.Resolve(name)
		if err != nil {
			continue
		}
		decoded, err := codec.NewDecoder().Bytes(sample)
		if err != nil {
			continue
		}
		text := string(decoded)

		var runes, bad int
		for _, r := range text {
			runes++
			if r == utf8.RuneError {
				bad++
			}
		}
		if runes == 0 {
			continue
		}
		errorRatio := float64(bad) / float64(runes)
		score := 1.0 - errorRatio

		// Rune-level hints are gated on byte-level evidence where the
		// single-byte encodings mirror each other: Cyrillic bytes decoded
		// as windows-1256 look like Arabic runes and vice versa, so the
		// rune hint alone cannot be trusted.
		hints := languageHints(text)
		switch {
		case name == "utf-8":
			if bad == 0 {
				score += selfValidatingBoost
			}
		case name == "windows-1256":
			if hints.arabic && bytesHints.arabicBytes {
				score += 0.5
			}
			if hints.cyrillic {
				score -= 0.9
			}
		case name == "windows-1251":
			if hints.cyrillic && !bytesHints.arabicBytes {
				score += 0.5
			}
			if hints.arabic {
				score -= 0.5
			}
		case name == "x-mac-cyrillic":
			if hints.cyrillic && !bytesHints.arabicBytes {
				score += 0.2
			}
			if bytesHints.macCyrillic {
				score += 0.15
			}
		case name == "windows-1254":
			if hints.turkish {
				score += 0.4
			}
			if bytesHints.turkishBytes {
				score += 0.1
			}
		case name == "euc-kr":
			if hints.korean {
				score += 0.4
			}
		case name == "shift_jis" || name == "euc-jp":
			if hints.kana {
				score += 0.4
			}
			if hints.han {
				score += 0.3
			}
		case name == "gbk" || name == "big5":
			if hints.han {
				score += 0.3
			}
		}

		// A clean structure-validated decode that also earned a script
		// boost is decisive: random bytes almost never satisfy a
		// multi-byte encoding's sequence rules. Single-byte codepages
		// decode anything, so a clean decode there proves nothing and
		// must keep competing on score.
		if bad == 0 && score > 1.0 && selfValidating[name] {
			return name, clamp01(score)
		}

		if score > bestScore {
			bestScore = score
			best = name
		}
	}

	if best == "" || bestScore < minConfidence {
		return fallbackEncoding, fallbackConfidence
	}
	return best, clamp01(bestScore)
}

// newlinesFor reports the newline style of raw sample bytes, decoding them
// first so multi-byte encodings (UTF-16 CRLF pairs interleave null bytes)
// classify correctly.
func newlinesFor(encoding string, sample []byte) stream.Style {
	codec, err := charset.Resolve(encoding)
	if err != nil {
		return DetectNewlines(string(sample))
	}
	decoded, err := codec.NewDecoder().Bytes(sample)
	if err != nil {
		return DetectNewlines(string(sample))
	}
	return DetectNewlines(string(decoded))
}

// DetectNewlines reports the dominant line-terminator style of text. CRLF
// wins when styles are mixed; text without terminators defaults to LF.
func DetectNewlines(text string) stream.Style {
	var hasCRLF, hasLF, hasCR bool
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				hasCRLF = true
				i++
			} else {
				hasCR = true
			}
		case '\n':
			hasLF = true
		}
	}
	switch {
	case hasCRLF:
		return stream.StyleCRLF
	case hasLF:
		return stream.StyleLF
	case hasCR:
		return stream.StyleCR
	default:
		return stream.StyleLF
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
