package charset

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// ErrUnknownEncoding marks encoding names that cannot be resolved to a codec.
// Callers should reject such names before opening any files.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Codec pairs a canonical encoding name with its x/text implementation.
type Codec struct {
	Name     string
	Encoding encoding.Encoding
}

// NewDecoder returns a fresh decoder for the codec. Decoders carry internal
// state and must not be shared between streaming sessions.
func (c Codec) NewDecoder() *encoding.Decoder { return c.Encoding.NewDecoder() }

// NewEncoder returns a fresh encoder for the codec.
func (c Codec) NewEncoder() *encoding.Encoder { return c.Encoding.NewEncoder() }

// codecs maps canonical names to encodings. Canonical names follow the
// common lowercase hyphenated form ("windows-1252", "shift_jis").
var codecs = map[string]encoding.Encoding{
	"utf-8":          unicode.UTF8,
	"utf-8-bom":      unicode.UTF8BOM,
	"utf-16":         unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16le":       unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":       unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf-32le":       utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	"utf-32be":       utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"iso-8859-1":     charmap.ISO8859_1,
	"windows-1250":   charmap.Windows1250,
	"windows-1251":   charmap.Windows1251,
	"windows-1252":   charmap.Windows1252,
	"windows-1253":   charmap.Windows1253,
	"windows-1254":   charmap.Windows1254,
	"windows-1255":   charmap.Windows1255,
	"windows-1256":   charmap.Windows1256,
	"koi8-r":         charmap.KOI8R,
	"koi8-u":         charmap.KOI8U,
	"macintosh":      charmap.Macintosh,
	"x-mac-cyrillic": charmap.MacintoshCyrillic,
	"shift_jis":      japanese.ShiftJIS,
	"euc-jp":         japanese.EUCJP,
	"euc-kr":         korean.EUCKR,
	"gbk":            simplifiedchinese.GBK,
	"gb18030":        simplifiedchinese.GB18030,
	"big5":           traditionalchinese.Big5,
}

// aliases maps normalized spellings to canonical names. The normalized key
// is lowercase with underscores and spaces collapsed to hyphens.
var aliases = map[string]string{
	"utf8":          "utf-8",
	"ascii":         "utf-8",
	"us-ascii":      "utf-8",
	"utf16":         "utf-16",
	"utf16le":       "utf-16le",
	"utf-16-le":     "utf-16le",
	"utf16be":       "utf-16be",
	"utf-16-be":     "utf-16be",
	"utf32le":       "utf-32le",
	"utf-32-le":     "utf-32le",
	"utf32be":       "utf-32be",
	"utf-32-be":     "utf-32be",
	"latin-1":       "iso-8859-1",
	"latin1":        "iso-8859-1",
	"iso8859-1":     "iso-8859-1",
	"cp1250":        "windows-1250",
	"cp1251":        "windows-1251",
	"cp1252":        "windows-1252",
	"cp1253":        "windows-1253",
	"cp1254":        "windows-1254",
	"cp1255":        "windows-1255",
	"cp1256":        "windows-1256",
	"koi8r":         "koi8-r",
	"koi8u":         "koi8-u",
	"mac-roman":     "macintosh",
	"mac-cyrillic":  "x-mac-cyrillic",
	"shift-jis":     "shift_jis",
	"shiftjis":      "shift_jis",
	"sjis":          "shift_jis",
	"cp932":         "shift_jis",
	"eucjp":         "euc-jp",
	"euckr":         "euc-kr",
	"windows-949":   "euc-kr",
	"cp949":         "euc-kr",
	"gb2312":        "gbk",
	"gb-2312":       "gbk",
	"big-5":         "big5",
}

// Resolve maps an encoding name (canonical or alias, any case) to its codec.
// Returns ErrUnknownEncoding for names with no registered codec so callers
// can fail before touching the filesystem.
func Resolve(name string) (Codec, error) {
	canonical := Canonical(name)
	enc, ok := codecs[canonical]
	if !ok {
		return Codec{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return Codec{Name: canonical, Encoding: enc}, nil
}

// Canonical normalizes an encoding name to its canonical spelling. Unknown
// names are returned normalized but otherwise untouched.
func Canonical(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n != "shift_jis" {
		n = strings.ReplaceAll(n, "_", "-")
	}
	n = strings.ReplaceAll(n, " ", "-")
	if mapped, ok := aliases[n]; ok {
		return mapped
	}
	return n
}

// Names returns the canonical names of all registered codecs, for help text
// and validation messages. Order is unspecified.
func Names() []string {
	out := make([]string, 0, len(codecs))
	for name := range codecs {
		out = append(out, name)
	}
	return out
}
