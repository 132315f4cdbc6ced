package detect

import "bytes"

// bomSignature pairs a byte-order mark with the encoding it announces.
// UTF-32 marks are checked before their UTF-16 prefixes.
type bomSignature struct {
	mark     []byte
	encoding string
}

// MaxBOMBytes is the length of the longest mark DetectBOM recognizes.
// Streaming callers need at least this many bytes before a missing mark
// can be ruled out.
const MaxBOMBytes = 4

var bomSignatures = []bomSignature{
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, "utf-32be"},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, "utf-32le"},
	{[]byte{0xEF, 0xBB, 0xBF}, "utf-8"},
	{[]byte{0xFF, 0xFE}, "utf-16le"},
	{[]byte{0xFE, 0xFF}, "utf-16be"},
}

// DetectBOM reports the encoding announced by a leading byte-order mark and
// the mark's length in bytes.
func DetectBOM(sample []byte) (encoding string, length int, ok bool) {
	for _, sig := range bomSignatures {
		if bytes.HasPrefix(sample, sig.mark) {
			return sig.encoding, len(sig.mark), true
		}
	}
	return "", 0, false
}
