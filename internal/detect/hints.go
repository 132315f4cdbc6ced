package detect

// scriptHints summarizes byte-level and rune-level evidence about the
// script a sample is written in. Byte hints come from the raw sample;
// rune hints from a candidate decoding of it.
type scriptHints struct {
	macCyrillic  bool
	arabicBytes  bool
	turkishBytes bool
}

// byteHints inspects the raw byte distribution of a sample for patterns
// that separate look-alike single-byte encodings. Mac Cyrillic text
// concentrates heavily in 0xE0-0xFF while Arabic spreads through
// 0xC0-0xE5; a few Turkish-specific bytes point at windows-1254.
func byteHints(sample []byte) scriptHints {
	var hints scriptHints
	if len(sample) == 0 {
		return hints
	}

	var high, lowerHigh, upperHigh, arabicRange, turkish int
	for _, b := range sample {
		if b >= 0x80 {
			high++
		}
		if b >= 0xC0 && b < 0xE0 {
			lowerHigh++
		}
		if b >= 0xE0 {
			upperHigh++
		}
		if b >= 0xC0 && b <= 0xE5 {
			arabicRange++
		}
		if b == 0xF0 || b == 0xFD || b == 0xFE {
			turkish++
		}
	}
	if high == 0 {
		return hints
	}

	total := float64(len(sample))
	lowerRatio := float64(lowerHigh) / total
	upperRatio := float64(upperHigh) / total
	arabicRatio := float64(arabicRange) / total

	if upperRatio > 0.55 && lowerRatio < 0.35 {
		hints.macCyrillic = true
	} else if arabicRatio > 0.35 && upperRatio < 0.65 {
		hints.arabicBytes = true
	}
	if turkish >= 2 {
		hints.turkishBytes = true
	}
	return hints
}

// runeHints classifies a decoded candidate text by the Unicode blocks its
// runes fall in.
type runeHints struct {
	arabic   bool
	cyrillic bool
	turkish  bool
	korean   bool
	han      bool
	kana     bool
}

func languageHints(text string) runeHints {
	var arabic, cyrillic, turkish, korean, han, kana, total int
	for _, r := range text {
		total++
		switch {
		case r >= 0x0600 && r <= 0x06FF,
			r >= 0xFB50 && r <= 0xFDFF,
			r >= 0xFE70 && r <= 0xFEFF:
			arabic++
		case r >= 0x0400 && r <= 0x052F:
			cyrillic++
		case r >= 0xAC00 && r <= 0xD7AF,
			r >= 0x1100 && r <= 0x11FF,
			r >= 0x3130 && r <= 0x318F:
			korean++
		case r >= 0x4E00 && r <= 0x9FFF:
			han++
		case r >= 0x3040 && r <= 0x30FF:
			kana++
		case r == 'ğ' || r == 'Ğ' || r == 'ı' || r == 'İ' || r == 'ş' || r == 'Ş':
			turkish++
		}
	}
	if total == 0 {
		return runeHints{}
	}

	ratio := func(n int) float64 { return float64(n) / float64(total) }
	return runeHints{
		arabic:   ratio(arabic) > 0.3,
		cyrillic: ratio(cyrillic) > 0.2 && ratio(arabic) < 0.1,
		turkish:  turkish >= 3,
		korean:   ratio(korean) > 0.2,
		han:      ratio(han) > 0.2,
		kana:     ratio(kana) > 0.05,
	}
}
