package content

// DefaultSampleSize is the number of leading bytes scanned for NUL bytes,
// the same heuristic git uses.
const DefaultSampleSize = 8000

// HasTextBOM reports whether b starts with a UTF-16 or UTF-32 byte order mark.
func HasTextBOM(b []byte) bool {
	if len(b) >= 4 {
		if (b[0] == 0xFF && b[1] == 0xFE && b[2] == 0x00 && b[3] == 0x00) ||
			(b[0] == 0x00 && b[1] == 0x00 && b[2] == 0xFE && b[3] == 0xFF) {
			return true
		}
	}
	if len(b) >= 2 {
		if (b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF) {
			return true
		}
	}
	return false
}

// IsBinaryContent reports whether the first sampleSize bytes of b contain a
// NUL byte. Content starting with a UTF-16/32 BOM is treated as text.
// A sampleSize <= 0 uses DefaultSampleSize.
func IsBinaryContent(b []byte, sampleSize int) bool {
	if HasTextBOM(b) {
		return false
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	for i := range min(len(b), sampleSize) {
		if b[i] == 0 {
			return true
		}
	}
	return false
}
