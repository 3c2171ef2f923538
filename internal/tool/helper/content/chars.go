package content

import "unicode/utf8"

// TruncateChars returns the first n characters of b decoded as UTF-8 and
// whether anything was cut off. Invalid bytes count as one character each
// and are kept verbatim.
func TruncateChars(b []byte, n int) (string, bool) {
	if n < 0 {
		n = 0
	}
	offset := 0
	for count := 0; offset < len(b); count++ {
		if count == n {
			return string(b[:offset]), true
		}
		_, size := utf8.DecodeRune(b[offset:])
		offset += size
	}
	return string(b), false
}
