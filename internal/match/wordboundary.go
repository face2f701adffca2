package match

// isWordByte reports whether b counts as a "word" byte for boundary
// purposes: ASCII alphanumeric, underscore, or any byte >= 0x80. UTF-8
// continuation and leading bytes are conservatively treated as word bytes —
// this keeps multi-byte scripts behaving correctly at the cost of not
// recognizing CJK punctuation as a boundary (spec.md §4.2, a documented
// limitation, not a bug).
func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_':
		return true
	case b >= 0x80:
		return true
	default:
		return false
	}
}

// isBoundary reports whether pos is a word boundary in haystack: the
// haystack ends, or the bytes straddling pos differ in word-ness.
func isBoundary(haystack []byte, pos int) bool {
	if pos <= 0 || pos >= len(haystack) {
		return true
	}
	return isWordByte(haystack[pos-1]) != isWordByte(haystack[pos])
}

// wordBoundaryOK reports whether both edges of m sit on a word boundary.
func wordBoundaryOK(haystack []byte, m Match) bool {
	return isBoundary(haystack, m.Start) && isBoundary(haystack, m.End)
}
