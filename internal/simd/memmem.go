package simd

// FindSubstring returns the index of the first occurrence of needle in
// haystack, or -1. It is the vectorized substring search described in
// spec.md §4.1: needles of length 0 or 1 degenerate to the trivial cases,
// needles of length >= 2 use the two-byte fingerprint technique.
func FindSubstring(haystack, needle []byte) int {
	return FindSubstringFrom(haystack, needle, 0)
}

// FindSubstringFrom is FindSubstring starting the search at offset, with
// positions reported in the original haystack's coordinates.
func FindSubstringFrom(haystack, needle []byte, offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset > len(haystack) {
		return -1
	}
	h := haystack[offset:]

	switch len(needle) {
	case 0:
		return offset
	case 1:
		pos := findByteFrom(h, needle[0], 0)
		if pos < 0 {
			return -1
		}
		return offset + pos
	}

	if len(needle) > len(h) {
		return -1
	}

	pos := fingerprintSearch(h, needle)
	if pos < 0 {
		return -1
	}
	return offset + pos
}

// fingerprintSearch implements the two-byte fingerprint candidate search:
// the first and last byte of needle must both match at their relative
// offsets before the full needle is verified byte-by-byte. This rejects the
// overwhelming majority of false candidates with a single pair of
// comparisons, cutting full-needle verification by roughly a factor of 256
// versus scanning for the first byte alone.
func fingerprintSearch(haystack, needle []byte) int {
	first := needle[0]
	last := needle[len(needle)-1]
	lastOffset := len(needle) - 1
	maxStart := len(haystack) - len(needle)

	pos := 0
	for pos <= maxStart {
		candidate := findByteFrom(haystack[:maxStart+1], first, pos)
		if candidate < 0 {
			return -1
		}
		if haystack[candidate+lastOffset] == last && bytesEqual(haystack[candidate:candidate+len(needle)], needle) {
			return candidate
		}
		pos = candidate + 1
	}
	return -1
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
