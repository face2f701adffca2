// Package simd provides byte and substring search over a byte slice. The
// exported API mirrors bytes.IndexByte/bytes.Index but is tuned for the hot
// path of a line-oriented search engine: the haystack is scanned eight bytes
// at a time using a branchless word-at-a-time technique (SWAR) rather than a
// byte-by-byte loop, with only the final partial word scanned byte by byte.
//
// There is no cgo and no assembly here. A "lane width" is chosen once at
// package init time from the host's SIMD capability; CountNewlines folds
// that many bytes into each step of its outer loop. FindByte, FindNewline
// and the substring search always step one 8-byte word at a time, whatever
// the lane width.
package simd

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// LaneWidth is the number of bytes CountNewlines folds into a single step.
// 32 bytes when the host advertises AVX2 (matching the teacher's x86_64
// 32-byte vector width), 16 bytes otherwise (SSE2/NEON/portable).
var LaneWidth = func() int {
	if cpu.X86.HasAVX2 {
		return 32
	}
	return 16
}()

const wordSize = 8

// FindByte returns the index of the first occurrence of b in haystack, or -1.
func FindByte(haystack []byte, b byte) int {
	return findByteFrom(haystack, b, 0)
}

func findByteFrom(haystack []byte, b byte, from int) int {
	n := len(haystack)
	if from >= n {
		return -1
	}
	idx := from
	mask := uint64(b) * 0x0101010101010101

	for idx+wordSize <= n {
		chunk := binary.LittleEndian.Uint64(haystack[idx:])
		if pos, ok := firstZeroBytePos(chunk ^ mask); ok {
			return idx + pos
		}
		idx += wordSize
	}
	for ; idx < n; idx++ {
		if haystack[idx] == b {
			return idx
		}
	}
	return -1
}

// firstZeroBytePos implements the classic "Hacker's Delight" zero-byte
// detection formula: for a word in which a target byte has been XORed down
// to 0x00, returns the byte offset of the first such zero.
func firstZeroBytePos(v uint64) (int, bool) {
	const lo8 = 0x0101010101010101
	const hi8 = 0x8080808080808080
	hasZero := (v - lo8) &^ v & hi8
	if hasZero == 0 {
		return 0, false
	}
	return bits.TrailingZeros64(hasZero) / 8, true
}

// FindNewline returns the index of the first '\n' in haystack, or -1.
func FindNewline(haystack []byte) int {
	return FindByte(haystack, '\n')
}

// CountNewlines returns the number of '\n' bytes in haystack, processing
// LaneWidth-sized groups of 8-byte words per iteration (the portable
// equivalent of the teacher's per-chunk popcount).
func CountNewlines(haystack []byte) int {
	n := len(haystack)
	idx := 0
	count := 0
	mask := uint64('\n') * 0x0101010101010101
	lanesPerStep := LaneWidth / wordSize

	for idx+LaneWidth <= n {
		for l := 0; l < lanesPerStep; l++ {
			chunk := binary.LittleEndian.Uint64(haystack[idx+l*wordSize:])
			count += countMatchingBytes(chunk, mask)
		}
		idx += LaneWidth
	}
	for idx+wordSize <= n {
		chunk := binary.LittleEndian.Uint64(haystack[idx:])
		count += countMatchingBytes(chunk, mask)
		idx += wordSize
	}
	for ; idx < n; idx++ {
		if haystack[idx] == '\n' {
			count++
		}
	}
	return count
}

// countMatchingBytes returns how many of the 8 bytes in v equal the byte
// broadcast into mask.
func countMatchingBytes(v, mask uint64) int {
	const lo7 = 0x7f7f7f7f7f7f7f7f
	xor := v ^ mask
	// Exact per-byte zero test: no borrow crosses byte lanes, so a zero
	// byte never marks its neighbour.
	t := ((xor & lo7) + lo7) | xor | lo7
	return bits.OnesCount64(^t)
}
