// Package match implements the unified find-interface of spec.md §4.2: given
// a pattern, dispatch to a plain substring scan or a compiled regex, apply
// ASCII case folding, and filter candidates by word-boundary.
package match

import (
	"sync"

	"github.com/coregx/pgrep/internal/rx"
	"github.com/coregx/pgrep/internal/simd"
)

// Match is a half-open [Start, End) byte range into the haystack that was
// searched.
type Match struct {
	Start int
	End   int
}

// Matcher is built once per search and shared read-only across every
// worker: construction is the only place that allocates or compiles
// anything (spec.md §5, "Compiled regex / matcher: shared immutable"). The
// regex simulation state is not part of that shared, immutable surface —
// every goroutine calling FindFirst concurrently gets its own Simulator and
// lowercasing buffer out of scratchPool, the same per-goroutine-state
// discipline as the teacher's meta.SearchState pool.
type Matcher struct {
	raw          []byte
	literal      bool
	ignoreCase   bool
	wordBoundary bool
	literalLower []byte
	pattern      *rx.Pattern
	scratchPool  sync.Pool
}

// regexScratch is the per-goroutine mutable state a regex search needs: its
// own Simulator (bitsets swapped on every byte) and, for case-insensitive
// search, a reusable lowercasing buffer. Must never be shared between
// goroutines.
type regexScratch struct {
	sim      *rx.Simulator
	lowerBuf []byte
}

// New builds a Matcher for pattern. ignoreCase folds ASCII case on both the
// literal and regex paths; wordBoundary filters candidate matches to those
// bounded by non-word bytes or the haystack ends.
func New(pattern string, ignoreCase, wordBoundary bool) (*Matcher, error) {
	m := &Matcher{
		raw:          []byte(pattern),
		ignoreCase:   ignoreCase,
		wordBoundary: wordBoundary,
	}
	if rx.IsLiteral(pattern) {
		m.literal = true
		if ignoreCase {
			m.literalLower = toLowerASCII([]byte(pattern))
		}
		return m, nil
	}

	compileSrc := pattern
	if ignoreCase {
		compileSrc = string(toLowerASCII([]byte(pattern)))
	}
	p, err := rx.CompilePattern(compileSrc, rx.DefaultMaxStates)
	if err != nil {
		return nil, err
	}
	m.pattern = p
	m.scratchPool.New = func() any {
		return &regexScratch{sim: p.NewSimulator()}
	}
	return m, nil
}

// FindFirst returns the leftmost match in haystack, or ok=false.
func (m *Matcher) FindFirst(haystack []byte) (Match, bool) {
	if !m.wordBoundary {
		return m.findFrom(haystack, 0)
	}
	return m.findFirstWordBounded(haystack)
}

// findFirstWordBounded implements the retry contract of spec.md §4.2: a
// candidate that fails the word-boundary predicate is rejected and the next
// attempt starts at max(candidate.End, prevStart+1), guaranteeing progress
// even for a greedy .*SUFFIX pattern whose nominal start never advances.
func (m *Matcher) findFirstWordBounded(haystack []byte) (Match, bool) {
	from := 0
	prevStart := -1
	for from <= len(haystack) {
		cand, ok := m.findFrom(haystack, from)
		if !ok {
			return Match{}, false
		}
		if wordBoundaryOK(haystack, cand) {
			return cand, true
		}
		next := cand.End
		if prevStart+1 > next {
			next = prevStart + 1
		}
		prevStart = cand.Start
		from = next
	}
	return Match{}, false
}

func (m *Matcher) findFrom(haystack []byte, from int) (Match, bool) {
	if m.literal {
		return m.findLiteralFrom(haystack, from)
	}
	return m.findRegexFrom(haystack, from)
}

func (m *Matcher) findLiteralFrom(haystack []byte, from int) (Match, bool) {
	if m.ignoreCase {
		pos := findLiteralIgnoreCaseFrom(haystack, m.literalLower, from)
		if pos < 0 {
			return Match{}, false
		}
		return Match{Start: pos, End: pos + len(m.literalLower)}, true
	}
	pos := simd.FindSubstringFrom(haystack, m.raw, from)
	if pos < 0 {
		return Match{}, false
	}
	return Match{Start: pos, End: pos + len(m.raw)}, true
}

func (m *Matcher) findRegexFrom(haystack []byte, from int) (Match, bool) {
	sc := m.scratchPool.Get().(*regexScratch)
	defer m.scratchPool.Put(sc)

	hay := haystack
	if m.ignoreCase {
		if cap(sc.lowerBuf) < len(haystack) {
			sc.lowerBuf = make([]byte, len(haystack))
		}
		sc.lowerBuf = sc.lowerBuf[:len(haystack)]
		lowerInto(sc.lowerBuf, haystack)
		hay = sc.lowerBuf
	}
	if len(m.pattern.Prefix) > 0 {
		if simd.FindSubstringFrom(hay, m.pattern.Prefix, from) < 0 {
			return Match{}, false
		}
	}
	rm, ok := sc.sim.FindFrom(hay, from)
	if !ok {
		return Match{}, false
	}
	return Match{Start: rm.Start, End: rm.End}, true
}

func toLowerASCII(b []byte) []byte {
	out := make([]byte, len(b))
	lowerInto(out, b)
	return out
}

func lowerInto(dst, src []byte) {
	for i, c := range src {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		dst[i] = c
	}
}

func tolowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

// findLiteralIgnoreCaseFrom scans haystack for lowerNeedle starting at from,
// comparing byte-by-byte with an on-the-fly ASCII tolower rather than
// precomputing a lowercased copy of the whole haystack (spec.md §4.2).
func findLiteralIgnoreCaseFrom(haystack, lowerNeedle []byte, from int) int {
	n := len(lowerNeedle)
	if from < 0 {
		from = 0
	}
	if n == 0 {
		if from > len(haystack) {
			return -1
		}
		return from
	}
	max := len(haystack) - n
	for p := from; p <= max; p++ {
		match := true
		for i := 0; i < n; i++ {
			if tolowerByte(haystack[p+i]) != lowerNeedle[i] {
				match = false
				break
			}
		}
		if match {
			return p
		}
	}
	return -1
}
