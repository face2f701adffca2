package rx

import "github.com/coregx/pgrep/internal/bitset"

// Match is a half-open [Start, End) byte range into the haystack that was
// searched (spec.md §3 MatchResult).
type Match struct {
	Start int
	End   int
}

// Compile parses pattern and compiles it to an NFA. maxStates bounds the
// number of states the NFA may use; a pattern that would exceed it fails to
// compile with OutOfMemory (spec.md §3, §9). Pass DefaultMaxStates for the
// spec's default cap of 256.
func Compile(pattern string, maxStates int) (*NFA, error) {
	return compilePattern(pattern, maxStates)
}

// epsilonClose adds id, and everything reachable from it through epsilon
// transitions, into set. hasMatch is set to true if a match state is
// reached. This is the "recursive traversal that sets every state reachable
// through epsilon edges" of spec.md §4.3.
func epsilonClose(nfa *NFA, set *bitset.Set, id StateID, hasMatch *bool) {
	if id == InvalidState || set.Contains(int(id)) {
		return
	}
	set.Insert(int(id))
	st := &nfa.States[id]
	switch st.Kind {
	case KindEpsilon:
		epsilonClose(nfa, set, st.Out1, hasMatch)
		epsilonClose(nfa, set, st.Out2, hasMatch)
	case KindMatch:
		*hasMatch = true
	}
}

// matchAt runs the bitset simulation anchored at position p and returns the
// length of the longest match starting there, or ok=false if none exists.
// No allocations occur in the per-byte loop: current/next are reused across
// calls via the sim scratch space.
func matchAt(nfa *NFA, input []byte, p int, s *simState) (length int, ok bool) {
	s.current.Clear()
	hasMatch := false
	epsilonClose(nfa, s.current, nfa.Start, &hasMatch)

	longest := -1
	if hasMatch {
		longest = 0
	}

	for i := p; i < len(input); i++ {
		if s.current.IsEmpty() {
			break
		}
		s.next.Clear()
		b := input[i]
		nextHasMatch := false
		s.current.Each(func(sid int) {
			st := &nfa.States[sid]
			switch st.Kind {
			case KindAny:
				if b != '\n' {
					epsilonClose(nfa, s.next, st.Out1, &nextHasMatch)
				}
			case KindChar:
				if b == st.Char {
					epsilonClose(nfa, s.next, st.Out1, &nextHasMatch)
				}
			case KindClass:
				if st.Class.Contains(int(b)) != st.Negated {
					epsilonClose(nfa, s.next, st.Out1, &nextHasMatch)
				}
			}
		})
		s.current, s.next = s.next, s.current
		if nextHasMatch {
			longest = i + 1 - p
		}
	}

	if longest < 0 {
		return 0, false
	}
	return longest, true
}

// simState holds the two fixed-size bitsets the simulation swaps between
// (spec.md §4.3: "named current and next"), sized once per NFA and reused
// across calls so the hot path performs no heap allocation.
type simState struct {
	current *bitset.Set
	next    *bitset.Set
}

func newSimState(nfa *NFA) *simState {
	n := len(nfa.States)
	return &simState{current: bitset.New(n), next: bitset.New(n)}
}

// Find returns the leftmost match in input, trying match_at at every start
// position in [0, len(input)] and returning the first successful result,
// which may be an empty match (spec.md §4.3 "find(input)").
func Find(nfa *NFA, input []byte) (Match, bool) {
	s := newSimState(nfa)
	return findWithState(nfa, input, s)
}

func findWithState(nfa *NFA, input []byte, s *simState) (Match, bool) {
	for p := 0; p <= len(input); p++ {
		if length, ok := matchAt(nfa, input, p, s); ok {
			return Match{Start: p, End: p + length}, true
		}
	}
	return Match{}, false
}

// Simulator bundles an NFA with its reusable scratch bitsets so repeated
// Find calls (e.g. once per line of a file) allocate nothing beyond the
// first call.
type Simulator struct {
	nfa   *NFA
	state *simState
}

// NewSimulator builds a Simulator for repeated matching against nfa.
func NewSimulator(nfa *NFA) *Simulator {
	return &Simulator{nfa: nfa, state: newSimState(nfa)}
}

// Find returns the leftmost match of sim's NFA in input, or ok=false.
func (sim *Simulator) Find(input []byte) (Match, bool) {
	return findWithState(sim.nfa, input, sim.state)
}

// FindFrom is Find restricted to start positions >= from, used by the
// word-boundary retry loop in the matcher (spec.md §4.2).
func (sim *Simulator) FindFrom(input []byte, from int) (Match, bool) {
	if from < 0 {
		from = 0
	}
	for p := from; p <= len(input); p++ {
		if length, ok := matchAt(sim.nfa, input, p, sim.state); ok {
			return Match{Start: p, End: p + length}, true
		}
	}
	return Match{}, false
}
