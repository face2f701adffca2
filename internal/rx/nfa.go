// Package rx implements the regex engine described in spec.md §4.3: a
// hand-rolled recursive-descent parser over a small ASCII-oriented grammar,
// Thompson construction of an NFA, and simulation with a pair of fixed-size
// state bitsets. There are no capture groups, no DFA cache, and no
// Unicode-aware literal extraction — those are the teacher's (coregx/coregex)
// concerns for a general-purpose engine, not this one's.
package rx

import "github.com/coregx/pgrep/internal/bitset"

// StateID identifies an NFA state by its index in the NFA's state slice.
type StateID int32

// InvalidState marks an unset successor (an "out" slot nobody has patched
// yet, or one that a particular state kind simply doesn't use).
const InvalidState StateID = -1

// Kind is the tag of the sum type spec.md §3 describes: "any", "char(b)",
// "class(bitmap, negated)", "epsilon", "match". Every state is exactly one
// of these; match behavior must be exhaustive on the tag (spec.md §9).
type Kind uint8

const (
	KindAny Kind = iota
	KindChar
	KindClass
	KindEpsilon
	KindMatch
)

// State is one node of the NFA. Only the fields relevant to Kind are
// meaningful; out2 is InvalidState except on epsilon states used to express
// alternation/quantifier splits ("epsilon... propagates to both successors
// if present", spec.md §3).
type State struct {
	Kind     Kind
	Char     byte
	Class    *bitset.Set // 256-bit membership bitmap, only for KindClass
	Negated  bool
	Out1     StateID
	Out2     StateID
}

// NFA is an ordered, immutable sequence of states plus a designated start
// state. The builder that produced it refuses to grow States past the
// maxStates cap given to Compile (spec.md §3, §9).
type NFA struct {
	States []State
	Start  StateID
}

// DefaultMaxStates is the default fixed state-bitset capacity; callers pass
// it to Compile or CompilePattern to get the 256-state cap.
const DefaultMaxStates = 256
