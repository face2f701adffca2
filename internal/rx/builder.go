package rx

import "github.com/coregx/pgrep/internal/bitset"

// slot identifies which successor field of a state a patch should fill.
type slot int8

const (
	slotOut1 slot = 1
	slotOut2 slot = 2
)

// danglingOut is one unpatched successor: "out1 is not yet set" (or out2),
// per the Thompson fragment representation in spec.md §4.3.
type danglingOut struct {
	state StateID
	slot  slot
}

// fragment is a partially-built sub-expression: a start state plus the list
// of successor slots still awaiting a target.
type fragment struct {
	start StateID
	out   []danglingOut
}

// builder accumulates NFA states up to a fixed capacity, refusing to grow
// past it (spec.md §3 invariant: "the state count does not exceed the fixed
// bitset capacity").
type builder struct {
	states    []State
	maxStates int
}

func newBuilder(maxStates int) *builder {
	return &builder{states: make([]State, 0, 16), maxStates: maxStates}
}

func (b *builder) add(s State) (StateID, error) {
	if len(b.states) >= b.maxStates {
		return InvalidState, &CompileError{Kind: OutOfMemory}
	}
	id := StateID(len(b.states))
	b.states = append(b.states, s)
	return id, nil
}

func (b *builder) addAny() (fragment, error) {
	id, err := b.add(State{Kind: KindAny, Out1: InvalidState, Out2: InvalidState})
	if err != nil {
		return fragment{}, err
	}
	return fragment{start: id, out: []danglingOut{{id, slotOut1}}}, nil
}

func (b *builder) addChar(c byte) (fragment, error) {
	id, err := b.add(State{Kind: KindChar, Char: c, Out1: InvalidState, Out2: InvalidState})
	if err != nil {
		return fragment{}, err
	}
	return fragment{start: id, out: []danglingOut{{id, slotOut1}}}, nil
}

func (b *builder) addClass(class *bitset.Set, negated bool) (fragment, error) {
	id, err := b.add(State{Kind: KindClass, Class: class, Negated: negated, Out1: InvalidState, Out2: InvalidState})
	if err != nil {
		return fragment{}, err
	}
	return fragment{start: id, out: []danglingOut{{id, slotOut1}}}, nil
}

// addEpsilon adds a plain single-successor epsilon state, used for anchors
// (which are "accepted but compile to epsilon transitions", spec.md §4.3)
// and for gluing fragments together without consuming input.
func (b *builder) addEpsilon() (fragment, error) {
	id, err := b.add(State{Kind: KindEpsilon, Out1: InvalidState, Out2: InvalidState})
	if err != nil {
		return fragment{}, err
	}
	return fragment{start: id, out: []danglingOut{{id, slotOut1}}}, nil
}

// addSplit adds a two-way epsilon state with out1 wired to a known target
// and out2 left dangling; this is the split used by alternation and
// quantifiers.
func (b *builder) addSplit(out1Target StateID) (StateID, error) {
	return b.add(State{Kind: KindEpsilon, Out1: out1Target, Out2: InvalidState})
}

func (b *builder) addMatch() (StateID, error) {
	return b.add(State{Kind: KindMatch, Out1: InvalidState, Out2: InvalidState})
}

// patch points every dangling output in outs at target.
func (b *builder) patch(outs []danglingOut, target StateID) {
	for _, o := range outs {
		switch o.slot {
		case slotOut1:
			b.states[o.state].Out1 = target
		case slotOut2:
			b.states[o.state].Out2 = target
		}
	}
}

// concat patches left's dangling outputs to right's start and yields a
// fragment spanning both, with right's dangling outputs carried forward.
func concat(b *builder, left, right fragment) fragment {
	b.patch(left.out, right.start)
	return fragment{start: left.start, out: right.out}
}
