package rx

// Pattern is a compiled search pattern: either a plain literal (no
// metacharacters, matched with a substring scan by the caller) or a
// compiled NFA, plus whatever literal prefix could be extracted from it for
// pre-filtering (spec.md §4.2, §4.3).
type Pattern struct {
	Raw       string
	Literal   bool
	NFA       *NFA
	Prefix    []byte
	simulator *Simulator
}

// CompilePattern builds a Pattern from raw. Literal patterns skip NFA
// compilation entirely; regex patterns are compiled with maxStates (pass
// DefaultMaxStates for the spec's default).
func CompilePattern(raw string, maxStates int) (*Pattern, error) {
	if IsLiteral(raw) {
		return &Pattern{Raw: raw, Literal: true}, nil
	}
	nfa, err := Compile(raw, maxStates)
	if err != nil {
		return nil, err
	}
	// The prefix is kept only when every match must start with it: an
	// unescaped '|' can make it one alternative among several, and a '*' or
	// '?' right after the literal run makes its last byte optional.
	prefix := ExtractLiteralPrefix(raw)
	inRun := true
	for i := 0; prefix != nil && i < len(raw); i++ {
		switch c := raw[i]; {
		case c == '\\':
			if i+1 < len(raw) && stopsLiteralPrefix(raw[i+1]) {
				inRun = false
			}
			i++
		case c == '|':
			prefix = nil
		case inRun && IsMetaByte(c):
			if c == '*' || c == '?' {
				prefix = nil
			}
			inRun = false
		}
	}
	return &Pattern{
		Raw:       raw,
		NFA:       nfa,
		Prefix:    prefix,
		simulator: NewSimulator(nfa),
	}, nil
}

// Find locates the leftmost match of p in input. Callers on the literal
// path should not use this: they get a faster, allocation-free substring
// scan from internal/simd directly.
func (p *Pattern) Find(input []byte) (Match, bool) {
	return p.simulator.Find(input)
}

// FindFrom is Find restricted to start positions >= from.
func (p *Pattern) FindFrom(input []byte, from int) (Match, bool) {
	return p.simulator.FindFrom(input, from)
}

// NewSimulator builds a fresh Simulator over p's NFA with its own scratch
// bitsets, independent of p.simulator. Callers that match concurrently from
// multiple goroutines must each hold their own Simulator rather than share
// p's (spec.md §5: "simulation uses per-call stack bitsets").
func (p *Pattern) NewSimulator() *Simulator {
	return NewSimulator(p.NFA)
}
