package rx

import "github.com/coregx/pgrep/internal/bitset"

// metaChars is the set of bytes that make a pattern a regex rather than a
// literal string (spec.md §3).
const metaChars = `.*+?[](){}|^$\`

// IsMetaByte reports whether b is one of the regex metacharacters.
func IsMetaByte(b byte) bool {
	for i := 0; i < len(metaChars); i++ {
		if metaChars[i] == b {
			return true
		}
	}
	return false
}

// IsLiteral reports whether pattern contains no metacharacter, i.e. it can
// be matched with a plain substring search instead of compiling an NFA.
func IsLiteral(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if IsMetaByte(pattern[i]) {
			return false
		}
	}
	return true
}

// parser implements the recursive-descent grammar of spec.md §4.3:
//
//	expr   := term ( '|' term )*
//	term   := atom quantifier?  (concatenation)
//	atom   := '.' | '[' class ']' | '(' expr ')' | '^' | '$' | '\' ch | LITERAL
//	quant  := '*' | '+' | '?'
//	class  := '^'? ( ch | ch '-' ch )+
type parser struct {
	pattern string
	pos     int
	b       *builder
}

func compilePattern(pattern string, maxStates int) (*NFA, error) {
	p := &parser{pattern: pattern, b: newBuilder(maxStates)}
	frag, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.pattern) {
		// Only reachable via a stray ')' with no matching '('.
		return nil, &CompileError{Pattern: pattern, Kind: UnmatchedParen, Pos: p.pos}
	}
	matchID, err := p.b.addMatch()
	if err != nil {
		return nil, withPattern(err, pattern)
	}
	p.b.patch(frag.out, matchID)
	return &NFA{States: p.b.states, Start: frag.start}, nil
}

func withPattern(err error, pattern string) error {
	if ce, ok := err.(*CompileError); ok && ce.Pattern == "" {
		ce.Pattern = pattern
		return ce
	}
	return err
}

func (p *parser) eof() bool { return p.pos >= len(p.pattern) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.pattern[p.pos]
}

func (p *parser) parseExpr() (fragment, error) {
	left, err := p.parseConcat()
	if err != nil {
		return fragment{}, err
	}
	for !p.eof() && p.peek() == '|' {
		p.pos++ // consume '|'
		if p.eof() || p.peek() == ')' {
			return fragment{}, &CompileError{Pattern: p.pattern, Kind: UnexpectedEnd, Pos: p.pos}
		}
		right, err := p.parseConcat()
		if err != nil {
			return fragment{}, err
		}
		splitID, err := p.b.addSplit(left.start)
		if err != nil {
			return fragment{}, withPattern(err, p.pattern)
		}
		p.b.states[splitID].Out2 = right.start
		out := make([]danglingOut, 0, len(left.out)+len(right.out))
		out = append(out, left.out...)
		out = append(out, right.out...)
		left = fragment{start: splitID, out: out}
	}
	return left, nil
}

func (p *parser) parseConcat() (fragment, error) {
	var result fragment
	have := false
	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		atomFrag, err := p.parseAtom()
		if err != nil {
			return fragment{}, err
		}
		atomFrag, err = p.applyQuantifier(atomFrag)
		if err != nil {
			return fragment{}, err
		}
		if !have {
			result = atomFrag
			have = true
		} else {
			result = concat(p.b, result, atomFrag)
		}
	}
	if !have {
		return p.emptyFragment()
	}
	return result, nil
}

// emptyFragment represents the empty regex (matches the empty string):
// a bare epsilon with a single dangling output.
func (p *parser) emptyFragment() (fragment, error) {
	f, err := p.b.addEpsilon()
	if err != nil {
		return fragment{}, withPattern(err, p.pattern)
	}
	return f, nil
}

func (p *parser) parseAtom() (fragment, error) {
	switch c := p.peek(); c {
	case '.':
		p.pos++
		f, err := p.b.addAny()
		return f, withPattern(err, p.pattern)
	case '[':
		p.pos++
		return p.parseClass()
	case '(':
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return fragment{}, err
		}
		if p.eof() || p.peek() != ')' {
			return fragment{}, &CompileError{Pattern: p.pattern, Kind: UnmatchedParen, Pos: p.pos}
		}
		p.pos++ // consume ')'
		return inner, nil
	case '^', '$':
		p.pos++
		// Accepted but compile to epsilon: a documented simplification,
		// see spec.md §9 — these never anchor the match.
		return p.emptyFragment()
	case '\\':
		p.pos++
		if p.eof() {
			return fragment{}, &CompileError{Pattern: p.pattern, Kind: TrailingBackslash, Pos: p.pos}
		}
		esc := p.pattern[p.pos]
		p.pos++
		f, err := p.b.addChar(mapEscape(esc))
		return f, withPattern(err, p.pattern)
	case ')':
		return fragment{}, &CompileError{Pattern: p.pattern, Kind: UnmatchedParen, Pos: p.pos}
	default:
		p.pos++
		f, err := p.b.addChar(c)
		return f, withPattern(err, p.pattern)
	}
}

// mapEscape implements the escape table of spec.md §4.3: \n \r \t map to
// control bytes, \s maps to a single space (a documented simplification,
// not a character class), and any other \x maps to the literal byte x —
// including the Unicode-class shortcuts \d \w \b and friends, which are
// Non-goals and therefore degrade to their literal letter.
func mapEscape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 's':
		return ' '
	default:
		return c
	}
}

// applyQuantifier consumes a trailing '*', '+', or '?' and rewires frag's
// Thompson fragment per spec.md §4.3. Absent a quantifier, frag is returned
// unchanged.
func (p *parser) applyQuantifier(frag fragment) (fragment, error) {
	if p.eof() {
		return frag, nil
	}
	switch p.peek() {
	case '*':
		p.pos++
		splitID, err := p.b.addSplit(frag.start)
		if err != nil {
			return fragment{}, withPattern(err, p.pattern)
		}
		p.b.patch(frag.out, splitID)
		return fragment{start: splitID, out: []danglingOut{{splitID, slotOut2}}}, nil
	case '+':
		p.pos++
		splitID, err := p.b.addSplit(frag.start)
		if err != nil {
			return fragment{}, withPattern(err, p.pattern)
		}
		p.b.patch(frag.out, splitID)
		return fragment{start: frag.start, out: []danglingOut{{splitID, slotOut2}}}, nil
	case '?':
		p.pos++
		splitID, err := p.b.addSplit(frag.start)
		if err != nil {
			return fragment{}, withPattern(err, p.pattern)
		}
		out := make([]danglingOut, 0, len(frag.out)+1)
		out = append(out, frag.out...)
		out = append(out, danglingOut{splitID, slotOut2})
		return fragment{start: splitID, out: out}, nil
	default:
		return frag, nil
	}
}

// parseClass parses `'^'? ( ch | ch '-' ch )+` up to the closing ']'.
func (p *parser) parseClass() (fragment, error) {
	negated := false
	if !p.eof() && p.peek() == '^' {
		negated = true
		p.pos++
	}

	set := bitset.New(256)
	sawMember := false
	for {
		if p.eof() {
			return fragment{}, &CompileError{Pattern: p.pattern, Kind: UnmatchedBracket, Pos: p.pos}
		}
		if p.peek() == ']' && sawMember {
			p.pos++
			break
		}
		lo := p.classByte()
		if !p.eof() && p.peek() == '-' {
			// Lookahead: '-' only introduces a range if followed by
			// another class member (not the closing ']').
			save := p.pos
			p.pos++
			if !p.eof() && p.peek() != ']' {
				hi := p.classByte()
				addRange(set, lo, hi)
				sawMember = true
				continue
			}
			p.pos = save
		}
		set.Insert(int(lo))
		sawMember = true
	}

	f, err := p.b.addClass(set, negated)
	return f, withPattern(err, p.pattern)
}

// classByte consumes one class member byte, honoring a leading backslash
// escape the same way the top-level grammar does.
func (p *parser) classByte() byte {
	c := p.pattern[p.pos]
	p.pos++
	if c == '\\' && !p.eof() {
		esc := p.pattern[p.pos]
		p.pos++
		return mapEscape(esc)
	}
	return c
}

func addRange(set *bitset.Set, lo, hi byte) {
	if hi < lo {
		lo, hi = hi, lo
	}
	for b := int(lo); b <= int(hi); b++ {
		set.Insert(b)
	}
}
