package ignore

import "github.com/coregx/pgrep/internal/bitset"

// globKind tags one compiled glob token (spec.md §4.4 "Glob semantics").
type globKind uint8

const (
	globLiteral globKind = iota
	globAny           // '?': any single non-'/' byte
	globStar          // '*': any run of non-'/' bytes, greedy with backtracking
	globStarStar      // '**' not followed by '/': any run including '/'
	globStarStarSlash // '**/' : zero or more whole path segments
	globClass         // '[...]'
)

type globToken struct {
	kind    globKind
	lit     byte
	class   *bitset.Set
	negated bool
}

// compileGlob tokenizes a gitignore glob pattern. '?' matches any byte but
// '/'; '*' matches a non-'/' run; '**' matches any run including '/';
// '**/' matches zero or more whole path segments; '[...]' is a
// character class with leading '!' negation and backslash escapes;
// backslash elsewhere escapes the next byte literally.
func compileGlob(pattern string) []globToken {
	var toks []globToken
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		switch c {
		case '\\':
			if i+1 < len(pattern) {
				toks = append(toks, globToken{kind: globLiteral, lit: pattern[i+1]})
				i += 2
			} else {
				toks = append(toks, globToken{kind: globLiteral, lit: '\\'})
				i++
			}
		case '?':
			toks = append(toks, globToken{kind: globAny})
			i++
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					toks = append(toks, globToken{kind: globStarStarSlash})
					i += 3
				} else {
					toks = append(toks, globToken{kind: globStarStar})
					i += 2
				}
			} else {
				toks = append(toks, globToken{kind: globStar})
				i++
			}
		case '[':
			tok, next := compileClass(pattern, i)
			toks = append(toks, tok)
			i = next
		default:
			toks = append(toks, globToken{kind: globLiteral, lit: c})
			i++
		}
	}
	return toks
}

// compileClass parses a '[...]' character class starting at pattern[start]
// (which must be '['), returning the compiled token and the index just past
// the closing ']'. An unterminated class degenerates to a literal '['.
func compileClass(pattern string, start int) (globToken, int) {
	i := start + 1
	negated := false
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		negated = true
		i++
	}
	set := bitset.New(256)
	sawMember := false
	first := i
	for i < len(pattern) {
		if pattern[i] == ']' && (sawMember || i > first) {
			return globToken{kind: globClass, class: set, negated: negated}, i + 1
		}
		lo, next := classByte(pattern, i)
		i = next
		if i+1 < len(pattern) && pattern[i] == '-' && pattern[i+1] != ']' {
			hi, next2 := classByte(pattern, i+1)
			addRange(set, lo, hi)
			i = next2
		} else {
			set.Insert(int(lo))
		}
		sawMember = true
	}
	// Unterminated: treat '[' as a literal and resume right after it.
	return globToken{kind: globLiteral, lit: '['}, start + 1
}

func classByte(pattern string, i int) (byte, int) {
	c := pattern[i]
	if c == '\\' && i+1 < len(pattern) {
		return pattern[i+1], i + 2
	}
	return c, i + 1
}

func addRange(set *bitset.Set, lo, hi byte) {
	if hi < lo {
		lo, hi = hi, lo
	}
	for b := int(lo); b <= int(hi); b++ {
		set.Insert(b)
	}
}

// matchGlob reports whether tokens match name in full. Empty input matches
// only an empty pattern (spec.md §4.4).
func matchGlob(tokens []globToken, name string) bool {
	if name == "" {
		return len(tokens) == 0
	}
	return matchFrom(tokens, 0, name, 0)
}

// MatchGlob compiles pattern and reports whether it matches name in full,
// using the same glob semantics as gitignore patterns (spec.md §4.4). This is
// the entry point used by the `-g` include/exclude filter, which shares this
// matcher instead of implementing a second one (SUPPLEMENTED FEATURES).
func MatchGlob(pattern, name string) bool {
	return matchGlob(compileGlob(pattern), name)
}

func matchFrom(tokens []globToken, ti int, name string, ni int) bool {
	for ti < len(tokens) {
		tok := tokens[ti]
		switch tok.kind {
		case globLiteral:
			if ni >= len(name) || name[ni] != tok.lit {
				return false
			}
			ti++
			ni++
		case globAny:
			if ni >= len(name) || name[ni] == '/' {
				return false
			}
			ti++
			ni++
		case globClass:
			if ni >= len(name) || name[ni] == '/' {
				return false
			}
			if tok.class.Contains(int(name[ni])) == tok.negated {
				return false
			}
			ti++
			ni++
		case globStar:
			end := ni
			for end < len(name) && name[end] != '/' {
				end++
			}
			for j := end; j >= ni; j-- {
				if matchFrom(tokens, ti+1, name, j) {
					return true
				}
			}
			return false
		case globStarStar:
			for j := len(name); j >= ni; j-- {
				if matchFrom(tokens, ti+1, name, j) {
					return true
				}
			}
			return false
		case globStarStarSlash:
			if matchFrom(tokens, ti+1, name, ni) {
				return true
			}
			for j := ni; j < len(name); j++ {
				if name[j] == '/' && matchFrom(tokens, ti+1, name, j+1) {
					return true
				}
			}
			return false
		}
	}
	return ni == len(name)
}
