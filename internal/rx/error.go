package rx

import "fmt"

// ErrorKind identifies the class of compilation failure, per spec.md §7.
type ErrorKind int

const (
	// UnexpectedEnd is returned when the pattern ends mid-construct, e.g.
	// an alternation with a trailing '|' and nothing after it.
	UnexpectedEnd ErrorKind = iota
	// UnmatchedParen is returned for a '(' with no matching ')', or a ')'
	// with no matching '('.
	UnmatchedParen
	// UnmatchedBracket is returned for a '[' with no matching ']'.
	UnmatchedBracket
	// TrailingBackslash is returned when the pattern ends with a lone '\'.
	TrailingBackslash
	// OutOfMemory is returned when compilation would exceed the NFA's
	// fixed state-bitset capacity (default 256, see spec.md §9).
	OutOfMemory
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedEnd:
		return "unexpected end of pattern"
	case UnmatchedParen:
		return "unmatched parenthesis"
	case UnmatchedBracket:
		return "unmatched bracket"
	case TrailingBackslash:
		return "trailing backslash"
	case OutOfMemory:
		return "pattern exceeds maximum NFA state capacity"
	default:
		return "unknown compile error"
	}
}

// CompileError is returned when a pattern fails to compile. It is always
// fatal: the caller aborts before any worker is spawned (spec.md §7).
type CompileError struct {
	Pattern string
	Kind    ErrorKind
	Pos     int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile regex %q at position %d: %s", e.Pattern, e.Pos, e.Kind)
}
