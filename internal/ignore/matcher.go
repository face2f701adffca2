package ignore

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/coregx/ahocorasick"
)

// alwaysIgnored is the fixed, unconditional set of VCS metadata directories
// short-circuited before any pattern is consulted (spec.md §4.4).
var alwaysIgnored = map[string]bool{
	".git": true,
	".svn": true,
	".hg":  true,
}

// IsAlwaysIgnoredDir reports whether name is one of the fixed VCS
// directories that are skipped regardless of any gitignore pattern.
func IsAlwaysIgnoredDir(name string) bool {
	return alwaysIgnored[name]
}

// Matcher holds an ordered, immutable list of patterns plus an Aho-Corasick
// automaton over the subset with no glob metacharacters, used as a
// fast-reject pre-filter: if none of those literal strings occur anywhere
// in the candidate path, none of them can equal a basename or relative path
// exactly, and the per-pattern comparisons for that subset can be skipped
// entirely (spec.md §4.4, §5 "Ignore matcher: shared immutable").
type Matcher struct {
	patterns  []*Pattern
	literalAC *ahocorasick.Automaton
}

// NewMatcher builds an immutable Matcher from patterns, in the order they
// were read (later entries win ties, per "last matching rule wins").
func NewMatcher(patterns []*Pattern) (*Matcher, error) {
	m := &Matcher{patterns: patterns}

	builder := ahocorasick.NewBuilder()
	haveLiteral := false
	for _, p := range patterns {
		if p.IsLiteral() {
			builder.AddPattern([]byte(p.Text))
			haveLiteral = true
		}
	}
	if haveLiteral {
		auto, err := builder.Build()
		if err != nil {
			return nil, err
		}
		m.literalAC = auto
	}
	return m, nil
}

// IsIgnored reports whether path (rooted the same way the patterns' Root
// fields are) should be excluded from the walk. Directory names in
// IsAlwaysIgnoredDir short-circuit before any pattern runs.
func (m *Matcher) IsIgnored(path string, isDir bool) bool {
	if isDir && IsAlwaysIgnoredDir(basename(path)) {
		return true
	}

	literalPossible := m.literalAC != nil && m.literalAC.IsMatch([]byte(path))

	ignored := false
	for _, p := range m.patterns {
		if p.IsLiteral() && !literalPossible {
			continue
		}
		if p.matches(path, isDir) {
			ignored = !p.Negated
		}
	}
	return ignored
}

// LoadFile reads a .gitignore file and returns its compiled patterns tagged
// with root (the directory containing the file). A missing file is not an
// error: it simply yields no patterns.
func LoadFile(gitignorePath, root string) ([]*Pattern, error) {
	f, err := os.Open(gitignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var patterns []*Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if p, ok := Parse(scanner.Text(), root); ok {
			patterns = append(patterns, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

// CollectGitignores walks root recursively (always-ignored VCS directories
// excluded) collecting every .gitignore file it finds, in directory-walk
// order. This is the single-threaded pre-pass that lets the parallel walker
// treat the resulting Matcher as immutable (spec.md §5): by the time workers
// start, every gitignore rule in the tree is already known.
func CollectGitignores(root string) ([]*Pattern, error) {
	var all []*Pattern
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // swallowed: walk-time errors are non-fatal (spec.md §7)
		}
		if info.IsDir() {
			if path != root && IsAlwaysIgnoredDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != ".gitignore" {
			return nil
		}
		dir := filepath.Dir(path)
		pats, err := LoadFile(path, dir)
		if err != nil {
			return nil
		}
		all = append(all, pats...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}
