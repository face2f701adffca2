// Package ignore implements gitignore-style path filtering (spec.md §4.4):
// parsing .gitignore lines into scoped patterns, glob matching restricted to
// each pattern's owning directory, and "last matching rule wins" resolution.
package ignore

import "strings"

// Pattern is one compiled line from a .gitignore file.
type Pattern struct {
	// Text is the pattern with any leading '!', leading '/', or trailing '/'
	// already stripped.
	Text string
	// Root is the directory containing the .gitignore this pattern came
	// from; matches are scoped to paths under Root.
	Root string
	// Negated is true for a leading '!' (re-include).
	Negated bool
	// Anchored is true for a leading '/' (match only at Root, not any
	// descendant directory).
	Anchored bool
	// DirectoryOnly is true for a trailing '/' (matches directories only).
	DirectoryOnly bool
	// ContainsSlash is true when Text has an interior '/'.
	ContainsSlash bool

	tokens []globToken
}

// Parse compiles one .gitignore line, tagging the result with root (the
// directory the source file lives in). Blank lines and '#' comments yield
// ok=false.
func Parse(line, root string) (p *Pattern, ok bool) {
	line = strings.TrimRight(line, "\r")
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return nil, false
	}

	negated := false
	if strings.HasPrefix(line, "!") {
		negated = true
		line = line[1:]
	}
	anchored := false
	if strings.HasPrefix(line, "/") {
		anchored = true
		line = line[1:]
	}
	directoryOnly := false
	if strings.HasSuffix(line, "/") {
		directoryOnly = true
		line = line[:len(line)-1]
	}
	if line == "" {
		return nil, false
	}

	pat := &Pattern{
		Text:          line,
		Root:          root,
		Negated:       negated,
		Anchored:      anchored,
		DirectoryOnly: directoryOnly,
		ContainsSlash: strings.Contains(line, "/"),
	}
	pat.tokens = compileGlob(line)
	return pat, true
}

// IsLiteral reports whether Text has no glob metacharacter, meaning it can
// participate in the Aho-Corasick fast-reject path (matcher.go).
func (p *Pattern) IsLiteral() bool {
	for i := 0; i < len(p.Text); i++ {
		switch p.Text[i] {
		case '*', '?', '[', '\\':
			return false
		}
	}
	return true
}

// matches implements spec.md §4.4's per-pattern rule:
//
//	(a) if directory_only and not is_dir, skip.
//	(b) rel = path - root; false if path is not under root.
//	(c) if anchored or contains_slash, glob-match rel; else match basename.
func (p *Pattern) matches(path string, isDir bool) bool {
	if p.DirectoryOnly && !isDir {
		return false
	}
	rel, ok := relativeTo(path, p.Root)
	if !ok {
		return false
	}
	if p.Anchored || p.ContainsSlash {
		return matchGlob(p.tokens, rel)
	}
	return matchGlob(p.tokens, basename(rel))
}

// relativeTo strips root from path, reporting ok=false if path does not lie
// under root.
func relativeTo(path, root string) (string, bool) {
	if root == "" || root == "." {
		return strings.TrimPrefix(path, "/"), true
	}
	if path == root {
		return "", true
	}
	prefix := root
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	return path[len(prefix):], true
}

func basename(rel string) string {
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		return rel[i+1:]
	}
	return rel
}
