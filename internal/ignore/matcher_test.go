package ignore

import "testing"

func mustParse(t *testing.T, line, root string) *Pattern {
	t.Helper()
	p, ok := Parse(line, root)
	if !ok {
		t.Fatalf("Parse(%q) returned ok=false", line)
	}
	return p
}

func TestScenarioNegationRescue(t *testing.T) {
	// spec.md §8 scenario 5.
	patterns := []*Pattern{
		mustParse(t, "*.log", "/repo"),
		mustParse(t, "!important.log", "/repo"),
	}
	m, err := NewMatcher(patterns)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if m.IsIgnored("/repo/important.log", false) {
		t.Error("important.log should be rescued by the negation")
	}
	if !m.IsIgnored("/repo/debug.log", false) {
		t.Error("debug.log should be ignored")
	}
}

func TestLastMatchWins(t *testing.T) {
	patterns := []*Pattern{
		mustParse(t, "build", "/repo"),
		mustParse(t, "!build", "/repo"),
		mustParse(t, "build", "/repo"),
	}
	m, err := NewMatcher(patterns)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if !m.IsIgnored("/repo/build", true) {
		t.Error("final rule should re-ignore build")
	}
}

func TestScopedToRoot(t *testing.T) {
	patterns := []*Pattern{
		mustParse(t, "*.tmp", "/repo/sub"),
	}
	m, err := NewMatcher(patterns)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if m.IsIgnored("/repo/other/file.tmp", false) {
		t.Error("pattern scoped to /repo/sub should not apply outside it")
	}
	if !m.IsIgnored("/repo/sub/file.tmp", false) {
		t.Error("pattern should apply under its own root")
	}
}

func TestAnchoredPattern(t *testing.T) {
	patterns := []*Pattern{
		mustParse(t, "/build", "/repo"),
	}
	m, err := NewMatcher(patterns)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if !m.IsIgnored("/repo/build", true) {
		t.Error("anchored pattern should match at root")
	}
	if m.IsIgnored("/repo/sub/build", true) {
		t.Error("anchored pattern should not match in a subdirectory")
	}
}

func TestDirectoryOnlyPattern(t *testing.T) {
	patterns := []*Pattern{
		mustParse(t, "logs/", "/repo"),
	}
	m, err := NewMatcher(patterns)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if m.IsIgnored("/repo/logs", false) {
		t.Error("directory-only pattern should not match a regular file")
	}
	if !m.IsIgnored("/repo/logs", true) {
		t.Error("directory-only pattern should match a directory")
	}
}

func TestAlwaysIgnoredVCSDirs(t *testing.T) {
	m, err := NewMatcher(nil)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if !m.IsIgnored("/repo/.git", true) {
		t.Error(".git should always be ignored")
	}
	if m.IsIgnored("/repo/.gitlab", true) {
		t.Error(".gitlab should not be caught by the fixed VCS-dir set")
	}
}

func TestCommentAndBlankLinesSkipped(t *testing.T) {
	if _, ok := Parse("", "/repo"); ok {
		t.Error("blank line should not parse")
	}
	if _, ok := Parse("# comment", "/repo"); ok {
		t.Error("comment line should not parse")
	}
	if _, ok := Parse("   ", "/repo"); ok {
		t.Error("whitespace-only line should not parse")
	}
}
