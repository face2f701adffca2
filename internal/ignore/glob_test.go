package ignore

import "testing"

func TestMatchGlobLiteral(t *testing.T) {
	toks := compileGlob("debug.log")
	if !matchGlob(toks, "debug.log") {
		t.Error("expected exact literal match")
	}
	if matchGlob(toks, "debug.log.bak") {
		t.Error("literal should not match with extra suffix")
	}
}

func TestMatchGlobStar(t *testing.T) {
	toks := compileGlob("*.log")
	for _, name := range []string{"debug.log", "a.log", ".log"} {
		if !matchGlob(toks, name) {
			t.Errorf("expected %q to match *.log", name)
		}
	}
	if matchGlob(toks, "logs/debug.log") {
		t.Error("* must not cross '/'")
	}
}

func TestMatchGlobQuestion(t *testing.T) {
	toks := compileGlob("file?.txt")
	if !matchGlob(toks, "file1.txt") {
		t.Error("expected match")
	}
	if matchGlob(toks, "file12.txt") {
		t.Error("? matches exactly one byte")
	}
}

func TestMatchGlobClass(t *testing.T) {
	toks := compileGlob("file[0-9].txt")
	if !matchGlob(toks, "file5.txt") {
		t.Error("expected class match")
	}
	if matchGlob(toks, "filex.txt") {
		t.Error("expected no match outside class range")
	}
}

func TestMatchGlobNegatedClass(t *testing.T) {
	toks := compileGlob("file[!0-9].txt")
	if !matchGlob(toks, "filex.txt") {
		t.Error("expected negated class to match non-digit")
	}
	if matchGlob(toks, "file5.txt") {
		t.Error("expected negated class to reject digit")
	}
}

func TestMatchGlobDoubleStar(t *testing.T) {
	toks := compileGlob("a/**/b")
	for _, name := range []string{"a/b", "a/x/b", "a/x/y/b"} {
		if !matchGlob(toks, name) {
			t.Errorf("expected %q to match a/**/b", name)
		}
	}
	if matchGlob(toks, "a/x") {
		t.Error("expected no match")
	}
}

func TestMatchGlobStarStarNoSlash(t *testing.T) {
	toks := compileGlob("a/**")
	if !matchGlob(toks, "a/b/c/d") {
		t.Error("trailing ** should match everything inside")
	}
}

func TestMatchGlobEscapedByte(t *testing.T) {
	toks := compileGlob(`file\*.txt`)
	if !matchGlob(toks, "file*.txt") {
		t.Error("expected escaped literal star to match literally")
	}
	if matchGlob(toks, "fileX.txt") {
		t.Error("escaped star must not act as wildcard")
	}
}

func TestMatchGlobEmptyInput(t *testing.T) {
	toks := compileGlob("")
	if !matchGlob(toks, "") {
		t.Error("empty pattern should match empty input")
	}
	if matchGlob(toks, "x") {
		t.Error("empty pattern should not match non-empty input")
	}
}
