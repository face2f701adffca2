package rx

import "testing"

func TestCompilePatternLiteral(t *testing.T) {
	p, err := CompilePattern("hello", DefaultMaxStates)
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	if !p.Literal {
		t.Error("expected Literal=true for a pattern with no metacharacters")
	}
	if p.NFA != nil {
		t.Error("literal patterns should not compile an NFA")
	}
}

func TestCompilePatternRegex(t *testing.T) {
	p, err := CompilePattern("fo+bar", DefaultMaxStates)
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	if p.Literal {
		t.Error("expected Literal=false for a pattern with metacharacters")
	}
	if p.NFA == nil {
		t.Fatal("expected a compiled NFA")
	}
	if string(p.Prefix) != "fo" {
		t.Errorf("Prefix = %q, want %q", p.Prefix, "fo")
	}
	m, ok := p.Find([]byte("xx foobar xx"))
	if !ok || m.Start != 3 {
		t.Errorf("Find = %+v, %v", m, ok)
	}
}
