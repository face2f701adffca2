package rx

import "testing"

func TestSimulatorReuseAcrossCalls(t *testing.T) {
	nfa, err := Compile("foo", DefaultMaxStates)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	sim := NewSimulator(nfa)
	inputs := []string{"xxfooxx", "nomatch", "foofoo"}
	wantOK := []bool{true, false, true}
	for i, in := range inputs {
		_, ok := sim.Find([]byte(in))
		if ok != wantOK[i] {
			t.Errorf("Find(%q) ok = %v, want %v", in, ok, wantOK[i])
		}
	}
}

func TestSimulatorFindFrom(t *testing.T) {
	nfa, err := Compile("ab", DefaultMaxStates)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	sim := NewSimulator(nfa)
	input := []byte("ababab")
	m, ok := sim.FindFrom(input, 1)
	if !ok || m.Start != 2 {
		t.Errorf("FindFrom(_, 1) = %+v, %v; want start 2", m, ok)
	}
	if _, ok := sim.FindFrom(input, 6); ok {
		t.Error("FindFrom past end of input should not match")
	}
}

func TestFindEmptyPatternMatchesAtZero(t *testing.T) {
	nfa, err := Compile("a*", DefaultMaxStates)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m, ok := Find(nfa, []byte("bbb"))
	if !ok || m.Start != 0 || m.End != 0 {
		t.Errorf("got %+v, %v; want empty match at 0", m, ok)
	}
}

func TestFindLongestAtGivenStart(t *testing.T) {
	nfa, err := Compile("a+", DefaultMaxStates)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m, ok := Find(nfa, []byte("xaaaay"))
	if !ok || m.Start != 1 || m.End != 5 {
		t.Errorf("got %+v, %v; want greedy longest match {1 5}", m, ok)
	}
}
