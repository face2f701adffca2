package walker

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coregx/pgrep/internal/config"
	"github.com/coregx/pgrep/internal/match"
	"github.com/coregx/pgrep/internal/output"
	"github.com/coregx/pgrep/internal/walklog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestWalkerFindsMatchesAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "hello world\nno match here\n")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "another hello line\n")

	m, err := match.New("hello", false, false)
	if err != nil {
		t.Fatalf("match.New: %v", err)
	}

	var buf bytes.Buffer
	sink := output.NewSink(&buf, config.OutputContent, false, false)

	cfg := config.Default()
	cfg.Paths = []string{root}
	cfg.Workers = 4

	w := New(cfg, m, nil, sink, walklog.Nop())
	matched, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !matched {
		t.Fatal("expected at least one match")
	}
	if sink.Total() != 2 {
		t.Errorf("Total() = %d, want 2", sink.Total())
	}
	out := buf.String()
	if !strings.Contains(out, "a.txt:1:hello world") {
		t.Errorf("missing expected line in output: %q", out)
	}
	if !strings.Contains(out, filepath.Join("sub", "b.txt")+":1:another hello line") {
		t.Errorf("missing expected line in output: %q", out)
	}
}

func TestWalkerNoMatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "nothing interesting\n")

	m, err := match.New("zzz", false, false)
	if err != nil {
		t.Fatalf("match.New: %v", err)
	}
	var buf bytes.Buffer
	sink := output.NewSink(&buf, config.OutputContent, false, false)
	cfg := config.Default()
	cfg.Paths = []string{root}
	cfg.Workers = 2

	w := New(cfg, m, nil, sink, walklog.Nop())
	matched, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if matched {
		t.Error("expected no matches")
	}
}

func TestWalkerSkipsHiddenByDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".hidden.txt"), "hello\n")

	m, err := match.New("hello", false, false)
	if err != nil {
		t.Fatalf("match.New: %v", err)
	}
	var buf bytes.Buffer
	sink := output.NewSink(&buf, config.OutputContent, false, false)
	cfg := config.Default()
	cfg.Paths = []string{root}
	cfg.Workers = 2

	w := New(cfg, m, nil, sink, walklog.Nop())
	matched, _ := w.Run(context.Background())
	if matched {
		t.Error("hidden file should be skipped by default")
	}
}

func TestWalkerGlobFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "hello\n")
	writeFile(t, filepath.Join(root, "a.txt"), "hello\n")

	m, err := match.New("hello", false, false)
	if err != nil {
		t.Fatalf("match.New: %v", err)
	}
	var buf bytes.Buffer
	sink := output.NewSink(&buf, config.OutputContent, false, false)
	cfg := config.Default()
	cfg.Paths = []string{root}
	cfg.Workers = 2
	cfg.Globs = []config.GlobFilter{{Glob: "*.go"}}

	w := New(cfg, m, nil, sink, walklog.Nop())
	w.Run(context.Background())
	out := buf.String()
	if !strings.Contains(out, "a.go") {
		t.Errorf("expected a.go to be searched: %q", out)
	}
	if strings.Contains(out, "a.txt") {
		t.Errorf("expected a.txt to be filtered out: %q", out)
	}
}

func TestWalkerFilesWithMatchesMode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "hello\nhello\nhello\n")

	m, err := match.New("hello", false, false)
	if err != nil {
		t.Fatalf("match.New: %v", err)
	}
	var buf bytes.Buffer
	sink := output.NewSink(&buf, config.OutputFilesOnly, false, false)
	cfg := config.Default()
	cfg.Paths = []string{root}
	cfg.Workers = 1
	cfg.Output = config.OutputFilesOnly

	w := New(cfg, m, nil, sink, walklog.Nop())
	w.Run(context.Background())
	if got, want := buf.String(), filepath.Join(root, "a.txt")+"\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
