package fileread

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadSmallFileViaMmap(t *testing.T) {
	path := writeTemp(t, "small.txt", "hello world\n")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	c, err := Read(context.Background(), path, info.Size())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer c.Close()
	if string(c.Bytes) != "hello world\n" {
		t.Errorf("got %q", c.Bytes)
	}
}

func TestReadEmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.txt", "")
	c, err := Read(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer c.Close()
	if len(c.Bytes) != 0 {
		t.Errorf("expected empty content, got %d bytes", len(c.Bytes))
	}
}

func TestReadBufferedPath(t *testing.T) {
	content := strings.Repeat("x", 200*1024)
	path := writeTemp(t, "big.txt", content)
	c, err := Read(context.Background(), path, MmapThreshold+1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer c.Close()
	if len(c.Bytes) != len(content) {
		t.Errorf("got %d bytes, want %d", len(c.Bytes), len(content))
	}
}

func TestReadStreamingPath(t *testing.T) {
	path := writeTemp(t, "stream.txt", "line one\nline two\n")
	c, err := Read(context.Background(), path, StreamThreshold+1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer c.Close()
	if c.Stream == nil {
		t.Fatal("expected a streaming reader")
	}
	line, err := c.Stream.ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if line != "line one\n" {
		t.Errorf("got %q", line)
	}
}

func TestLooksBinary(t *testing.T) {
	if !LooksBinary([]byte("abc\x00def")) {
		t.Error("expected NUL byte to be detected as binary")
	}
	if LooksBinary([]byte("plain text")) {
		t.Error("plain text should not look binary")
	}
}
