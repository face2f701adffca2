// Package fileread implements the file-ingestion policy of spec.md §4.6,
// §6: mmap for files at or below 128 MiB, 64 KiB buffered reads above that,
// and a streaming line reader for files too large to read comfortably into
// memory at all. Concurrent mmaps are bounded by a semaphore so a directory
// full of huge files cannot exhaust address space under a large worker
// count.
package fileread

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sync/semaphore"
)

// MmapThreshold is the largest file size read via mmap (spec.md §6).
const MmapThreshold = 128 * 1024 * 1024

// StreamThreshold is the size above which buffered whole-file reads give
// way to a streaming line reader, so a single enormous file cannot force
// an equally enormous read buffer.
const StreamThreshold = 1024 * 1024 * 1024

// BufferedChunkSize is the read size used for the buffered (non-mmap,
// non-streaming) path (spec.md §6: "otherwise 64 KiB buffered reads").
const BufferedChunkSize = 64 * 1024

// mmapSemaphore bounds how many files may be mmap'd at once across all
// workers (spec.md DOMAIN STACK: golang.org/x/sync/semaphore), so the walker
// does not mmap hundreds of large files simultaneously and exhaust virtual
// address space.
var mmapSemaphore = semaphore.NewWeighted(256)

// Content is the result of reading a file: either the full bytes (mmap or
// buffered path) or nil with Stream set (the streaming path). Close must be
// called exactly once to release any mmap region.
type Content struct {
	Bytes  []byte
	Stream *bufio.Reader

	mmapped     mmap.MMap
	file        *os.File
	releaseMmap func()
}

// Close releases the resources behind c. Safe to call on a zero Content.
func (c *Content) Close() error {
	var err error
	if c.mmapped != nil {
		err = c.mmapped.Unmap()
	}
	if c.file != nil {
		if cerr := c.file.Close(); err == nil {
			err = cerr
		}
	}
	if c.releaseMmap != nil {
		c.releaseMmap()
	}
	return err
}

// Read opens path and returns its content using the size-appropriate
// strategy. The caller must call Close on the result.
func Read(ctx context.Context, path string, size int64) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case size == 0:
		f.Close()
		return &Content{Bytes: nil}, nil
	case size <= MmapThreshold:
		return readMmap(ctx, f, size)
	case size <= StreamThreshold:
		return readBuffered(f)
	default:
		return &Content{Stream: bufio.NewReaderSize(f, BufferedChunkSize), file: f}, nil
	}
}

// readMmap holds the semaphore for the mapping's whole lifetime, not just
// the syscall that creates it: the slot is only released when the caller
// calls Close, once it is done scanning the mapped region.
func readMmap(ctx context.Context, f *os.File, size int64) (*Content, error) {
	if err := mmapSemaphore.Acquire(ctx, 1); err != nil {
		f.Close()
		return nil, err
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		mmapSemaphore.Release(1)
		f.Close()
		return nil, err
	}
	released := false
	release := func() {
		if !released {
			released = true
			mmapSemaphore.Release(1)
		}
	}
	return &Content{Bytes: []byte(m), mmapped: m, file: f, releaseMmap: release}, nil
}

func readBuffered(f *os.File) (*Content, error) {
	defer f.Close()
	buf := make([]byte, 0, BufferedChunkSize)
	r := bufio.NewReaderSize(f, BufferedChunkSize)
	for {
		chunk := make([]byte, BufferedChunkSize)
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return &Content{Bytes: buf}, nil
}

// LooksBinary reports whether window (the first read chunk of a file)
// contains a NUL byte, the spec's heuristic for skipping binary files
// (spec.md §7, "binary-file-likely").
func LooksBinary(window []byte) bool {
	for _, b := range window {
		if b == 0 {
			return true
		}
	}
	return false
}
