// Package output implements the per-file buffering and rendering of
// spec.md §4.7: heading/flat formats, ANSI color, files-with-matches and
// count-only modes, and a serialized flush to a single sink.
package output

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"

	"github.com/coregx/pgrep/internal/config"
)

// Record is one rendered match: the line it was found on plus the matched
// byte range within Line, used to highlight the substring in color mode.
type Record struct {
	LineNumber int
	Line       []byte
	MatchStart int
	MatchEnd   int
}

// Sink serializes writes from every worker's per-file buffer into a single
// writer (spec.md §4.6: "flush to the sink under the sink's mutex, one lock
// per file regardless of match count").
type Sink struct {
	mu       sync.Mutex
	w        io.Writer
	mode     config.OutputMode
	useColor bool
	heading  bool

	total      atomic.Int64
	anyFlushed bool // guarded by mu; tracks whether a blank separator is due

	path   *color.Color
	lineNo *color.Color
	sep    *color.Color
	hit    *color.Color
}

// NewSink builds a Sink writing to w. useColor and heading are resolved once
// at construction — spec.md §4.7: "use_color ... derived once at sink
// construction from the color config and TTY detection".
func NewSink(w io.Writer, mode config.OutputMode, useColor, heading bool) *Sink {
	s := &Sink{w: w, mode: mode, useColor: useColor, heading: heading}
	s.path = color.New(color.FgMagenta)
	s.lineNo = color.New(color.FgGreen)
	s.sep = color.New(color.FgCyan)
	s.hit = color.New(color.FgRed, color.Bold)
	// fatih/color's NoColor defaults true whenever stdout isn't a recognized
	// terminal; --color=always must force color through a pipe, so this is
	// set unconditionally rather than only on the disable path.
	color.NoColor = !useColor
	return s
}

// Total returns the running count of matches across every file flushed so
// far.
func (s *Sink) Total() int64 {
	return s.total.Load()
}

// FileBuffer accumulates the rendered records for one file. Workers build
// one FileBuffer per file task and never share it; it is flushed to the Sink
// exactly once, on file completion.
type FileBuffer struct {
	sink       *Sink
	path       string
	records    []Record
	matchCount int
}

// NewFileBuffer starts buffering output for path.
func (s *Sink) NewFileBuffer(path string) *FileBuffer {
	return &FileBuffer{sink: s, path: path}
}

// Add appends one matched line. In count_only mode the line content itself
// is never retained, only the count (spec.md §4.7).
func (fb *FileBuffer) Add(r Record) {
	fb.matchCount++
	if fb.sink.mode == config.OutputCountOnly {
		return
	}
	fb.records = append(fb.records, r)
}

// HasMatch reports whether Add has been called at least once, used by
// files_with_matches mode to terminate a file task early after its first
// hit (spec.md §4.7).
func (fb *FileBuffer) HasMatch() bool {
	return fb.matchCount > 0
}

// Flush renders fb's buffered records and writes them to the sink under a
// single mutex acquisition, then adds fb's match count to the sink's global
// total. A FileBuffer with no matches writes nothing.
func (fb *FileBuffer) Flush() error {
	if fb.matchCount == 0 {
		return nil
	}
	fb.sink.total.Add(int64(fb.matchCount))

	var buf bytes.Buffer
	switch fb.sink.mode {
	case config.OutputCountOnly:
		fb.renderCount(&buf)
	case config.OutputFilesOnly:
		fb.renderFilesOnly(&buf)
	default:
		if fb.sink.heading {
			fb.renderHeading(&buf)
		} else {
			fb.renderFlat(&buf)
		}
	}

	fb.sink.mu.Lock()
	defer fb.sink.mu.Unlock()
	if fb.sink.heading && fb.sink.mode == config.OutputContent && fb.sink.anyFlushed {
		if _, err := fb.sink.sinkWriter().Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	fb.sink.anyFlushed = true
	_, err := fb.sink.sinkWriter().Write(buf.Bytes())
	return err
}

func (s *Sink) sinkWriter() io.Writer {
	return s.w
}

func (fb *FileBuffer) renderCount(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "%s:%d\n", fb.coloredPath(), fb.matchCount)
}

func (fb *FileBuffer) renderFilesOnly(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "%s\n", fb.coloredPath())
}

// renderHeading emits the path once, then "line:content" per record, with
// the matched substring highlighted (spec.md §4.7, §6 rendered-output
// grammar).
func (fb *FileBuffer) renderHeading(buf *bytes.Buffer) {
	buf.WriteString(fb.coloredPath())
	buf.WriteByte('\n')
	for _, r := range fb.records {
		fmt.Fprintf(buf, "%s%s%s\n", fb.coloredLineNo(r.LineNumber), fb.coloredSep(), fb.highlightedLine(r))
	}
}

// renderFlat emits "path:line:content" per record (spec.md §4.7).
func (fb *FileBuffer) renderFlat(buf *bytes.Buffer) {
	for _, r := range fb.records {
		fmt.Fprintf(buf, "%s%s%s%s%s\n", fb.coloredPath(), fb.coloredSep(), fb.coloredLineNo(r.LineNumber), fb.coloredSep(), fb.highlightedLine(r))
	}
}

func (fb *FileBuffer) coloredPath() string {
	return fb.sink.path.Sprint(fb.path)
}

func (fb *FileBuffer) coloredLineNo(n int) string {
	return fb.sink.lineNo.Sprintf("%d", n)
}

func (fb *FileBuffer) coloredSep() string {
	return fb.sink.sep.Sprint(":")
}

// highlightedLine renders r.Line with [MatchStart, MatchEnd) wrapped in the
// sink's "hit" color (bold red).
func (fb *FileBuffer) highlightedLine(r Record) string {
	if r.MatchStart < 0 || r.MatchEnd > len(r.Line) || r.MatchStart >= r.MatchEnd {
		return string(r.Line)
	}
	var b bytes.Buffer
	b.Write(r.Line[:r.MatchStart])
	b.WriteString(fb.sink.hit.Sprint(string(r.Line[r.MatchStart:r.MatchEnd])))
	b.Write(r.Line[r.MatchEnd:])
	return b.String()
}
