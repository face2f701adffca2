// Package walker implements the work-stealing parallel directory walker of
// spec.md §4.6: a fixed pool of OS-thread workers, each owning a Chase-Lev
// deque of directory/file tasks, reading files and feeding the matcher.
package walker

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/coregx/pgrep/internal/config"
	"github.com/coregx/pgrep/internal/deque"
	"github.com/coregx/pgrep/internal/fileread"
	"github.com/coregx/pgrep/internal/ignore"
	"github.com/coregx/pgrep/internal/match"
	"github.com/coregx/pgrep/internal/output"
	"github.com/coregx/pgrep/internal/simd"
	"github.com/coregx/pgrep/internal/walklog"
)

// taskKind tags a unit of work pushed onto a worker's deque.
type taskKind uint8

const (
	taskDir taskKind = iota
	taskFile
)

// task is a directory or file to process, carrying its depth below the
// search root for --max-depth enforcement.
type task struct {
	kind  taskKind
	path  string
	depth int
}

// Walker owns the worker pool and the shared, read-only collaborators every
// worker consults: the ignore matcher, the compiled pattern matcher, and the
// output sink (spec.md §5 "Shared resources and their discipline").
type Walker struct {
	cfg     config.Config
	matcher *match.Matcher
	ignoreM *ignore.Matcher
	sink    *output.Sink
	log     *walklog.Logger

	deques   []*deque.Deque
	inFlight atomic.Int64
}

// New builds a Walker for one search invocation. ignoreM may be nil when
// --no-ignore is set.
func New(cfg config.Config, matcher *match.Matcher, ignoreM *ignore.Matcher, sink *output.Sink, log *walklog.Logger) *Walker {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	w := &Walker{cfg: cfg, matcher: matcher, ignoreM: ignoreM, sink: sink, log: log}
	w.deques = make([]*deque.Deque, workers)
	for i := range w.deques {
		w.deques[i] = deque.New()
	}
	return w
}

// Run walks every root in cfg.Paths, distributing work across the worker
// pool, and blocks until every deque is drained. It returns whether at least
// one match was found across the whole walk (for the CLI's exit code).
func (w *Walker) Run(ctx context.Context) (matched bool, err error) {
	for _, root := range w.cfg.Paths {
		info, statErr := os.Stat(root)
		if statErr != nil {
			w.log.WalkError(root, statErr)
			continue
		}
		w.enqueue(0, task{kind: taskKindFor(info), path: root, depth: 0})
	}

	var wg sync.WaitGroup
	for i := range w.deques {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.workerLoop(ctx, id)
		}(i)
	}
	wg.Wait()

	return w.sink.Total() > 0, nil
}

func taskKindFor(info os.FileInfo) taskKind {
	if info.IsDir() {
		return taskDir
	}
	return taskFile
}

// enqueue pushes t onto owner's deque and increments the in-flight counter,
// which a worker only decrements once the task finishes, per spec.md §4.6:
// "a global in-flight counter (incremented per enqueue, decremented per task
// completion)".
func (w *Walker) enqueue(owner int, t task) {
	w.inFlight.Add(1)
	w.deques[owner].PushBottom(t)
}

func (w *Walker) completeTask() {
	w.inFlight.Add(-1)
}

// workerLoop is one worker's main loop (spec.md §4.6 step 1): pop local,
// else steal from a randomized order of peers, else terminate once the
// in-flight counter has reached zero.
func (w *Walker) workerLoop(ctx context.Context, id int) {
	own := w.deques[id]
	rng := rand.New(rand.NewSource(int64(id) + 1))
	order := make([]int, len(w.deques))
	for i := range order {
		order[i] = i
	}

	for {
		if v, ok := own.PopBottom(); ok {
			w.runTask(ctx, id, v.(task))
			continue
		}

		t, stolen := w.tryStealFrom(order, rng, id)
		if stolen {
			w.runTask(ctx, id, t)
			continue
		}

		if w.inFlight.Load() == 0 {
			return
		}
	}
}

// tryStealFrom visits peers in a freshly shuffled order, per spec.md §4.6:
// "steal from other workers' deques in a randomized order".
func (w *Walker) tryStealFrom(order []int, rng *rand.Rand, self int) (task, bool) {
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	for _, peer := range order {
		if peer == self {
			continue
		}
		for {
			v, res := w.deques[peer].StealTop()
			switch res {
			case deque.StealSuccess:
				return v.(task), true
			case deque.StealRetry:
				continue
			default:
				// StealEmpty: move on to the next peer.
			}
			break
		}
	}
	return task{}, false
}

func (w *Walker) runTask(ctx context.Context, workerID int, t task) {
	defer w.completeTask()
	switch t.kind {
	case taskDir:
		w.runDirTask(workerID, t)
	case taskFile:
		w.runFileTask(ctx, t)
	}
}

// runDirTask implements spec.md §4.6 step 2: enumerate entries, skip hidden
// files unless cfg.Hidden, skip always-ignored VCS dirs, consult the ignore
// matcher with the full relative path, and push surviving children.
func (w *Walker) runDirTask(workerID int, t task) {
	entries, err := os.ReadDir(t.path)
	if err != nil {
		w.log.WalkError(t.path, err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !w.cfg.Hidden && strings.HasPrefix(name, ".") {
			continue
		}
		childPath := filepath.Join(t.path, name)

		if entry.IsDir() {
			if ignore.IsAlwaysIgnoredDir(name) {
				continue
			}
			if w.ignoreM != nil && w.ignoreM.IsIgnored(childPath, true) {
				continue
			}
			if w.cfg.MaxDepth >= 0 && t.depth+1 > w.cfg.MaxDepth {
				continue
			}
			w.enqueue(workerID, task{kind: taskDir, path: childPath, depth: t.depth + 1})
			continue
		}

		info, err := entry.Info()
		if err != nil {
			w.log.WalkError(childPath, err)
			continue
		}
		if !info.Mode().IsRegular() {
			w.log.NonRegularSkip(childPath)
			continue
		}
		if w.ignoreM != nil && w.ignoreM.IsIgnored(childPath, false) {
			continue
		}
		if !w.passesGlobFilters(childPath) {
			continue
		}
		w.enqueue(workerID, task{kind: taskFile, path: childPath, depth: t.depth + 1})
	}
}

// passesGlobFilters applies the `-g` include/exclude list, last-matching
// rule wins, against the file's basename (SUPPLEMENTED FEATURES). An empty
// filter list passes everything.
func (w *Walker) passesGlobFilters(path string) bool {
	if len(w.cfg.Globs) == 0 {
		return true
	}
	base := filepath.Base(path)
	include := false
	for _, g := range w.cfg.Globs {
		if ignore.MatchGlob(g.Glob, base) {
			include = !g.Negated
		}
	}
	return include
}

// runFileTask implements spec.md §4.6 step 3: read the file, scan lines with
// SIMD newline search, match each line, buffer formatted records, and flush
// once to the sink.
func (w *Walker) runFileTask(ctx context.Context, t task) {
	info, err := os.Stat(t.path)
	if err != nil {
		w.log.WalkError(t.path, err)
		return
	}

	content, err := fileread.Read(ctx, t.path, info.Size())
	if err != nil {
		w.log.WalkError(t.path, err)
		return
	}
	defer content.Close()

	fb := w.sink.NewFileBuffer(t.path)

	if content.Stream != nil {
		w.scanStream(content, t.path, fb)
	} else {
		w.scanBuffer(content.Bytes, t.path, fb)
	}

	if fb.HasMatch() {
		if err := fb.Flush(); err != nil {
			w.log.WalkError(t.path, err)
		}
	}
}

// scanBuffer iterates lines of data using simd.FindNewline and matches each
// one, stopping early in files_with_matches mode after the first hit
// (spec.md §4.7).
func (w *Walker) scanBuffer(data []byte, path string, fb *output.FileBuffer) {
	if len(data) > 0 && fileread.LooksBinary(data[:min(len(data), 512)]) {
		w.log.BinarySkip(path)
		return
	}

	lineNo := 1
	pos := 0
	for pos <= len(data) {
		rel := simd.FindNewline(data[pos:])
		var line []byte
		var next int
		if rel < 0 {
			line = data[pos:]
			next = len(data) + 1
		} else {
			line = data[pos : pos+rel]
			next = pos + rel + 1
		}

		w.matchLine(line, lineNo, fb)
		if w.cfg.Output == config.OutputFilesOnly && fb.HasMatch() {
			return
		}

		lineNo++
		pos = next
		if rel < 0 {
			break
		}
	}
}

// scanStream handles the streaming-reader path for very large files,
// reading and matching one line at a time so the whole file never sits in
// memory at once.
func (w *Walker) scanStream(content *fileread.Content, path string, fb *output.FileBuffer) {
	lineNo := 1
	firstWindow := true
	for {
		line, err := content.Stream.ReadBytes('\n')
		if len(line) > 0 {
			trimmed := strings.TrimSuffix(string(line), "\n")
			lineBytes := []byte(trimmed)
			if firstWindow {
				firstWindow = false
				if fileread.LooksBinary(lineBytes[:min(len(lineBytes), 512)]) {
					w.log.BinarySkip(path)
					return
				}
			}
			w.matchLine(lineBytes, lineNo, fb)
			if w.cfg.Output == config.OutputFilesOnly && fb.HasMatch() {
				return
			}
			lineNo++
		}
		if err != nil {
			return
		}
	}
}

func (w *Walker) matchLine(line []byte, lineNo int, fb *output.FileBuffer) {
	m, ok := w.matcher.FindFirst(line)
	if !ok {
		return
	}
	fb.Add(output.Record{
		LineNumber: lineNo,
		Line:       line,
		MatchStart: m.Start,
		MatchEnd:   m.End,
	})
}

