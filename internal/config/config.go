// Package config holds the resolved configuration the spec's Non-goals
// refer to as an external collaborator (spec.md §1, §6): everything
// cmd/pgrep parses from flags, handed by value into the engine packages.
package config

import "runtime"

// ColorMode is the `--color` policy.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// OutputMode selects what the sink emits for each file (spec.md §4.7).
type OutputMode int

const (
	// OutputContent emits matched lines (the default mode).
	OutputContent OutputMode = iota
	// OutputCountOnly emits one "file:count" line per matched file.
	OutputCountOnly
	// OutputFilesOnly emits one file name per matched file and stops
	// scanning that file after its first match.
	OutputFilesOnly
)

// Config is the fully-resolved set of options for one search (spec.md §6).
type Config struct {
	Pattern string
	Paths   []string

	IgnoreCase   bool
	WordBoundary bool
	ForceLineNum bool
	Output       OutputMode

	Globs []GlobFilter

	NoIgnore bool
	Hidden   bool

	Workers  int
	MaxDepth int

	Color   ColorMode
	Heading *bool // nil = auto (TTY-dependent); non-nil forces heading/flat
}

// GlobFilter is one `-g` include/exclude entry (SUPPLEMENTED FEATURES: `-g`
// repeats and accumulates, last-matching rule wins, sharing internal/ignore's
// glob matcher rather than a second bespoke one).
type GlobFilter struct {
	Glob    string
	Negated bool
}

// Default returns a Config with the spec's documented defaults: current
// directory, hardware-concurrency worker count, no depth limit, auto color
// and heading.
func Default() Config {
	return Config{
		Paths:    []string{"."},
		Workers:  runtime.NumCPU(),
		MaxDepth: -1,
		Color:    ColorAuto,
	}
}
