// Command pgrep is a parallel recursive grep: it walks a directory tree with
// a work-stealing scheduler, matching each line against a literal string or
// a small regular expression, respecting .gitignore rules along the way.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/coregx/pgrep/internal/config"
	"github.com/coregx/pgrep/internal/ignore"
	"github.com/coregx/pgrep/internal/match"
	"github.com/coregx/pgrep/internal/output"
	"github.com/coregx/pgrep/internal/walker"
	"github.com/coregx/pgrep/internal/walklog"
)

// Exit codes (spec.md §6): 0 = matched, 1 = no match, 2 = fatal error.
const (
	exitMatched = 0
	exitNoMatch = 1
	exitFatal   = 2
)

func main() {
	var exitCode = exitFatal

	var (
		ignoreCase   bool
		wordBoundary bool
		forceLineNum bool
		countOnly    bool
		filesOnly    bool
		globs        []string
		noIgnore     bool
		hidden       bool
		workers      int
		maxDepth     int
		colorFlag    string
		heading      bool
		noHeading    bool
	)

	defaults := config.Default()

	cmd := &cobra.Command{
		Use:           "pgrep PATTERN [PATH...]",
		Short:         "parallel recursive grep",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaults
			cfg.Pattern = args[0]
			if len(args) > 1 {
				cfg.Paths = args[1:]
			}
			cfg.IgnoreCase = ignoreCase
			cfg.WordBoundary = wordBoundary
			cfg.ForceLineNum = forceLineNum
			cfg.NoIgnore = noIgnore
			cfg.Hidden = hidden
			cfg.MaxDepth = maxDepth
			if workers > 0 {
				cfg.Workers = workers
			}

			switch {
			case countOnly:
				cfg.Output = config.OutputCountOnly
			case filesOnly:
				cfg.Output = config.OutputFilesOnly
			default:
				cfg.Output = config.OutputContent
			}
			cfg.Globs = parseGlobFilters(globs)

			color, err := parseColorMode(colorFlag)
			if err != nil {
				return err
			}
			cfg.Color = color
			cfg.Heading = resolveHeadingOverride(heading, noHeading)

			exitCode = execute(cfg)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&ignoreCase, "ignore-case", "i", false, "case-insensitive matching")
	flags.BoolVarP(&wordBoundary, "word-regexp", "w", false, "force pattern to match whole words")
	flags.BoolVarP(&forceLineNum, "line-number", "n", false, "force line numbers on")
	flags.BoolVarP(&countOnly, "count", "c", false, "count-only mode")
	flags.BoolVarP(&filesOnly, "files-with-matches", "l", false, "files-with-matches mode")
	flags.StringArrayVarP(&globs, "glob", "g", nil, "include/exclude glob filter, leading ! negates")
	flags.BoolVar(&noIgnore, "no-ignore", false, "disable gitignore consultation")
	flags.BoolVar(&hidden, "hidden", false, "include dot-prefixed files and directories")
	flags.IntVarP(&workers, "jobs", "j", defaults.Workers, "worker thread count")
	flags.IntVarP(&maxDepth, "max-depth", "d", -1, "maximum recursion depth")
	flags.StringVar(&colorFlag, "color", "auto", "color policy: auto|always|never")
	flags.BoolVar(&heading, "heading", false, "force grouped output")
	flags.BoolVar(&noHeading, "no-heading", false, "force flat output")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pgrep:", err)
		os.Exit(exitFatal)
	}
	os.Exit(exitCode)
}

// execute runs the search engine against the resolved config and returns the
// process exit code.
func execute(cfg config.Config) int {
	m, err := match.New(cfg.Pattern, cfg.IgnoreCase, cfg.WordBoundary)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pgrep:", err)
		return exitFatal
	}

	log, err := walklog.New(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pgrep:", err)
		return exitFatal
	}
	defer log.Sync()

	ignoreM, err := buildIgnoreMatcher(cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pgrep:", err)
		return exitFatal
	}

	useColor := resolveColor(cfg.Color)
	heading := resolveHeading(cfg.Heading)
	sink := output.NewSink(os.Stdout, cfg.Output, useColor, heading)

	w := walker.New(cfg, m, ignoreM, sink, log)
	matched, err := w.Run(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "pgrep:", err)
		return exitFatal
	}
	if matched {
		return exitMatched
	}
	return exitNoMatch
}

// buildIgnoreMatcher runs the single-threaded gitignore pre-pass (see
// internal/ignore.CollectGitignores) over every search root, or returns nil
// when --no-ignore is set.
func buildIgnoreMatcher(cfg config.Config, log *walklog.Logger) (*ignore.Matcher, error) {
	if cfg.NoIgnore {
		return nil, nil
	}
	var patterns []*ignore.Pattern
	for _, root := range cfg.Paths {
		pats, err := ignore.CollectGitignores(root)
		if err != nil {
			log.WalkError(root, err)
			continue
		}
		patterns = append(patterns, pats...)
	}
	return ignore.NewMatcher(patterns)
}

func parseGlobFilters(raw []string) []config.GlobFilter {
	var out []config.GlobFilter
	for _, g := range raw {
		negated := false
		if len(g) > 0 && g[0] == '!' {
			negated = true
			g = g[1:]
		}
		out = append(out, config.GlobFilter{Glob: g, Negated: negated})
	}
	return out
}

func parseColorMode(s string) (config.ColorMode, error) {
	switch s {
	case "auto", "":
		return config.ColorAuto, nil
	case "always":
		return config.ColorAlways, nil
	case "never":
		return config.ColorNever, nil
	default:
		return config.ColorAuto, fmt.Errorf("invalid --color value %q", s)
	}
}

func resolveHeadingOverride(heading, noHeading bool) *bool {
	switch {
	case heading:
		v := true
		return &v
	case noHeading:
		v := false
		return &v
	default:
		return nil
	}
}

func resolveColor(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd())
	}
}

func resolveHeading(forced *bool) bool {
	if forced != nil {
		return *forced
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}
