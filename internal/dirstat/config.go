package dirstat

import (
	"path/filepath"
	"regexp"
)

// NoDepthLimit disables the report depth bound.
const NoDepthLimit = -1

// Config is the traversal configuration. It is built once before any walk
// and passed by value.
type Config struct {
	// ApparentSize selects byte sizes instead of allocated storage.
	ApparentSize bool
	// Dereference follows every symlink met during the walk.
	Dereference bool
	// DereferenceArgs follows symlinks given as root arguments only.
	DereferenceArgs bool
	// MaxDepth bounds the depth of reported nodes below a root (NoDepthLimit=unbounded).
	MaxDepth int
	// AllEntries reports files as well as directories.
	AllEntries bool
	// Summarize reports only the root of each argument.
	Summarize bool
	// Excludes skips entries whose path matches any of the patterns.
	Excludes []*regexp.Regexp
}

// DefaultConfig returns the configuration of a plain invocation:
// allocated sizes, directories only, no depth bound, symlinks not followed.
func DefaultConfig() Config {
	return Config{MaxDepth: NoDepthLimit}
}

// reportable reports whether a node at depth below the root is emitted.
// The root itself is at depth 0.
func (c Config) reportable(depth int) bool {
	if c.Summarize {
		return depth == 0
	}

	return c.MaxDepth == NoDepthLimit || depth <= c.MaxDepth
}

// excluded returns the first exclusion pattern matching path, or nil.
func (c Config) excluded(path string) *regexp.Regexp {
	if len(c.Excludes) == 0 {
		return nil
	}

	fPath := filepath.ToSlash(path)

	for _, re := range c.Excludes {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// CompileExcludes compiles exclusion patterns.
func CompileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &PatternError{Pattern: p, Err: err}
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}
