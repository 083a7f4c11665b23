package api

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

func (f FilterSettings) validate() error {
	for _, p := range append(append([]string{}, f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid pattern %q", p)
		}
	}
	return nil
}

// Empty reports whether the filter selects every step.
func (f FilterSettings) Empty() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0
}

// Match reports whether a step id passes the filter: it must match an
// include pattern (when any are set) and no exclude pattern. Step ids are
// matched with '.' treated like a path separator, so "sim.**" selects every
// step under "sim".
func (f FilterSettings) Match(id string) bool {
	path := dotsToSlashes(id)
	if len(f.Include) > 0 && !matchAny(f.Include, path) {
		return false
	}
	return !matchAny(f.Exclude, path)
}

// Func returns Match as a function, or nil for an empty filter.
func (f FilterSettings) Func() func(id string) bool {
	if f.Empty() {
		return nil
	}
	return f.Match
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if doublestar.MatchUnvalidated(dotsToSlashes(p), path) {
			return true
		}
	}
	return false
}

func dotsToSlashes(s string) string {
	return strings.ReplaceAll(s, ".", "/")
}
