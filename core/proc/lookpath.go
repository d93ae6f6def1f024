// Package proc starts and supervises external programs.
package proc

import (
	"iter"
	"strings"
)

// SearchPathSeparator separates directories in a search path.
const SearchPathSeparator = ":"

// SplitSearchPath splits a colon separated search path, dropping empty
// elements.
func SplitSearchPath(searchPath string) []string {
	var dirs []string
	for _, dir := range strings.Split(searchPath, SearchPathSeparator) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Candidates yields the paths a command name could resolve to, one per
// directory of the search path in order. Nothing is checked for existence.
//
// If name contains a slash it is yielded as-is and the search path is not
// consulted.
func Candidates(name, searchPath string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if name == "" {
			return
		}
		if strings.Contains(name, "/") {
			yield(name)
			return
		}
		for _, dir := range SplitSearchPath(searchPath) {
			if !yield(dir + "/" + name) {
				return
			}
		}
	}
}
