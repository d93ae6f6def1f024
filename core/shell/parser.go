// Package shell turns raw input lines into commands.
package shell

import (
	"errors"
	"strings"
)

const (
	// DefaultMaxLine is the longest input line accepted, longer lines are
	// truncated.
	DefaultMaxLine = 80

	// BackgroundMarker at the end of a line runs the command in the background.
	BackgroundMarker = "&"
)

var (
	// ErrEmptyCommand is returned when a line contains no words.
	ErrEmptyCommand = errors.New("empty command")

	// ErrEndOfSession is returned when the input stream is closed.
	ErrEndOfSession = errors.New("end of session")
)

// Command is a single parsed input line.
type Command struct {
	// Args holds the command name followed by its arguments.
	Args []string
	// Background is set if the line ended with the background marker.
	Background bool
}

// Name returns the command name.
func (c *Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Tokenize splits a line into words separated by runs of spaces and tabs.
//
// A word that is exactly "&" is dropped and marks the command as a
// background command, as does a "&" fused to the end of the last word. Lines
// longer than maxLine bytes are cut at that boundary, a maxLine <= 0 means
// DefaultMaxLine.
//
// ErrEmptyCommand is returned if no words remain, the returned Command still
// carries the background flag in that case.
func Tokenize(line string, maxLine int) (Command, error) {
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}
	if len(line) > maxLine {
		line = line[:maxLine]
	}
	// Only the first line counts.
	if end := strings.IndexAny(line, "\r\n"); end >= 0 {
		line = line[:end]
	}

	var cmd Command
	for _, word := range strings.FieldsFunc(line, isBlank) {
		if word == BackgroundMarker {
			cmd.Background = true
			continue
		}
		cmd.Args = append(cmd.Args, word)
	}

	if n := len(cmd.Args); n > 0 && !cmd.Background {
		last := cmd.Args[n-1]
		if trimmed := strings.TrimSuffix(last, BackgroundMarker); trimmed != last {
			cmd.Background = true
			cmd.Args[n-1] = trimmed
		}
	}

	if len(cmd.Args) == 0 {
		return cmd, ErrEmptyCommand
	}
	return cmd, nil
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}
