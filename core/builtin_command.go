package core

import (
	"fmt"
	"io"

	getopt "github.com/pborman/getopt/v2"
)

// builtinCommand parses the flags of a shell builtin.
type builtinCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string

	flags    *getopt.Set
	showHelp *bool
}

// Flags gets the command's flag set.
func (b *builtinCommand) Flags() *getopt.Set {
	if b.flags == nil {
		b.flags = getopt.New()
	}

	return b.flags
}

// Args returns the arguments left after flag parsing.
func (b *builtinCommand) Args() []string {
	return b.Flags().Args()
}

// PrintHelp writes help for the command to the given writer.
func (b *builtinCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, b.Use)
	fmt.Fprintln(w, b.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	b.Flags().PrintOptions(w)
}

// Run parses args and, if successful, calls the callback.
func (b *builtinCommand) Run(s *Shell, args []string, callback func() int) int {
	opts := b.Flags()
	if b.showHelp == nil {
		b.showHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(args, nil); err != nil {
		s.errorf("%s: %s", args[0], err)
		b.PrintHelp(s.Stderr)
		return 2
	}

	if *b.showHelp {
		b.PrintHelp(s.Stdout)
		return 0
	}

	return callback()
}
