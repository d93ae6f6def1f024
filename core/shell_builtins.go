package core

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/josephlewis42/myshell/core/jobs"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// ListBuiltins returns the names of all builtins in sorted order.
func ListBuiltins() []string {
	var names []string
	for name := range AllBuiltins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exit quits the shell unless background jobs are still running.
func Exit(s *Shell, args []string) int {
	if err := s.checkExit(); err != nil {
		s.warnf("%s: %v", args[0], err)
		return 1
	}

	s.quit = true
	return 0
}

func (s *Shell) checkExit() error {
	s.reconcile()
	if s.Jobs.HasRunning() {
		return fmt.Errorf("%w (%d)", ErrJobsStillRunning, len(s.Jobs.ListRunning()))
	}
	return nil
}

// Jobs lists running and finished background jobs.
func Jobs(s *Shell, args []string) int {
	cmd := &builtinCommand{
		Use:   "jobs [-r | -f]",
		Short: "Display the status of background jobs.",
	}
	runningOnly := cmd.Flags().Bool('r', "show only running jobs")
	finishedOnly := cmd.Flags().Bool('f', "show only finished jobs")

	return cmd.Run(s, args, func() int {
		s.reconcile()

		if !*finishedOnly {
			printJobs(s, "Running", s.Jobs.ListRunning())
		}
		if !*runningOnly {
			printJobs(s, "Finished", s.Jobs.ListFinished())
		}
		return 0
	})
}

func printJobs(s *Shell, title string, list []jobs.Job) {
	fmt.Fprintf(s.Stdout, "%s:\n", title)
	for i, job := range list {
		fmt.Fprintf(s.Stdout, "  [%d] %d\n", i+1, job.PID)
	}
}

// Bookmark stores, lists, deletes and replays saved commands.
func Bookmark(s *Shell, args []string) int {
	// Anything that doesn't start with a flag is a command to store, it may
	// carry flags of its own.
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		entry, err := s.Bookmarks.Add(args[1:])
		if err != nil {
			s.errorf("%s: %v", args[0], err)
			return 1
		}
		if s.debug {
			fmt.Fprintf(s.Stdout, "bookmark %d = %s\n", entry.Index, entry.Text)
		}
		return 0
	}

	cmd := &builtinCommand{
		Use:   `bookmark "COMMAND" | -l | -d INDEX | -i INDEX`,
		Short: "Save commands and run them again later.",
	}
	list := cmd.Flags().Bool('l', "list bookmarks")
	var deleteIndex, runIndex int
	deleteOpt := cmd.Flags().Flag(&deleteIndex, 'd', "delete the bookmark at INDEX", "INDEX")
	runOpt := cmd.Flags().Flag(&runIndex, 'i', "run the bookmark at INDEX", "INDEX")

	return cmd.Run(s, args, func() int {
		switch {
		case *list:
			for _, entry := range s.Bookmarks.List() {
				fmt.Fprintf(s.Stdout, "%d %q\n", entry.Index, entry.Text)
			}
			return 0

		case deleteOpt.Seen():
			if _, err := s.Bookmarks.Delete(deleteIndex); err != nil {
				s.errorf("%s: %v", args[0], err)
				return 1
			}
			return 0

		case runOpt.Seen():
			return s.replayBookmark(args[0], runIndex)

		default:
			cmd.PrintHelp(s.Stderr)
			return 2
		}
	})
}

// maxReplayDepth stops bookmarks that replay themselves.
const maxReplayDepth = 1

func (s *Shell) replayBookmark(name string, index int) int {
	if s.replayDepth >= maxReplayDepth {
		s.errorf("%s: bookmarks can't replay bookmarks", name)
		return 1
	}

	cmd, err := s.Bookmarks.Materialize(index, s.reader.MaxLine)
	if err != nil {
		s.errorf("%s: %v", name, err)
		return 1
	}

	s.replayDepth++
	defer func() { s.replayDepth-- }()

	s.Execute(cmd)
	return s.lastRet
}

// Cd is the cd shell builtin
func Cd(s *Shell, args []string) int {
	switch len(args) {
	case 1:
		home, err := os.UserHomeDir()
		if err != nil {
			s.errorf("%s: %v", args[0], err)
			return 1
		}
		args = append(args, home)
		fallthrough
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			s.errorf("%s: %v", args[0], errors.Unwrap(err))
			return 1
		}
	default:
		s.errorf("%s: too many arguments", args[0])
		return 1
	}
	return 0
}

func Help(s *Shell, args []string) int {
	w := s.Stdout
	fmt.Fprintln(w, "myshell, a small job-control shell.")
	fmt.Fprintln(w, "End a command with & to run it in the background, Ctrl-Z kills the")
	fmt.Fprintln(w, "foreground job.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Builtins:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Join(ListBuiltins(), "\n"))

	return 0
}

func init() {
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["jobs"] = ShellBuiltinFunc(Jobs)
	AllBuiltins["bookmark"] = ShellBuiltinFunc(Bookmark)
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
}
