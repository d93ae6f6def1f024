package core

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"

	"github.com/josephlewis42/myshell/core/bookmark"
	"github.com/josephlewis42/myshell/core/config"
	"github.com/josephlewis42/myshell/core/jobs"
	"github.com/josephlewis42/myshell/core/logger"
	"github.com/josephlewis42/myshell/core/proc"
	"github.com/josephlewis42/myshell/core/shell"
)

// ErrJobsStillRunning is returned by exit while background jobs are alive.
var ErrJobsStillRunning = errors.New("background jobs still running")

// Options configure a Shell.
type Options struct {
	// Source provides input lines, required.
	Source shell.LineSource

	// Stdout and Stderr receive the shell's own output, defaulting to the
	// process streams.
	Stdout io.Writer
	Stderr io.Writer

	// Files are the standard streams handed to started programs, nil uses
	// the process streams.
	Files []*os.File

	Prompt     string
	MaxLine    int
	Debug      bool
	Color      string
	SearchPath string
	// Env is the environment of started programs, nil inherits the shell's.
	Env []string

	Bookmarks *bookmark.Store
	Events    *logger.SessionLogger
	// Prober checks background jobs, defaults to proc.Exited.
	Prober jobs.Prober
}

// Shell reads commands and supervises the programs they start.
type Shell struct {
	Stdout io.Writer
	Stderr io.Writer

	Jobs      *jobs.Table
	Bookmarks *bookmark.Store

	reader     *shell.Reader
	files      []*os.File
	prompt     string
	debug      bool
	searchPath string
	env        []string
	events     *logger.SessionLogger
	color      *ColorPrinter

	// foreground holds the job the loop is waiting on, nil if none. It's
	// shared with the signal handler.
	foreground atomic.Pointer[proc.Handle]

	lastRet     int
	quit        bool
	replayDepth int
}

// NewShell creates a shell, the search path is fixed for its lifetime.
func NewShell(opts Options) *Shell {
	s := &Shell{
		Stdout:     opts.Stdout,
		Stderr:     opts.Stderr,
		Bookmarks:  opts.Bookmarks,
		reader:     &shell.Reader{Source: opts.Source, MaxLine: opts.MaxLine},
		files:      opts.Files,
		prompt:     opts.Prompt,
		debug:      opts.Debug,
		searchPath: opts.SearchPath,
		env:        opts.Env,
		events:     opts.Events,
		color:      NewColorPrinter(opts.Color),
	}

	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}
	if s.Bookmarks == nil {
		s.Bookmarks = bookmark.NewStore()
	}
	if s.events == nil {
		s.events = logger.NewNopLogger().NewSession()
	}

	prober := opts.Prober
	if prober == nil {
		prober = proc.Exited
	}
	s.Jobs = jobs.NewTable(prober)

	return s
}

// NewShellFromConfig creates a shell using the settings in cfg.
func NewShellFromConfig(cfg *config.Configuration, opts Options) *Shell {
	opts.Prompt = cfg.Prompt
	opts.MaxLine = cfg.MaxLine
	opts.Debug = cfg.Debug
	opts.Color = cfg.Color
	opts.SearchPath = cfg.ResolveSearchPath()
	return NewShell(opts)
}

// Run reads and executes commands until the input ends or exit succeeds.
// It returns the shell's exit status.
func (s *Shell) Run() int {
	for !s.quit {
		cmd, err := s.reader.ReadCommand(s.prompt)
		switch {
		case errors.Is(err, shell.ErrEndOfSession):
			return 0
		case errors.Is(err, shell.ErrEmptyCommand):
			continue
		case err != nil:
			s.errorf("read: %v", err)
			s.record(logger.LogEntry{Type: logger.EventError, Error: err.Error()})
			continue
		}

		s.Execute(cmd)
	}
	return 0
}

// Execute runs a single parsed command, builtin or external.
func (s *Shell) Execute(cmd shell.Command) {
	if s.debug {
		for i, arg := range cmd.Args {
			fmt.Fprintf(s.Stdout, "args %d = %s\n", i, arg)
		}
	}

	if builtin, ok := AllBuiltins[cmd.Name()]; ok {
		s.record(logger.LogEntry{Type: logger.EventBuiltin, Command: cmd.Args})
		s.lastRet = builtin.Main(s, cmd.Args)
		return
	}

	s.lastRet = s.runExternal(cmd)
}

func (s *Shell) runExternal(cmd shell.Command) int {
	if pauser, ok := s.reader.Source.(shell.Pauser); ok && !cmd.Background {
		// The foreground program owns the terminal until it exits.
		pauser.Pause()
		defer pauser.Resume()
	}

	handle, err := proc.Launch(proc.Candidates(cmd.Name(), s.searchPath), cmd.Args, &proc.Attr{
		Env:   s.env,
		Files: s.files,
		// Keystroke signals from the terminal only reach the shell's group.
		Setpgid: cmd.Background,
	})
	switch {
	case errors.Is(err, proc.ErrCommandNotFound):
		s.errorf("%s: %v", cmd.Name(), err)
		s.record(logger.LogEntry{Type: logger.EventNotFound, Command: cmd.Args, ExitStatus: proc.ExitCommandNotFound})
		return proc.ExitCommandNotFound
	case err != nil:
		s.errorf("%s: %v", cmd.Name(), err)
		s.record(logger.LogEntry{Type: logger.EventError, Command: cmd.Args, Error: err.Error()})
		return 1
	}

	pid := handle.PID()
	s.record(logger.LogEntry{Type: logger.EventLaunch, PID: pid, Command: cmd.Args, Background: cmd.Background})

	if cmd.Background {
		// Background jobs are reaped by PID in Reconcile.
		if err := handle.Release(); err != nil {
			log.Printf("release %d: %v", pid, err)
		}
		s.Jobs.RegisterRunning(pid)
		fmt.Fprintln(s.Stdout, s.color.Info("[%d] %d", len(s.Jobs.ListRunning()), pid))
		s.reconcile()
		return 0
	}

	return s.waitForeground(handle, cmd)
}

func (s *Shell) waitForeground(handle *proc.Handle, cmd shell.Command) int {
	pid := handle.PID()
	s.foreground.Store(handle)
	state, err := handle.Wait()
	s.foreground.Store(nil)

	if err != nil {
		s.errorf("%s: wait: %v", cmd.Name(), err)
		s.record(logger.LogEntry{Type: logger.EventError, PID: pid, Command: cmd.Args, Error: err.Error()})
		return 1
	}

	status := proc.ExitStatus(state)
	s.record(logger.LogEntry{Type: logger.EventFinish, PID: pid, Command: cmd.Args, ExitStatus: status})
	return status
}

// reconcile moves exited background jobs to the finished set and announces
// them.
func (s *Shell) reconcile() {
	moved, err := s.Jobs.Reconcile()
	if err != nil {
		log.Printf("reconcile: %v", err)
	}
	for _, pid := range moved {
		fmt.Fprintln(s.Stdout, s.color.Info("[done] %d", pid))
		s.record(logger.LogEntry{Type: logger.EventFinish, PID: pid})
	}
}

// Foreground returns the PID of the job the shell is waiting on, or 0.
func (s *Shell) Foreground() int {
	if handle := s.foreground.Load(); handle != nil {
		return handle.PID()
	}
	return 0
}

// Interrupt kills the foreground job, if any. It's safe to call from any
// goroutine.
//
// The kill is best effort: the loop only notices once its wait returns.
func (s *Shell) Interrupt() {
	handle := s.foreground.Swap(nil)
	if handle == nil {
		s.warnf("no foreground job")
		return
	}

	pid := handle.PID()
	switch err := handle.Kill(); {
	case errors.Is(err, os.ErrProcessDone):
		s.warnf("no foreground job")
	case err != nil:
		s.errorf("kill %d: %v", pid, err)
		s.record(logger.LogEntry{Type: logger.EventError, PID: pid, Error: err.Error()})
	default:
		s.warnf("killed foreground job %d", pid)
		s.record(logger.LogEntry{Type: logger.EventKill, PID: pid})
	}
}

// LastStatus returns the exit status of the last command.
func (s *Shell) LastStatus() int {
	return s.lastRet
}

func (s *Shell) record(event logger.LogEntry) {
	if err := s.events.Record(event); err != nil {
		log.Printf("event log: %v", err)
	}
}

func (s *Shell) errorf(format string, a ...interface{}) {
	fmt.Fprintln(s.Stderr, s.color.Error("myshell: "+format, a...))
}

func (s *Shell) warnf(format string, a ...interface{}) {
	fmt.Fprintln(s.Stderr, s.color.Warning("myshell: "+format, a...))
}
