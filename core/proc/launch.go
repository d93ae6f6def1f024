package proc

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"

	"golang.org/x/sys/unix"
)

// ExitCommandNotFound is the conventional status of a command that could not
// be found.
const ExitCommandNotFound = 127

var (
	// ErrCommandNotFound is returned if no candidate could be executed.
	ErrCommandNotFound = errors.New("command not found")

	// ErrForkFailed is returned if the operating system could not create the
	// process.
	ErrForkFailed = errors.New("fork failed")
)

// Attr holds the attributes of a new process.
type Attr struct {
	// Env is the environment of the process, nil means the shell's own.
	Env []string
	// Dir is the working directory, empty means the shell's own.
	Dir string
	// Files are the standard input, output and error of the process.
	Files []*os.File
	// Setpgid puts the process in a new process group so signals the
	// terminal sends to the shell's group don't reach it.
	Setpgid bool
}

// Handle refers to a started program.
type Handle struct {
	Path    string
	Args    []string
	process *os.Process
}

// PID returns the operating system process ID.
func (h *Handle) PID() int {
	return h.process.Pid
}

// Wait blocks until this specific process exits or is killed.
func (h *Handle) Wait() (*os.ProcessState, error) {
	return h.process.Wait()
}

// Kill forcibly terminates the process. It returns os.ErrProcessDone once
// Wait has reaped it, so a recycled PID is never signalled.
func (h *Handle) Kill() error {
	return h.process.Kill()
}

// Release gives up the handle without waiting, the process is then tracked
// by PID alone.
func (h *Handle) Release() error {
	return h.process.Release()
}

// Launch starts argv with the first candidate path that can be executed.
//
// Candidates that don't exist or can't be executed are skipped. If none work
// ErrCommandNotFound is returned, any other failure to create the process is
// reported as ErrForkFailed.
func Launch(candidates iter.Seq[string], argv []string, attr *Attr) (*Handle, error) {
	if attr == nil {
		attr = &Attr{}
	}
	files := attr.Files
	if files == nil {
		files = []*os.File{os.Stdin, os.Stdout, os.Stderr}
	}

	for path := range candidates {
		p, err := os.StartProcess(path, argv, &os.ProcAttr{
			Dir:   attr.Dir,
			Env:   attr.Env,
			Files: files,
			Sys:   sysProcAttr(attr),
		})
		switch {
		case err == nil:
			return &Handle{Path: path, Args: argv, process: p}, nil
		case isNotExecutable(err):
			continue
		default:
			return nil, fmt.Errorf("%w: %v", ErrForkFailed, err)
		}
	}

	return nil, ErrCommandNotFound
}

func isNotExecutable(err error) bool {
	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, unix.ENOTDIR),
		errors.Is(err, unix.ENOEXEC),
		errors.Is(err, unix.EISDIR),
		errors.Is(err, unix.ENAMETOOLONG):
		return true
	default:
		return false
	}
}
