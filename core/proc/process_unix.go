package proc

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func sysProcAttr(attr *Attr) *syscall.SysProcAttr {
	if !attr.Setpgid {
		return nil
	}
	return &syscall.SysProcAttr{Setpgid: true}
}

// Exited reaps pid if it has terminated without blocking.
//
// A process that is no longer a child of the shell (already reaped) counts as
// exited.
func Exited(pid int) (bool, error) {
	var status unix.WaitStatus
	wpid, err := unix.Wait4(pid, &status, unix.WNOHANG, nil)
	switch {
	case errors.Is(err, unix.ECHILD):
		return true, nil
	case err != nil:
		return false, err
	}
	return wpid == pid, nil
}

// ExitStatus converts a process state to a shell status, 128+N for a
// process killed by signal N.
func ExitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}
