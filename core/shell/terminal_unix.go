package shell

import (
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// pollInterval is how long, in milliseconds, a read waits for input before
// checking whether it was paused or closed.
const pollInterval = 50

// TerminalInput reads from a terminal that is shared with foreground
// programs. While paused nothing is read, so keystrokes go to whichever
// program is running instead of being buffered by the line editor.
type TerminalInput struct {
	file *os.File

	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
	closed bool
}

// NewTerminalInput wraps f, which is never closed by the wrapper.
func NewTerminalInput(f *os.File) *TerminalInput {
	in := &TerminalInput{file: f}
	in.cond = sync.NewCond(&in.mu)
	return in
}

// Read blocks until input is available and the reader isn't paused.
func (in *TerminalInput) Read(p []byte) (int, error) {
	for {
		if err := in.waitActive(); err != nil {
			return 0, err
		}

		ready, err := in.poll()
		if err != nil {
			return 0, err
		}
		// Input may have arrived just as the reader was paused, it belongs to
		// the foreground program.
		if !ready || !in.active() {
			continue
		}
		return in.file.Read(p)
	}
}

func (in *TerminalInput) waitActive() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	for in.paused && !in.closed {
		in.cond.Wait()
	}
	if in.closed {
		return io.EOF
	}
	return nil
}

func (in *TerminalInput) active() bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	return !in.paused && !in.closed
}

func (in *TerminalInput) poll() (bool, error) {
	fds := []unix.PollFd{{Fd: int32(in.file.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, pollInterval)
	if errors.Is(err, unix.EINTR) {
		return false, nil
	}
	return n > 0, err
}

// Pause stops reading until Resume is called.
func (in *TerminalInput) Pause() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.paused = true
}

// Resume undoes Pause.
func (in *TerminalInput) Resume() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.paused = false
	in.cond.Broadcast()
}

// Close makes pending and future reads return io.EOF.
func (in *TerminalInput) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.closed = true
	in.cond.Broadcast()
	return nil
}
