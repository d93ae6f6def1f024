package core

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// InterruptSignals kill the foreground job instead of suspending or
// interrupting the shell.
var InterruptSignals = []os.Signal{unix.SIGTSTP, unix.SIGINT}

// HandleSignals routes InterruptSignals to Interrupt until ctx is done.
func (s *Shell) HandleSignals(ctx context.Context) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, InterruptSignals...)

	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigs:
				s.Interrupt()
			}
		}
	}()
}
