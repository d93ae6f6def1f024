package core

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"golang.org/x/sys/unix"
)

func TestHandleSignals_stopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ts := newTestShell(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	ts.HandleSignals(ctx)
	cancel()
}

func TestInterruptSignals(t *testing.T) {
	assert.Equal(t, []os.Signal{unix.SIGTSTP, unix.SIGINT}, InterruptSignals)
}
