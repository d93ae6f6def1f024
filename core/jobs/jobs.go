// Package jobs tracks background processes started by the shell.
package jobs

import (
	"fmt"
	"sync"
)

// State is the lifecycle state of a job.
type State int

const (
	Running State = iota
	Finished
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Finished:
		return "Finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Job is a background process identified by its PID.
type Job struct {
	PID   int
	State State
}

// Prober reports, without blocking, whether a process has exited.
type Prober func(pid int) (bool, error)

// Table holds running and finished jobs. A PID is in exactly one of the two
// sets and each set keeps insertion order.
//
// Finished jobs are never removed.
type Table struct {
	rw       sync.RWMutex
	probe    Prober
	running  []int
	finished []int
}

// NewTable creates an empty table that checks processes with probe.
func NewTable(probe Prober) *Table {
	return &Table{probe: probe}
}

// RegisterRunning adds a newly started process to the running set.
func (t *Table) RegisterRunning(pid int) {
	t.rw.Lock()
	defer t.rw.Unlock()

	t.running = append(t.running, pid)
}

// Reconcile moves every running job whose process has exited to the finished
// set and returns the moved PIDs in order.
//
// Processes that can't be probed stay in the running set, the first probe
// error is returned alongside the jobs that were moved.
func (t *Table) Reconcile() ([]int, error) {
	t.rw.Lock()
	defer t.rw.Unlock()

	var moved []int
	var firstErr error
	stillRunning := t.running[:0]
	for _, pid := range t.running {
		exited, err := t.probe(pid)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("probe %d: %w", pid, err)
		}
		if err != nil || !exited {
			stillRunning = append(stillRunning, pid)
			continue
		}
		moved = append(moved, pid)
	}
	t.running = stillRunning
	t.finished = append(t.finished, moved...)

	return moved, firstErr
}

// HasRunning returns true if any job is in the running set.
func (t *Table) HasRunning() bool {
	t.rw.RLock()
	defer t.rw.RUnlock()

	return len(t.running) > 0
}

// ListRunning returns a snapshot of the running jobs.
func (t *Table) ListRunning() []Job {
	t.rw.RLock()
	defer t.rw.RUnlock()

	return snapshot(t.running, Running)
}

// ListFinished returns a snapshot of the finished jobs.
func (t *Table) ListFinished() []Job {
	t.rw.RLock()
	defer t.rw.RUnlock()

	return snapshot(t.finished, Finished)
}

func snapshot(pids []int, state State) []Job {
	out := make([]Job, 0, len(pids))
	for _, pid := range pids {
		out = append(out, Job{PID: pid, State: state})
	}
	return out
}
