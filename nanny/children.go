package nanny

import (
	"github.com/pkg/errors"

	"github.com/theguy147/leftwm/nanny/internal/exec"
)

// Children tracks spawned child processes keyed by their PID.
//
// Reap may be called at any place the caller wants to; RegisterChildHook
// provides a flag the caller may use to do epoch-based reaping. The registry
// only observes and forgets processes, it never terminates one, and
// discarding a Children simply stops tracking whatever is still alive.
//
// Iteration order over the registry is unspecified. A Children is not safe
// for concurrent use; callers sharing one must serialize access themselves.
type Children struct {
	inner map[int]exec.Process
}

// ChildrenFrom builds a registry from the given processes. Later processes
// win on PID collision.
func ChildrenFrom(procs ...exec.Process) Children {
	c := Children{}
	for _, proc := range procs {
		c.Insert(proc)
	}
	return c
}

// Len returns the number of tracked processes.
func (c *Children) Len() int {
	return len(c.inner)
}

// IsEmpty reports whether no process is tracked.
func (c *Children) IsEmpty() bool {
	return len(c.inner) == 0
}

// Insert adds proc keyed by its PID and reports whether the PID was
// previously absent. PIDs are kernel-assigned and not reused while the
// process is tracked, so a collision means the caller respawned without
// reaping; the old handle is overwritten, not kept.
func (c *Children) Insert(proc exec.Process) bool {
	if c.inner == nil {
		c.inner = make(map[int]exec.Process)
	}

	_, present := c.inner[proc.PID()]
	c.inner[proc.PID()] = proc
	return !present
}

// Merge absorbs all entries of other, which is drained. On PID collision the
// incoming entry wins.
func (c *Children) Merge(other *Children) {
	for pid, proc := range other.inner {
		if c.inner == nil {
			c.inner = make(map[int]exec.Process)
		}
		c.inner[pid] = proc
	}
	other.inner = nil
}

// Reap collects every tracked process that has exited, using non-blocking
// status checks only. A handle whose process table entry is gone (ErrGone)
// is dropped as well, since it can never be collected; any other status
// query failure retains the handle for a later pass.
func (c *Children) Reap() {
	for pid, proc := range c.inner {
		exited, err := proc.TryWait()
		if exited || errors.Is(err, exec.ErrGone) {
			delete(c.inner, pid)
		}
	}
}
