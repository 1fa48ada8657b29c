// Package exec provides an abstraction around package os' Process
// implementation for easier testing.
package exec

import (
	"os"
	osexec "os/exec"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Process describes a spawned child process. A Process is exclusively owned
// by whoever holds it; dropping one never terminates the underlying OS
// process.
type Process interface {
	PID() int
	// TryWait performs a non-blocking status check, reporting whether the
	// process has exited and been collected. It never blocks waiting for the
	// process; a still-running process reports (false, nil).
	TryWait() (exited bool, err error)
}

// ErrGone is reported by TryWait when the kernel no longer knows the child,
// usually because something else already collected it. A handle in this state
// can never be collected again.
var ErrGone = errors.New("process unknown to kernel")

type process struct {
	*os.Process
}

var _ Process = process{}

// StartProcess spawns argv with standard input and output connected to the
// null device. argv[0] must be a resolved executable path.
func StartProcess(argv []string) (Process, error) {
	null, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open null device")
	}
	defer null.Close()

	p, err := os.StartProcess(argv[0], argv, &os.ProcAttr{
		Files: []*os.File{null, null, os.Stderr},
	})
	if err != nil {
		return nil, err
	}

	return process{p}, nil
}

// StartShell spawns a shell evaluating the given command line, standard input
// and output connected to the null device. The command is interpreted by the
// shell itself, so metacharacters inside it are live.
func StartShell(command string) (Process, error) {
	shell, err := osexec.LookPath("sh")
	if err != nil {
		return nil, errors.Wrap(err, "no shell found")
	}

	return StartProcess([]string{shell, "-c", command})
}

func (proc process) PID() int {
	return proc.Pid
}

// TryWait polls the process state with WNOHANG. ErrGone is reported when the
// process table entry is already gone.
func (proc process) TryWait() (bool, error) {
	var status unix.WaitStatus

	for {
		pid, err := unix.Wait4(proc.Pid, &status, unix.WNOHANG, nil)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.ECHILD:
			return false, ErrGone
		case err != nil:
			return false, errors.Wrap(err, "wait4")
		case pid == 0:
			// Still running.
			return false, nil
		default:
			proc.Release()
			return true, nil
		}
	}
}
