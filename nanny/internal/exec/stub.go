package exec

import "sync"

// StubProcess is a fake process used for testing. It starts in the running
// state; tests drive it through Exit and FailWith to exercise reaping paths
// without spawning anything.
type StubProcess struct {
	mu      sync.Mutex
	pid     int
	exited  bool
	waitErr error
}

var _ Process = (*StubProcess)(nil)

// NewStubProcess creates a running stub process with the given PID.
func NewStubProcess(pid int) *StubProcess {
	return &StubProcess{pid: pid}
}

func (s *StubProcess) PID() int { return s.pid }

// Exit marks the process as exited, making the next TryWait collect it.
func (s *StubProcess) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exited = true
}

// FailWith makes every future TryWait fail with err. Pass ErrGone to
// simulate a process table entry that disappeared underneath us.
func (s *StubProcess) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.waitErr = err
}

func (s *StubProcess) TryWait() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.waitErr != nil {
		return false, s.waitErr
	}

	return s.exited, nil
}
