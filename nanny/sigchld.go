package nanny

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// RegisterChildHook arranges for flag to be set whenever a child-termination
// signal arrives. The delivery path does nothing but the atomic store; the
// caller owns the flag, clears it, and calls Children.Reap when it observes
// it set. Repeated signals before a clear collapse into one pending
// indication; which child terminated is only discovered by the reap itself.
//
// Registration problems are written to the journal as a warning and
// otherwise swallowed; the caller then has to rely on periodic reaping
// alone.
func RegisterChildHook(ctx context.Context, flag *atomic.Bool, j Journaler) {
	if flag == nil {
		j.Write(&EventWarning{
			Component: "sigchld",
			Error:     "no flag provided; reaping relies on periodic polling only",
		})
		return
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGCHLD)

	go func() {
		defer signal.Stop(sig)
		watchChildSignal(ctx, sig, flag)
	}()
}

// watchChildSignal is split out so tests can feed signals through a plain
// channel without touching the real signal machinery.
func watchChildSignal(ctx context.Context, sig <-chan os.Signal, flag *atomic.Bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			flag.Store(true)
		}
	}
}
