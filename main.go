package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/theguy147/leftwm/nanny"
	"github.com/theguy147/leftwm/nanny/journal"
)

var (
	journalFile  string
	autostartDir string
	reapInterval time.Duration
)

func init() {
	configDir, err := os.UserConfigDir()
	if err == nil {
		journalFile = filepath.Join(configDir, "leftwm", "journal.json")
		autostartDir = filepath.Join(configDir, "autostart")
	}

	flag.StringVar(&journalFile, "j", journalFile, "journal file path")
	flag.StringVar(&autostartDir, "a", autostartDir, "autostart directory path")
	flag.DurationVar(&reapInterval, "i", time.Second, "reap poll interval")
	flag.Usage = func() {
		f := func(f string, v ...interface{}) {
			fmt.Fprintf(flag.CommandLine.Output(), f, v...)
		}

		f("Usage:\n")
		f("  %s -j <journal> -a <autostart> [|events]\n", filepath.Base(os.Args[0]))
		f("\n")
		f("Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if journalFile == "" {
		log.Fatalln("missing -j path to journal file")
	}
	if autostartDir == "" {
		log.Fatalln("missing -a path to autostart directory")
	}
}

func main() {
	var err error
	switch flag.Arg(0) {
	case "events":
		err = events()
	case "":
		err = run()
	default:
		log.Fatalf("unknown subcommand %q\n", flag.Arg(0))
	}

	if err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	j, err := journal.NewFileLockJournaler(journalFile)
	if err != nil {
		if errors.Is(err, journal.ErrLockedElsewhere) {
			// Non-fatal error.
			log.Println("another session owns the journal; nothing to do")
			return nil
		}

		return errors.Wrap(err, "failed to acquire journal lock")
	}
	defer j.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	journaler := journal.MultiWriter(j, journal.NewHumanWriter(os.Stderr))
	journaler.Write(&nanny.EventAcquired{})

	var sigchld atomic.Bool
	nanny.RegisterChildHook(ctx, &sigchld, journaler)

	n := nanny.NewNanny(journaler)

	children := n.Autostart(autostartDir)

	if theme, err := n.BootCurrentTheme(); err != nil {
		journaler.Write(&nanny.EventWarning{Component: "theme", Error: err.Error()})
	} else if theme != nil {
		children.Insert(theme)
	}

	w := nanny.TryWatch(ctx, autostartDir, journaler)

	tick := time.NewTicker(reapInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-w.Events:
			journaler.Write(&ev)

			if ev.BootsDesktopFile() {
				if proc, ok := n.BootDesktopFile(filepath.Join(autostartDir, ev.File)); ok {
					children.Insert(proc)
				}
			}

		case <-tick.C:
			if sigchld.CompareAndSwap(true, false) {
				children.Reap()
			}
		}
	}
}

func events() error {
	f, err := os.Open(journalFile)
	if err != nil {
		return errors.Wrap(err, "failed to open journal")
	}
	defer f.Close()

	r := journal.NewReader(f)

	for {
		ev, t, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, "failed to read journal")
		}

		fmt.Printf("%s %s %+v\n", t.Format(time.Stamp), ev.Type(), ev)
	}
}
