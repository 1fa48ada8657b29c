package nanny

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watcher watches the autostart directory for desktop files being added,
// updated or removed while the session runs.
type Watcher struct {
	Events chan EventDesktopListModify

	w   *fsnotify.Watcher
	j   Journaler
	dir string
}

// TryWatch attempts to watch the given directory asynchronously, but it will
// log into the journaler if, for some reason, it fails to watch the
// directory.
func TryWatch(ctx context.Context, dir string, j Journaler) *Watcher {
	w := newWatcher(dir, j)

	go func() {
		if err := w.init(); err != nil {
			j.Write(&EventWarning{
				Component: "watcher",
				Error:     fmt.Sprintf("not watching dir because: %v", err),
			})
			return
		}

		w.watch(ctx)
	}()

	return w
}

// NewWatcher watches the given directory and sends translated events over
// the Events channel. The watcher is stopped once the given context is
// canceled.
func NewWatcher(ctx context.Context, dir string, j Journaler) (*Watcher, error) {
	w := newWatcher(dir, j)
	if err := w.init(); err != nil {
		return nil, err
	}

	go w.watch(ctx)
	return w, nil
}

func newWatcher(dir string, j Journaler) *Watcher {
	return &Watcher{
		Events: make(chan EventDesktopListModify),
		w:      nil,
		j:      j,
		dir:    dir,
	}
}

func (w *Watcher) init() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}

	if err := watcher.Add(w.dir); err != nil {
		return errors.Wrap(err, "failed to watch dir")
	}

	w.w = watcher
	return nil
}

func (w *Watcher) watch(ctx context.Context) {
	defer w.w.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case err := <-w.w.Errors:
			w.j.Write(&EventWarning{
				Component: "watcher",
				Error:     "inotify error: " + err.Error(),
			})

		case evt := <-w.w.Events:
			event, ok := translateFsnotifyEvt(evt)
			if !ok {
				continue
			}

			select {
			case w.Events <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

// BootsDesktopFile reports whether this directory-list event should trigger
// a fresh boot of its file. Only additions do: a Create is typically
// followed by Write events while the file is still being filled in, so
// booting on updates as well would double-spawn a freshly dropped
// descriptor. An edited descriptor takes effect when it is next added or on
// the next session; whatever its old command spawned stays tracked until it
// exits.
func (ev EventDesktopListModify) BootsDesktopFile() bool {
	return ev.Op == DesktopListAdd
}

// translateFsnotifyEvt translates an fsnotify event on a desktop file into
// an EventDesktopListModify. Events on other files are dropped.
func translateFsnotifyEvt(evt fsnotify.Event) (EventDesktopListModify, bool) {
	name := filepath.Base(evt.Name)
	if filepath.Ext(name) != desktopExt {
		return EventDesktopListModify{}, false
	}

	switch {
	case evt.Op&fsnotify.Write != 0:
		return EventDesktopListModify{Op: DesktopListUpdate, File: name}, true

	case evt.Op&fsnotify.Create != 0:
		return EventDesktopListModify{Op: DesktopListAdd, File: name}, true

	case evt.Op&fsnotify.Rename != 0:
		// Treat a rename as a remove; fsnotify does not report renames
		// properly, so it's apparently treated like a remove.
		// See: https://github.com/fsnotify/fsnotify/issues/26

		fallthrough
	case evt.Op&fsnotify.Remove != 0:
		return EventDesktopListModify{Op: DesktopListRemove, File: name}, true
	}

	return EventDesktopListModify{}, false
}
