package nanny

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/theguy147/leftwm/nanny/internal/exec"
)

// Nanny boots the session's helper processes: the autostart desktop entries
// and the current theme's up script.
type Nanny struct {
	j Journaler

	// Spawn and lookup points, swappable in tests.
	startShell func(command string) (exec.Process, error)
	startFile  func(path string) (exec.Process, error)
	configDir  func() (string, error)
}

// NewNanny creates a Nanny that journals every launch decision to j.
func NewNanny(j Journaler) *Nanny {
	return &Nanny{
		j:          j,
		startShell: exec.StartShell,
		startFile: func(path string) (exec.Process, error) {
			return exec.StartProcess([]string{path})
		},
		configDir: os.UserConfigDir,
	}
}

// Autostart launches every eligible desktop entry in dir and returns the
// registry of spawned children. Files that fail to parse, are hidden, lack
// an Exec key or fail to spawn are skipped; one bad file never aborts the
// batch. An unreadable directory degrades to an empty registry with a
// journal warning.
func (n *Nanny) Autostart(dir string) Children {
	var children Children

	files, err := listDesktopFiles(dir)
	if err != nil {
		n.j.Write(&EventWarning{Component: "autostart", Error: err.Error()})
		return children
	}

	for _, file := range files {
		if proc, ok := n.BootDesktopFile(file); ok {
			children.Insert(proc)
		}
	}

	return children
}

// BootDesktopFile parses and launches a single desktop entry. The per-file
// outcome is written to the journal; the boolean reports whether a process
// was spawned.
func (n *Nanny) BootDesktopFile(path string) (exec.Process, bool) {
	file := filepath.Base(path)

	entries, err := parseDesktopFile(path)
	if err != nil {
		n.j.Write(&EventDesktopParseError{File: file, Error: err.Error()})
		return nil, false
	}

	if entries["Hidden"] == "true" {
		n.j.Write(&EventDesktopSkipped{File: file, Reason: SkipHidden})
		return nil, false
	}

	cmdline, ok := entries["Exec"]
	if !ok {
		n.j.Write(&EventDesktopSkipped{File: file, Reason: SkipNoExec})
		return nil, false
	}

	proc, err := n.startShell(sanitizeExec(cmdline))
	if err != nil {
		n.j.Write(&EventDesktopSpawnError{File: file, Reason: err.Error()})
		return nil, false
	}

	n.j.Write(&EventDesktopSpawned{File: file, PID: proc.PID()})
	return proc, true
}

// BootCurrentTheme runs the current theme's up script if one is installed
// under <config>/leftwm/themes/current/up. Absence of the script is a normal
// state and returns (nil, nil); failing to create the config directory or to
// spawn the script is an error.
func (n *Nanny) BootCurrentTheme() (exec.Process, error) {
	base, err := n.configDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve config directory")
	}

	dir := filepath.Join(base, "leftwm")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create config directory")
	}

	script := filepath.Join(dir, "themes", "current", "up")

	stat, err := os.Stat(script)
	if err != nil || !stat.Mode().IsRegular() {
		return nil, nil
	}

	proc, err := n.startFile(script)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run theme script")
	}

	n.j.Write(&EventThemeSpawned{PID: proc.PID(), Path: script})
	return proc, nil
}
