package nanny

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/theguy147/leftwm/nanny/internal/exec"
)

// testNanny returns a Nanny whose spawn points only record what would have
// been executed.
func testNanny(j Journaler) (*Nanny, *[]string) {
	var commands []string
	nextPID := 0

	n := NewNanny(j)
	n.startShell = func(command string) (exec.Process, error) {
		commands = append(commands, command)
		nextPID++
		return exec.NewStubProcess(nextPID), nil
	}
	n.startFile = func(path string) (exec.Process, error) {
		commands = append(commands, path)
		nextPID++
		return exec.NewStubProcess(nextPID), nil
	}

	return n, &commands
}

func writeDesktopFile(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal("failed to write desktop file:", err)
	}
}

func TestAutostart(t *testing.T) {
	t.Run("empty dir", func(t *testing.T) {
		j := mockJournal{}
		n, _ := testNanny(&j)

		children := n.Autostart(t.TempDir())
		if !children.IsEmpty() {
			t.Error("expected empty registry for empty autostart dir")
		}

		j.Verify(t, true, nil)
	})

	t.Run("missing dir", func(t *testing.T) {
		j := mockJournal{}
		n, _ := testNanny(&j)

		children := n.Autostart(filepath.Join(t.TempDir(), "nope"))
		if !children.IsEmpty() {
			t.Error("expected empty registry for missing autostart dir")
		}
	})

	t.Run("batch", func(t *testing.T) {
		dir := t.TempDir()
		writeDesktopFile(t, dir, "browser.desktop", "Exec=firefox %U\n")
		writeDesktopFile(t, dir, "hidden.desktop", "Hidden=true\nExec=spyware\n")
		writeDesktopFile(t, dir, "noexec.desktop", "Name=nothing to run\n")
		writeDesktopFile(t, dir, "notes.txt", "Exec=ignored\n")

		j := mockJournal{}
		n, commands := testNanny(&j)

		children := n.Autostart(dir)
		if children.Len() != 1 {
			t.Error("expected exactly one spawned child, got", children.Len())
		}

		if len(*commands) != 1 || (*commands)[0] != "firefox " {
			t.Errorf("unexpected commands %q", *commands)
		}

		j.Verify(t, true, []Event{
			&EventDesktopSpawned{File: "browser.desktop", PID: 1},
			&EventDesktopSkipped{File: "hidden.desktop", Reason: SkipHidden},
			&EventDesktopSkipped{File: "noexec.desktop", Reason: SkipNoExec},
		})
	})

	t.Run("spawn failure does not abort batch", func(t *testing.T) {
		dir := t.TempDir()
		writeDesktopFile(t, dir, "bad.desktop", "Exec=nonexistent\n")
		writeDesktopFile(t, dir, "good.desktop", "Exec=works\n")

		j := mockJournal{}
		n, _ := testNanny(&j)

		var pid int
		n.startShell = func(command string) (exec.Process, error) {
			if command == "nonexistent" {
				return nil, errors.New("no such command")
			}
			pid++
			return exec.NewStubProcess(pid), nil
		}

		children := n.Autostart(dir)
		if children.Len() != 1 {
			t.Error("expected the surviving child only, got", children.Len())
		}

		j.Verify(t, true, []Event{
			&EventDesktopSpawnError{File: "bad.desktop", Reason: "no such command"},
			&EventDesktopSpawned{File: "good.desktop", PID: 1},
		})
	})

	t.Run("hidden wins over exec", func(t *testing.T) {
		dir := t.TempDir()
		writeDesktopFile(t, dir, "h.desktop", "Exec=thing\nHidden=true\n")

		j := mockJournal{}
		n, commands := testNanny(&j)

		children := n.Autostart(dir)
		if !children.IsEmpty() || len(*commands) != 0 {
			t.Error("hidden entry must never spawn")
		}
	})
}

func TestBootDesktopFileUnreadable(t *testing.T) {
	j := mockJournal{}
	n, _ := testNanny(&j)

	_, ok := n.BootDesktopFile(filepath.Join(t.TempDir(), "missing.desktop"))
	if ok {
		t.Error("expected boot of missing file to fail")
	}

	journals := j.Journals()
	if len(journals) != 1 || journals[0].Type() != eventDesktopParseError {
		t.Errorf("expected a parse error event, got %#v", journals)
	}
}

func TestBootCurrentTheme(t *testing.T) {
	t.Run("no script", func(t *testing.T) {
		base := t.TempDir()

		j := mockJournal{}
		n, _ := testNanny(&j)
		n.configDir = func() (string, error) { return base, nil }

		proc, err := n.BootCurrentTheme()
		if err != nil {
			t.Fatal("unexpected error:", err)
		}
		if proc != nil {
			t.Error("expected no handle without a theme script")
		}

		// The config base must have been created regardless.
		if _, err := os.Stat(filepath.Join(base, "leftwm")); err != nil {
			t.Error("config directory not created:", err)
		}
	})

	t.Run("script present", func(t *testing.T) {
		base := t.TempDir()
		script := filepath.Join(base, "leftwm", "themes", "current", "up")

		if err := os.MkdirAll(filepath.Dir(script), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0755); err != nil {
			t.Fatal(err)
		}

		j := mockJournal{}
		n, commands := testNanny(&j)
		n.configDir = func() (string, error) { return base, nil }

		proc, err := n.BootCurrentTheme()
		if err != nil {
			t.Fatal("unexpected error:", err)
		}
		if proc == nil {
			t.Fatal("expected a handle for the theme script")
		}

		if len(*commands) != 1 || (*commands)[0] != script {
			t.Errorf("unexpected spawns %q", *commands)
		}

		j.Verify(t, true, []Event{
			&EventThemeSpawned{PID: proc.PID(), Path: script},
		})
	})

	t.Run("spawn failure propagates", func(t *testing.T) {
		base := t.TempDir()
		script := filepath.Join(base, "leftwm", "themes", "current", "up")

		if err := os.MkdirAll(filepath.Dir(script), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(script, nil, 0755); err != nil {
			t.Fatal(err)
		}

		j := mockJournal{}
		n, _ := testNanny(&j)
		n.configDir = func() (string, error) { return base, nil }
		n.startFile = func(path string) (exec.Process, error) {
			return nil, errors.New("exec format error")
		}

		if _, err := n.BootCurrentTheme(); err == nil {
			t.Error("expected theme spawn failure to propagate")
		}
	})
}
