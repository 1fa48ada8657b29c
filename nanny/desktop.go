package nanny

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// desktopExt is the extension of autostart descriptor files.
const desktopExt = ".desktop"

// ParseEntries reads desktop-entry key/value pairs from r. Lines are trimmed
// of surrounding whitespace; blank lines and # comments are skipped. Each
// remaining line is split on its first "=" into key and value; a line
// without "=" yields the whole line as key and an empty value. If a key
// occurs more than once, the last occurrence wins. Read failures, including
// lines that are not valid UTF-8, abort the whole file.
func ParseEntries(r io.Reader) (map[string]string, error) {
	entries := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !utf8.ValidString(line) {
			return nil, errors.New("line is not valid UTF-8")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, _ := strings.Cut(line, "=")
		if key != "" {
			entries[key] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read entries")
	}

	return entries, nil
}

// parseDesktopFile reads the desktop file at path into its entries.
func parseDesktopFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseEntries(f)
}

// sanitizeExec strips desktop-entry field codes (%u, %F and friends) from a
// raw Exec value and removes a single leading and trailing double quote if
// present. The result is still evaluated by a shell, so metacharacters
// inside the value are live; this is a known limitation, not an escaper.
func sanitizeExec(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	var skip bool
	for _, r := range raw {
		switch {
		case skip:
			skip = false
		case r == '%':
			skip = true
		default:
			b.WriteRune(r)
		}
	}

	s := strings.TrimPrefix(b.String(), `"`)
	return strings.TrimSuffix(s, `"`)
}

// listDesktopFiles returns the paths of the desktop files directly inside
// dir. A missing or non-directory path yields no files rather than an error;
// subdirectories are never descended into, and anything that is not a
// regular file (through symlinks) is excluded.
func listDesktopFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read autostart directory")
	}

	var files []string

	for _, ent := range ents {
		if filepath.Ext(ent.Name()) != desktopExt {
			continue
		}

		path := filepath.Join(dir, ent.Name())

		// Stat follows symlinks, so a linked descriptor still counts while a
		// directory named *.desktop does not.
		stat, err := os.Stat(path)
		if err != nil || !stat.Mode().IsRegular() {
			continue
		}

		files = append(files, path)
	}

	return files, nil
}
