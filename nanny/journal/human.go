package journal

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/theguy147/leftwm/nanny"
)

// HumanWriter is a journaler that writes one human-readable line per event,
// meant for a terminal or a session log rather than for parsing back.
type HumanWriter struct {
	mu sync.Mutex
	w  io.Writer
}

var _ nanny.Journaler = (*HumanWriter)(nil)

// NewHumanWriter creates a new human-readable journal writer.
func NewHumanWriter(w io.Writer) *HumanWriter {
	return &HumanWriter{w: w}
}

func (l *HumanWriter) Write(ev nanny.Event) error {
	fields, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "failed to marshal event")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err = fmt.Fprintf(l.w, "%s %s %s\n",
		time.Now().Format(time.Stamp), ev.Type(), fields)
	return err
}
