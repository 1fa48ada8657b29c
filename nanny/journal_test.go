package nanny

import (
	"reflect"
	"sync"
	"testing"
)

// mockJournal is an in-memory storage of journals, primarily used for
// testing. A zero-value instance is a valid instance.
type mockJournal struct {
	mutex    sync.Mutex
	journals []Event
}

var _ Journaler = (*mockJournal)(nil)

// Write appends a journal event into the internal store.
func (m *mockJournal) Write(ev Event) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.journals = append(m.journals, ev)
	return nil
}

// Journals returns the journal slice.
func (m *mockJournal) Journals() []Event {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.journals
}

// Verify verifies that the given journals slice is equal to the one stored
// internally. If strict is true, then a length check is performed as well.
func (m *mockJournal) Verify(t *testing.T, strict bool, journals []Event) {
	t.Helper()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if strict && len(journals) != len(m.journals) {
		t.Errorf("mismatch journal length, got %d, expected %d", len(m.journals), len(journals))
	}

	stored := m.journals

	for _, expect := range journals {
		var found bool
		for i, ev := range stored {
			if reflect.DeepEqual(ev, expect) {
				stored = append(stored[:i:i], stored[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			t.Errorf("event %#v not journaled", expect)
		}
	}
}
