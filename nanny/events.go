package nanny

// eventType describes an event type.
type eventType = string

const (
	eventWarning           eventType = "warning"
	eventAcquired          eventType = "acquired lock"
	eventThemeSpawned      eventType = "theme spawned"
	eventDesktopSpawned    eventType = "desktop entry spawned"
	eventDesktopSkipped    eventType = "desktop entry skipped"
	eventDesktopParseError eventType = "desktop entry parse error"
	eventDesktopSpawnError eventType = "desktop entry spawn error"
	eventDesktopListModify eventType = "desktop entry list modified"
)

// Event is an interface describing known events.
type Event interface {
	Type() string
	event()
}

// NewEvent creates a new event from the given event type. It is used
// primarily for decoding events from its type. Nil is returned if the event
// type is unknown.
func NewEvent(eventType string) Event {
	switch eventType {
	case eventWarning:
		return &EventWarning{}
	case eventAcquired:
		return &EventAcquired{}
	case eventThemeSpawned:
		return &EventThemeSpawned{}
	case eventDesktopSpawned:
		return &EventDesktopSpawned{}
	case eventDesktopSkipped:
		return &EventDesktopSkipped{}
	case eventDesktopParseError:
		return &EventDesktopParseError{}
	case eventDesktopSpawnError:
		return &EventDesktopSpawnError{}
	case eventDesktopListModify:
		return &EventDesktopListModify{}
	default:
		return nil
	}
}

// EventWarning is emitted when a non-fatal error occurs.
type EventWarning struct {
	Component string `json:"component"`
	Error     string `json:"error"`
}

func (ev *EventWarning) Type() string { return eventWarning }
func (ev *EventWarning) event()       {}

// EventAcquired is emitted when the write lock on the journal is acquired,
// which is on startup.
type EventAcquired struct{}

func (ev *EventAcquired) Type() string { return eventAcquired }
func (ev *EventAcquired) event()       {}

// EventThemeSpawned is emitted when the current theme's up script has been
// started.
type EventThemeSpawned struct {
	PID  int    `json:"pid"`
	Path string `json:"path"`
}

func (ev *EventThemeSpawned) Type() string { return eventThemeSpawned }
func (ev *EventThemeSpawned) event()       {}

// EventDesktopSpawned is emitted when a desktop entry's command has been
// started.
type EventDesktopSpawned struct {
	File string `json:"file"`
	PID  int    `json:"pid"`
}

func (ev *EventDesktopSpawned) Type() string { return eventDesktopSpawned }
func (ev *EventDesktopSpawned) event()       {}

// SkipReason tags why a desktop entry was skipped without being launched.
type SkipReason string

const (
	// SkipHidden marks an entry whose Hidden key is the literal "true".
	SkipHidden SkipReason = "hidden"
	// SkipNoExec marks an entry that carries no Exec key.
	SkipNoExec SkipReason = "no exec key"
)

// EventDesktopSkipped is emitted when a desktop entry is deliberately not
// launched. The skip never aborts the rest of the batch.
type EventDesktopSkipped struct {
	File   string     `json:"file"`
	Reason SkipReason `json:"reason"`
}

func (ev *EventDesktopSkipped) Type() string { return eventDesktopSkipped }
func (ev *EventDesktopSkipped) event()       {}

// EventDesktopParseError is emitted when a desktop file cannot be read or
// decoded.
type EventDesktopParseError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

func (ev *EventDesktopParseError) Type() string { return eventDesktopParseError }
func (ev *EventDesktopParseError) event()       {}

// EventDesktopSpawnError is emitted when a desktop entry's command fails to
// start for any reason.
type EventDesktopSpawnError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

func (ev *EventDesktopSpawnError) Type() string { return eventDesktopSpawnError }
func (ev *EventDesktopSpawnError) event()       {}

// EventDesktopListModify is emitted when a desktop file is added, updated or
// removed in the watched autostart directory.
type EventDesktopListModify struct {
	Op   DesktopListModifyOp `json:"op"`
	File string              `json:"file"`
}

// DesktopListModifyOp contains possible operations that modify the autostart
// directory's set of desktop files.
type DesktopListModifyOp string

const (
	DesktopListAdd    DesktopListModifyOp = "add"
	DesktopListRemove DesktopListModifyOp = "remove"
	DesktopListUpdate DesktopListModifyOp = "update"
)

func (ev *EventDesktopListModify) Type() string { return eventDesktopListModify }
func (ev *EventDesktopListModify) event()       {}
