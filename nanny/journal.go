package nanny

// Journaler describes an event logger. Implementations must be safe for
// concurrent writes.
type Journaler interface {
	Write(Event) error
}
