// Package a11y implements the accessibility preference store: three binary
// preferences (reduced motion, high contrast, large text) initialized from
// persisted choices or system media queries, toggled by keyboard shortcuts,
// and mirrored to document marker classes and screen-reader announcements.
//
// The store is an explicit object with injected ports rather than ambient
// process state, so hosts and tests supply their own persistence, media
// query, and document implementations.
package a11y

// Storage is a key-value persistence port. Preference values are the
// strings "true" and "false".
type Storage interface {
	Get(key string) (value string, ok bool)
	Set(key, value string)
}

// MediaQuery exposes system preference signals. Subscribe returns a
// function that removes the listener.
type MediaQuery interface {
	Matches(query string) bool
	Subscribe(query string, fn func(matches bool)) (unsubscribe func())
}

// Document toggles marker classes on the root element.
type Document interface {
	AddClass(name string)
	RemoveClass(name string)
}

// Politeness selects how urgently assistive technology should interrupt.
type Politeness string

const (
	Polite    Politeness = "polite"
	Assertive Politeness = "assertive"
)

// LiveRegion is the screen-reader announcement surface.
type LiveRegion interface {
	Clear()
	Write(message string, politeness Politeness)
}
