package a11y

import (
	"sync"
	"time"
)

// Preference identifies one of the binary accessibility preferences.
type Preference int

const (
	ReducedMotion Preference = iota
	HighContrast
	LargeText
	numPreferences
)

// prefSpec ties a preference to its storage key, document class, media
// query, and announcement wording.
type prefSpec struct {
	storageKey string
	class      string
	query      string
	label      string
}

// specs is indexed by Preference. LargeText has no dedicated media query;
// prefers-reduced-transparency is the closest available system signal and
// matches what viewer clients probe.
var specs = [numPreferences]prefSpec{
	ReducedMotion: {"reducedMotion", "reduced-motion", "(prefers-reduced-motion: reduce)", "Reduced motion"},
	HighContrast:  {"highContrast", "high-contrast", "(prefers-contrast: more)", "High contrast mode"},
	LargeText:     {"largeText", "large-text", "(prefers-reduced-transparency: reduce)", "Large text"},
}

// Store holds the accessibility preference state for one viewer process.
// It lives for the process lifetime; Close only detaches the media query
// listeners.
type Store struct {
	storage Storage
	media   MediaQuery
	doc     Document
	region  LiveRegion

	// announceDelay is the settle tick between clearing the live region and
	// writing the new message, so repeated identical announcements re-fire.
	announceDelay time.Duration

	mu           sync.Mutex
	enabled      [numPreferences]bool
	overridden   [numPreferences]bool // set once the user explicitly toggles
	screenReader bool
	announceSeq  uint64 // superseded pending announcements are dropped
	unsubscribes []func()
}

// NewStore initializes a store. Each preference takes its persisted value if
// one exists, otherwise the current system media query state. System change
// subscriptions stay active until Close.
func NewStore(storage Storage, media MediaQuery, doc Document, region LiveRegion) *Store {
	s := &Store{
		storage:       storage,
		media:         media,
		doc:           doc,
		region:        region,
		announceDelay: 50 * time.Millisecond,
	}

	for p := Preference(0); p < numPreferences; p++ {
		spec := specs[p]
		if v, ok := storage.Get(spec.storageKey); ok {
			s.enabled[p] = v == "true"
			s.overridden[p] = true
		} else {
			s.enabled[p] = media.Matches(spec.query)
		}
		s.applyClass(p)

		p := p
		unsub := media.Subscribe(spec.query, func(matches bool) {
			s.systemChange(p, matches)
		})
		s.unsubscribes = append(s.unsubscribes, unsub)
	}

	return s
}

// Enabled reports the current state of a preference.
func (s *Store) Enabled(p Preference) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled[p]
}

// Toggle flips a preference, marks it user-overridden, updates the document
// class, persists the choice, and announces the new state.
func (s *Store) Toggle(p Preference) {
	s.mu.Lock()
	s.enabled[p] = !s.enabled[p]
	s.overridden[p] = true
	on := s.enabled[p]
	s.applyClass(p)
	s.mu.Unlock()

	spec := specs[p]
	if on {
		s.storage.Set(spec.storageKey, "true")
		s.Announce(spec.label+" enabled", Polite)
	} else {
		s.storage.Set(spec.storageKey, "false")
		s.Announce(spec.label+" disabled", Polite)
	}
}

// systemChange applies a system preference signal. An explicit user toggle
// takes precedence over any later system change.
func (s *Store) systemChange(p Preference, matches bool) {
	s.mu.Lock()
	if s.overridden[p] || s.enabled[p] == matches {
		s.mu.Unlock()
		return
	}
	s.enabled[p] = matches
	s.applyClass(p)
	s.mu.Unlock()
}

// applyClass syncs the marker class with the preference state. Callers hold
// s.mu.
func (s *Store) applyClass(p Preference) {
	if s.enabled[p] {
		s.doc.AddClass(specs[p].class)
	} else {
		s.doc.RemoveClass(specs[p].class)
	}
}

// SetScreenReaderDetected records whether assistive technology appears to
// be active, based on interaction heuristics upstream.
func (s *Store) SetScreenReaderDetected(detected bool) {
	s.mu.Lock()
	s.screenReader = detected
	s.mu.Unlock()
}

// ScreenReaderDetected reports the last recorded detection state.
func (s *Store) ScreenReaderDetected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screenReader
}

// Announce writes a message to the live region, clearing it first and
// waiting one tick so assistive technology registers the change even when
// the same message repeats. A newer announcement issued during the tick
// supersedes the pending one, so the latest message always lands last.
func (s *Store) Announce(message string, politeness Politeness) {
	s.region.Clear()
	s.mu.Lock()
	s.announceSeq++
	seq := s.announceSeq
	s.mu.Unlock()

	go func() {
		time.Sleep(s.announceDelay)
		s.mu.Lock()
		superseded := seq != s.announceSeq
		s.mu.Unlock()
		if superseded {
			return
		}
		s.region.Write(message, politeness)
	}()
}

// HandleKey processes an accessibility keyboard shortcut. It returns true
// when the key was consumed (Alt+A, Alt+C, Alt+M, Alt+T), in which case the
// caller must suppress the default browser behavior.
func (s *Store) HandleKey(key string, alt bool) bool {
	if !alt {
		return false
	}
	switch key {
	case "a":
		s.Announce("Accessibility menu opened. Use arrow keys to navigate options.", Polite)
	case "c":
		s.Toggle(HighContrast)
	case "m":
		s.Toggle(ReducedMotion)
	case "t":
		s.Toggle(LargeText)
	default:
		return false
	}
	return true
}

// Close removes the media query subscriptions. Preference state remains
// valid afterwards.
func (s *Store) Close() {
	for _, unsub := range s.unsubscribes {
		unsub()
	}
	s.unsubscribes = nil
}
