package a11y

import (
	"sync"
	"testing"
	"time"
)

type fakeStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: make(map[string]string)}
}

func (f *fakeStorage) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeStorage) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

// fakeMedia simulates system media query state and lets tests push changes
// to subscribers.
type fakeMedia struct {
	mu        sync.Mutex
	matches   map[string]bool
	listeners map[string][]func(bool)
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{
		matches:   make(map[string]bool),
		listeners: make(map[string][]func(bool)),
	}
}

func (f *fakeMedia) Matches(query string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matches[query]
}

func (f *fakeMedia) Subscribe(query string, fn func(bool)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners[query] = append(f.listeners[query], fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.listeners[query] = nil
	}
}

func (f *fakeMedia) change(query string, matches bool) {
	f.mu.Lock()
	f.matches[query] = matches
	fns := append([]func(bool){}, f.listeners[query]...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(matches)
	}
}

type fakeDoc struct {
	mu      sync.Mutex
	classes map[string]bool
}

func newFakeDoc() *fakeDoc {
	return &fakeDoc{classes: make(map[string]bool)}
}

func (f *fakeDoc) AddClass(class string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classes[class] = true
}

func (f *fakeDoc) RemoveClass(class string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.classes, class)
}

func (f *fakeDoc) has(class string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.classes[class]
}

// fakeRegion records live region activity. Messages arrive asynchronously
// after the announce delay, so reads go through a channel.
type fakeRegion struct {
	mu      sync.Mutex
	clears  int
	written chan string
}

func newFakeRegion() *fakeRegion {
	return &fakeRegion{written: make(chan string, 16)}
}

func (f *fakeRegion) Clear() {
	f.mu.Lock()
	f.clears++
	f.mu.Unlock()
}

func (f *fakeRegion) Write(message string, _ Politeness) {
	f.written <- message
}

func (f *fakeRegion) clearCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

func (f *fakeRegion) waitMessage(t *testing.T) string {
	t.Helper()
	select {
	case msg := <-f.written:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for announcement")
		return ""
	}
}

type fixture struct {
	storage *fakeStorage
	media   *fakeMedia
	doc     *fakeDoc
	region  *fakeRegion
	store   *Store
}

func setup(t *testing.T, prep func(*fakeStorage, *fakeMedia)) *fixture {
	t.Helper()
	f := &fixture{
		storage: newFakeStorage(),
		media:   newFakeMedia(),
		doc:     newFakeDoc(),
		region:  newFakeRegion(),
	}
	if prep != nil {
		prep(f.storage, f.media)
	}
	f.store = NewStore(f.storage, f.media, f.doc, f.region)
	f.store.announceDelay = time.Millisecond
	t.Cleanup(f.store.Close)
	return f
}

func TestInitFromSystemProbe(t *testing.T) {
	f := setup(t, func(_ *fakeStorage, m *fakeMedia) {
		m.matches["(prefers-reduced-motion: reduce)"] = true
	})

	if !f.store.Enabled(ReducedMotion) {
		t.Error("reduced motion should follow the system probe")
	}
	if f.store.Enabled(HighContrast) || f.store.Enabled(LargeText) {
		t.Error("unmatched preferences should start disabled")
	}
	if !f.doc.has("reduced-motion") {
		t.Error("document class should be applied on init")
	}
}

func TestInitPersistedValueWinsOverProbe(t *testing.T) {
	f := setup(t, func(s *fakeStorage, m *fakeMedia) {
		// System says reduce, the user previously said no.
		m.matches["(prefers-reduced-motion: reduce)"] = true
		s.data["reducedMotion"] = "false"
		s.data["highContrast"] = "true"
	})

	if f.store.Enabled(ReducedMotion) {
		t.Error("persisted false should override the system probe")
	}
	if !f.store.Enabled(HighContrast) {
		t.Error("persisted true should enable the preference")
	}
	if !f.doc.has("high-contrast") {
		t.Error("document class should reflect the persisted value")
	}
}

func TestToggle(t *testing.T) {
	f := setup(t, nil)

	f.store.Toggle(HighContrast)
	if !f.store.Enabled(HighContrast) {
		t.Error("toggle should enable the preference")
	}
	if !f.doc.has("high-contrast") {
		t.Error("toggle should apply the document class")
	}
	if v, _ := f.storage.Get("highContrast"); v != "true" {
		t.Errorf("storage = %q, want true", v)
	}
	if msg := f.region.waitMessage(t); msg != "High contrast mode enabled" {
		t.Errorf("announcement = %q", msg)
	}

	f.store.Toggle(HighContrast)
	if f.store.Enabled(HighContrast) {
		t.Error("second toggle should disable the preference")
	}
	if f.doc.has("high-contrast") {
		t.Error("second toggle should remove the document class")
	}
	if v, _ := f.storage.Get("highContrast"); v != "false" {
		t.Errorf("storage = %q, want false", v)
	}
	if msg := f.region.waitMessage(t); msg != "High contrast mode disabled" {
		t.Errorf("announcement = %q", msg)
	}
}

func TestUserOverrideBeatsSystemChange(t *testing.T) {
	f := setup(t, nil)

	// User explicitly enables reduced motion, then the system signal drops.
	f.store.Toggle(ReducedMotion)
	f.media.change("(prefers-reduced-motion: reduce)", false)

	if !f.store.Enabled(ReducedMotion) {
		t.Error("system change must not undo an explicit user toggle")
	}
}

func TestSystemChangeAppliesWithoutOverride(t *testing.T) {
	f := setup(t, nil)

	f.media.change("(prefers-contrast: more)", true)
	if !f.store.Enabled(HighContrast) {
		t.Error("system change should apply when the user never toggled")
	}
	if !f.doc.has("high-contrast") {
		t.Error("system change should apply the document class")
	}

	f.media.change("(prefers-contrast: more)", false)
	if f.store.Enabled(HighContrast) {
		t.Error("system change back should disable the preference")
	}
}

func TestAnnounceClearsBeforeWriting(t *testing.T) {
	f := setup(t, nil)

	f.store.Announce("Slide 3 of 10", Polite)
	if f.region.clearCount() != 1 {
		t.Errorf("clearCount = %d, want 1 before the write", f.region.clearCount())
	}
	if msg := f.region.waitMessage(t); msg != "Slide 3 of 10" {
		t.Errorf("message = %q", msg)
	}

	// The same message announced again still lands, because of the
	// clear-then-write cycle.
	f.store.Announce("Slide 3 of 10", Polite)
	if msg := f.region.waitMessage(t); msg != "Slide 3 of 10" {
		t.Errorf("repeat message = %q", msg)
	}
}

func TestRapidAnnouncementsLatestWins(t *testing.T) {
	f := setup(t, nil)
	f.store.announceDelay = 20 * time.Millisecond

	// Two announcements inside one settle tick: the first is superseded and
	// only the latest message may reach the live region.
	f.store.Announce("first", Polite)
	f.store.Announce("second", Polite)

	if msg := f.region.waitMessage(t); msg != "second" {
		t.Errorf("message = %q, want the latest announcement", msg)
	}

	select {
	case msg := <-f.region.written:
		t.Errorf("stale announcement %q reached the live region", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		alt      bool
		consumed bool
		toggles  Preference
		noToggle bool
	}{
		{"alt-c toggles contrast", "c", true, true, HighContrast, false},
		{"alt-m toggles motion", "m", true, true, ReducedMotion, false},
		{"alt-t toggles text", "t", true, true, LargeText, false},
		{"alt-a announces only", "a", true, true, 0, true},
		{"no alt ignored", "c", false, false, 0, true},
		{"unknown key ignored", "x", true, false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, nil)

			if got := f.store.HandleKey(tt.key, tt.alt); got != tt.consumed {
				t.Errorf("HandleKey(%q, %v) = %v, want %v", tt.key, tt.alt, got, tt.consumed)
			}
			if !tt.noToggle && !f.store.Enabled(tt.toggles) {
				t.Errorf("expected preference %v toggled on", tt.toggles)
			}
		})
	}
}

func TestScreenReaderDetection(t *testing.T) {
	f := setup(t, nil)

	if f.store.ScreenReaderDetected() {
		t.Error("detection should start false")
	}
	f.store.SetScreenReaderDetected(true)
	if !f.store.ScreenReaderDetected() {
		t.Error("detection flag should stick")
	}
}

func TestCloseDetachesListeners(t *testing.T) {
	f := setup(t, nil)
	f.store.Close()

	f.media.change("(prefers-contrast: more)", true)
	if f.store.Enabled(HighContrast) {
		t.Error("system changes after Close should be ignored")
	}
}
