// Package viewer ties the slide deck, the session event recorder, and the
// timing tracker together for one presentation-viewing session. It is the
// ingestion point for UI input: keys come in, navigation state changes,
// events and timing metrics flow out. Telemetry failures never interrupt
// navigation.
package viewer

import (
	"context"
	"fmt"

	"github.com/jtreslo/slidecast/internal/a11y"
	"github.com/jtreslo/slidecast/internal/deck"
	"github.com/jtreslo/slidecast/internal/recorder"
	"github.com/jtreslo/slidecast/internal/telemetry"
)

// timingSlideTransition brackets the interval from a navigation input to the
// corresponding render completing.
const timingSlideTransition = "slide-transition"

// Session is one presentation-viewing instance.
type Session struct {
	ID      int64
	Deck    *deck.Deck
	Rec     *recorder.Recorder
	Tracker *telemetry.Tracker
	Prefs   *a11y.Store // optional
}

// HandleKey processes one keyboard input. It returns true when the key was
// consumed and the host must suppress the default browser behavior.
//
// Accessibility shortcuts (Alt+letter) take priority over navigation keys.
func (s *Session) HandleKey(key string, alt bool) bool {
	if s.Prefs != nil && s.Prefs.HandleKey(key, alt) {
		return true
	}

	switch deck.ResolveKey(key) {
	case deck.ActionNext:
		s.Next()
	case deck.ActionPrevious:
		s.Previous()
	default:
		return false
	}
	return true
}

// Next advances the deck, recording a navigation event and opening a
// slide-transition timing mark when the slide index changes.
func (s *Session) Next() {
	if !s.Deck.Next() {
		return
	}
	s.onSlideChange(s.Deck.Current())
}

// Previous steps the deck back, recording a navigation event and opening a
// slide-transition timing mark when the slide index changes.
func (s *Session) Previous() {
	if !s.Deck.Previous() {
		return
	}
	s.onSlideChange(s.Deck.Current())
}

func (s *Session) onSlideChange(to int) {
	if s.Tracker != nil {
		s.Tracker.StartTiming(timingSlideTransition)
	}
	if s.Rec != nil {
		s.Rec.RecordSlideChange(to, fmt.Sprintf("slide-%d", to))
	}
}

// TransitionRendered is the host's render-complete hook. It closes the
// slide-transition timing mark opened by the last navigation, producing a
// rated metric.
func (s *Session) TransitionRendered() telemetry.Metric {
	if s.Tracker == nil {
		return telemetry.Metric{}
	}
	return s.Tracker.EndTiming(timingSlideTransition, map[string]any{
		"slideIndex": s.Deck.Current(),
		"progress":   s.Deck.Progress(),
	})
}

// RecordClick records a click interaction for session recording.
func (s *Session) RecordClick(target string, data map[string]any) {
	if s.Rec == nil {
		return
	}
	payload := map[string]any{"target": target}
	for k, v := range data {
		payload[k] = v
	}
	s.Rec.RecordEvent("click", payload)
}

// RecordEngagement records a participant engagement event (question asked,
// poll answered, and so on).
func (s *Session) RecordEngagement(kind string, data map[string]any) {
	if s.Rec == nil {
		return
	}
	s.Rec.RecordEngagement(kind, data)
}

// Progress returns the deck's completion percentage.
func (s *Session) Progress() int { return s.Deck.Progress() }

// Close tears down the session: the recorder flushes one last time and the
// preference store detaches its system listeners.
func (s *Session) Close(ctx context.Context) {
	if s.Rec != nil {
		s.Rec.Cleanup(ctx)
	}
	if s.Prefs != nil {
		s.Prefs.Close()
	}
}
