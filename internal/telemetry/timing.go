package telemetry

import (
	"log"
	"sync"
	"time"
)

// Tracker holds in-flight timing marks keyed by name. Marks for disjoint
// names never interfere; re-starting a name before ending it silently
// discards the earlier mark (last start wins).
type Tracker struct {
	log      *log.Logger
	reporter *Reporter

	mu      sync.Mutex
	timings map[string]time.Time
}

// NewTracker creates a Tracker that reports completed metrics through rep.
// A nil reporter is allowed; metrics are then returned but not dispatched.
func NewTracker(logger *log.Logger, rep *Reporter) *Tracker {
	return &Tracker{
		log:      logger,
		reporter: rep,
		timings:  make(map[string]time.Time),
	}
}

// StartTiming records the current time under name, overwriting any prior
// unfinished mark for that name.
func (t *Tracker) StartTiming(name string) {
	now := time.Now()
	t.mu.Lock()
	t.timings[name] = now
	t.mu.Unlock()
}

// EndTiming completes the mark for name, classifies the elapsed duration,
// reports the metric, and returns it. Ending a name that was never started
// logs a warning and returns a zero-value metric with no further side effect.
func (t *Tracker) EndTiming(name string, context map[string]any) Metric {
	end := time.Now()

	t.mu.Lock()
	start, ok := t.timings[name]
	if ok {
		delete(t.timings, name)
	}
	t.mu.Unlock()

	if !ok {
		if t.log != nil {
			t.log.Printf("warn: no timing started for %q", name)
		}
		return Metric{Name: name, Value: 0, Context: context}
	}

	duration := end.Sub(start)
	m := Metric{
		Name:      name,
		Value:     int64(duration.Round(time.Millisecond) / time.Millisecond),
		StartTime: start,
		Context:   context,
	}
	m.Rating = Classify(name, m.Value)

	if t.reporter != nil {
		t.reporter.Report(m)
	}
	return m
}

// Pending reports whether a mark is currently open for name.
func (t *Tracker) Pending(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.timings[name]
	return ok
}
