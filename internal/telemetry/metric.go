// Package telemetry implements the performance measurement pipeline: named
// timing marks, duration rating, and fan-out reporting to sinks. Metrics are
// best-effort throughout; nothing in this package ever fails the caller.
package telemetry

import "time"

// Rating is a three-level qualitative classification of a measured duration.
type Rating string

const (
	RatingGood             Rating = "good"
	RatingNeedsImprovement Rating = "needs-improvement"
	RatingPoor             Rating = "poor"
)

// Metric is one completed performance measurement. It is immutable once
// constructed; sinks receive it by value.
type Metric struct {
	Name      string         `json:"name"`
	Value     int64          `json:"value"` // milliseconds, rounded
	StartTime time.Time      `json:"start_time,omitempty"`
	Rating    Rating         `json:"rating"`
	Context   map[string]any `json:"context,omitempty"`
}
