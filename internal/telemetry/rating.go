package telemetry

import "strings"

// threshold holds the good/poor boundaries for one metric category, in ms.
// Values at or below good rate "good"; values at or above poor rate "poor".
type threshold struct {
	category string
	good     int64
	poor     int64
}

// thresholds is the fixed classification table. Order matters: the first
// category whose key is a substring of the metric name wins, so more specific
// keys come first. These are configuration, never adjusted at runtime.
var thresholds = []threshold{
	{"slide-transition", 300, 1000},
	{"slide-load", 500, 2000},
	{"api-request", 300, 1000},
	{"render", 100, 300},
	{"animation", 16, 50}, // 60fps budget: a frame should take <16ms
}

// defaultThreshold applies when no category key matches the metric name.
var defaultThreshold = threshold{"default", 200, 1000}

// Classify rates a duration (in ms) against the category matched by name.
func Classify(name string, valueMS int64) Rating {
	t := defaultThreshold
	for _, cand := range thresholds {
		if strings.Contains(name, cand.category) {
			t = cand
			break
		}
	}

	switch {
	case valueMS <= t.good:
		return RatingGood
	case valueMS >= t.poor:
		return RatingPoor
	default:
		return RatingNeedsImprovement
	}
}
