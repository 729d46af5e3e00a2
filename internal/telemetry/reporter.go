package telemetry

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Sink receives completed metrics. Implementations must be safe for
// concurrent use; a returned error is logged by the reporter and goes no
// further.
type Sink interface {
	Name() string
	Report(m Metric) error
}

// Reporter dispatches each metric to every configured sink. Dispatch is
// fire-and-forget: sinks run in their own goroutines, failures are logged
// independently, and Report never blocks on or propagates a sink error.
type Reporter struct {
	log   *log.Logger
	sinks []Sink
}

// NewReporter creates a reporter over the given sinks.
func NewReporter(logger *log.Logger, sinks ...Sink) *Reporter {
	return &Reporter{log: logger, sinks: sinks}
}

// Report dispatches m to all sinks. It never returns an error.
func (r *Reporter) Report(m Metric) {
	for _, s := range r.sinks {
		go func(s Sink) {
			if err := s.Report(m); err != nil && r.log != nil {
				r.log.Printf("metric sink %s failed: %v", s.Name(), err)
			}
		}(s)
	}
}

// LogSink writes metrics to a logger. Intended for non-production builds;
// callers decide whether to wire it in.
type LogSink struct {
	Log *log.Logger
}

func (s LogSink) Name() string { return "log" }

func (s LogSink) Report(m Metric) error {
	s.Log.Printf("performance: %s - %dms (%s)", m.Name, m.Value, m.Rating)
	return nil
}

// AnalyticsSink posts each metric to the monitor endpoint as an analytics
// event. Failures surface as errors for the reporter to log and swallow.
type AnalyticsSink struct {
	URL       string
	SessionID int64
	Client    *http.Client
}

// NewAnalyticsSink creates a sink targeting the given monitor endpoint URL.
// The HTTP client carries an explicit timeout so a stalled backend cannot
// pile up goroutines.
func NewAnalyticsSink(url string, sessionID int64) *AnalyticsSink {
	return &AnalyticsSink{
		URL:       url,
		SessionID: sessionID,
		Client:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *AnalyticsSink) Name() string { return "analytics" }

func (s *AnalyticsSink) Report(m Metric) error {
	payload := map[string]any{
		"type":  m.Name,
		"value": m.Value,
	}
	if s.SessionID != 0 {
		payload["sessionId"] = s.SessionID
	}
	if m.Rating != "" {
		payload["rating"] = string(m.Rating)
	}
	for k, v := range m.Context {
		payload[k] = v
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := s.Client.Post(s.URL, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// Broadcaster pushes a JSON-serializable event to live monitoring clients.
// *ws.Hub satisfies this.
type Broadcaster interface {
	BroadcastJSON(v any)
}

// MonitorSink forwards metrics to the real-time monitor channel. It is only
// wired in when the performance_monitoring feature flag is enabled.
type MonitorSink struct {
	Hub Broadcaster
}

func (s MonitorSink) Name() string { return "monitor" }

func (s MonitorSink) Report(m Metric) error {
	s.Hub.BroadcastJSON(map[string]any{
		"type":   "metric",
		"ts":     time.Now().UTC().Format(time.RFC3339Nano),
		"name":   m.Name,
		"value":  m.Value,
		"rating": string(m.Rating),
	})
	return nil
}
