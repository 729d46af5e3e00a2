// Package demo simulates a full presentation-viewing session so the daemon,
// CLI, and monitoring dashboard can be tested end-to-end without a real
// viewer attached. The simulated viewer walks a fragment-bearing deck with
// plausible pacing, records interaction events through the real recorder,
// and brackets every transition with the real timing tracker, so the event
// stream looks exactly like live traffic.
package demo

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/jtreslo/slidecast/internal/config"
	"github.com/jtreslo/slidecast/internal/deck"
	"github.com/jtreslo/slidecast/internal/recorder"
	"github.com/jtreslo/slidecast/internal/telemetry"
	"github.com/jtreslo/slidecast/internal/viewer"
	"github.com/jtreslo/slidecast/internal/ws"
)

// Runner drives simulated viewing sessions on a configurable interval.
type Runner struct {
	hub     *ws.Hub
	cfg     config.Config
	log     *log.Logger
	baseURL string

	sessionSeq int64
}

// Options holds what the Runner needs from the app layer. BaseURL is the
// daemon's own loopback address; the simulated viewer talks to the real
// sink endpoints over HTTP like any other client.
type Options struct {
	Hub     *ws.Hub
	Cfg     config.Config
	Log     *log.Logger
	BaseURL string
}

// New creates a demo runner.
func New(opts Options) *Runner {
	return &Runner{
		hub:        opts.Hub,
		cfg:        opts.Cfg,
		log:        opts.Log,
		baseURL:    opts.BaseURL,
		sessionSeq: time.Now().Unix(),
	}
}

// Run kicks off the demo loop. It starts one simulated session shortly
// after boot, then repeats on the configured interval until ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context, setState func(string)) {
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": "demo mode active — simulating presentation sessions",
	})

	if !sleepOrCancel(ctx, 2*time.Second) {
		return
	}
	r.runSession(ctx, setState)

	interval := time.Duration(r.cfg.Demo.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 2 * time.Second
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.runSession(ctx, setState)
		}
	}
}

// runSession walks one simulated viewer through the whole deck: forward
// navigation with occasional back-steps, fragment reveals, clicks, and
// engagement events, ending with a recorder flush.
func (r *Runner) runSession(ctx context.Context, setState func(string)) {
	r.sessionSeq++
	sessionID := r.sessionSeq

	// A deck where roughly a third of the slides reveal fragments.
	fragments := make([]int, r.cfg.Demo.SlideCount)
	for i := range fragments {
		if rand.IntN(3) == 0 {
			fragments[i] = 1 + rand.IntN(3)
		}
	}

	var sinks []telemetry.Sink
	sinks = append(sinks, telemetry.NewAnalyticsSink(r.baseURL+"/api/monitor", sessionID))
	if r.cfg.Features.PerformanceMonitoring {
		sinks = append(sinks, telemetry.MonitorSink{Hub: r.hub})
	}
	reporter := telemetry.NewReporter(r.log, sinks...)

	// Recording is a gated telemetry surface: with the flag off, no recorder
	// exists and nothing is posted to the session-recording sink.
	var rec *recorder.Recorder
	if r.cfg.Features.SessionRecording {
		sender := recorder.NewHTTPSender(
			r.baseURL+"/api/session-recording",
			r.cfg.Recorder.MaxRetries,
			time.Duration(r.cfg.Recorder.BackoffSeconds)*time.Second,
		)
		rec = recorder.New(recorder.Options{
			SessionID: sessionID,
			Metadata: recorder.Metadata{
				Browser:    "slidecast-demo",
				OS:         runtime.GOOS,
				DeviceType: "desktop",
			},
			BatchSize:     r.cfg.Recorder.BatchSize,
			FlushInterval: time.Duration(r.cfg.Recorder.FlushIntervalSeconds) * time.Second,
			Logger:        r.log,
		}, sender)
	}

	sess := &viewer.Session{
		ID:      sessionID,
		Deck:    deck.NewWithFragments(fragments),
		Rec:     rec,
		Tracker: telemetry.NewTracker(r.log, reporter),
	}

	setState("PRESENTING")
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("session %d started: %d slides", sessionID, sess.Deck.Total()),
	})

	for !sess.Deck.IsLast() || sess.Deck.RevealedFragments() < fragments[sess.Deck.Current()] {
		if ctx.Err() != nil {
			sess.Close(context.Background())
			return
		}

		// Mostly forward, with the occasional back-step a real presenter
		// makes.
		key := deck.KeyArrowRight
		if rand.IntN(10) == 0 && !sess.Deck.IsFirst() {
			key = deck.KeyArrowLeft
		}
		sess.HandleKey(key, false)

		// Simulated render settle before closing the transition timing.
		if !sleepOrCancel(ctx, time.Duration(80+rand.IntN(240))*time.Millisecond) {
			sess.Close(context.Background())
			return
		}
		// Fragment reveals keep the slide index, so there is no open mark.
		if sess.Tracker.Pending("slide-transition") {
			sess.TransitionRendered()
		}

		if rand.IntN(4) == 0 {
			sess.RecordClick("button.next", map[string]any{"slideIndex": sess.Deck.Current()})
		}
		if rand.IntN(8) == 0 {
			sess.RecordEngagement("ask_question", map[string]any{"slideIndex": sess.Deck.Current()})
		}

		r.broadcast(map[string]any{
			"type":    "progress",
			"stage":   "presenting",
			"percent": sess.Progress(),
			"detail":  fmt.Sprintf("session %d: slide %d of %d", sessionID, sess.Deck.Current()+1, sess.Deck.Total()),
		})
	}

	setState("FLUSHING")
	sess.Close(ctx)

	setState("IDLE")
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("session %d complete", sessionID),
	})
}

func (r *Runner) broadcast(v map[string]any) {
	v["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	v["component"] = "demo"
	r.hub.BroadcastJSON(v)
}

func sleepOrCancel(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
