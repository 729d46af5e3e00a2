// Package recorder accumulates per-session interaction events and flushes
// them to a backend sink in batches. Delivery is at-least-once: a failed
// flush returns its events to the front of the buffer, so nothing is lost
// but the backend may see a batch twice. Each batch carries an idempotency
// key so a deduplicating backend can drop the repeats.
package recorder

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one recorded interaction, engagement, or navigation event.
type Event struct {
	Type      string         `json:"type"`
	Timestamp int64          `json:"timestamp"` // epoch milliseconds
	Data      map[string]any `json:"data"`
}

// Metadata describes the client environment a session was recorded in.
type Metadata struct {
	Browser    string `json:"browser,omitempty"`
	OS         string `json:"os,omitempty"`
	DeviceType string `json:"deviceType,omitempty"`
}

// Batch is the wire shape sent to the session-recording sink.
type Batch struct {
	SessionID      int64    `json:"sessionId"`
	Events         []Event  `json:"events"`
	Metadata       Metadata `json:"metadata"`
	IdempotencyKey string   `json:"idempotencyKey,omitempty"`
}

// Sender delivers one batch to the backend. Implementations own their
// timeout and retry policy for a single call; the recorder handles
// re-queueing across calls.
type Sender interface {
	Send(ctx context.Context, b Batch) error
}

// Options configures a Recorder.
type Options struct {
	SessionID     int64
	Metadata      Metadata
	BatchSize     int           // flush when the buffer reaches this size
	FlushInterval time.Duration // periodic flush regardless of size
	Logger        *log.Logger
}

// Recorder buffers events for one session and flushes them via a Sender.
// All methods are safe for concurrent use.
type Recorder struct {
	opts   Options
	sender Sender

	mu       sync.Mutex
	events   []Event
	flushing bool

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a Recorder and starts its periodic flush loop. Callers must
// call Cleanup when the session ends.
func New(opts Options, sender Sender) *Recorder {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 10 * time.Second
	}

	r := &Recorder{
		opts:   opts,
		sender: sender,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go r.flushLoop()
	return r
}

// RecordEvent appends an event with a captured timestamp. Reaching the batch
// size triggers an asynchronous flush; the caller never blocks on delivery.
func (r *Recorder) RecordEvent(eventType string, data map[string]any) {
	ev := Event{
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}

	r.mu.Lock()
	r.events = append(r.events, ev)
	full := len(r.events) >= r.opts.BatchSize && !r.flushing
	r.mu.Unlock()

	if full {
		go r.Flush(context.Background())
	}
}

// RecordSlideChange records a navigation event for a slide transition.
func (r *Recorder) RecordSlideChange(slideIndex int, slideType string) {
	r.RecordEvent("slide_change", map[string]any{
		"slideIndex": slideIndex,
		"slideType":  slideType,
	})
}

// RecordEngagement records a participant engagement event.
func (r *Recorder) RecordEngagement(kind string, data map[string]any) {
	payload := map[string]any{"type": kind}
	for k, v := range data {
		payload[k] = v
	}
	r.RecordEvent("engagement", payload)
}

// Pending returns the number of buffered, unflushed events.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Flush snapshots the current buffer, clears it, and sends the snapshot as
// one batch. On failure the snapshot is prepended to whatever accumulated
// during the attempt, preserving chronological order. Concurrent flushes
// collapse into one.
func (r *Recorder) Flush(ctx context.Context) {
	r.mu.Lock()
	if r.flushing || len(r.events) == 0 {
		r.mu.Unlock()
		return
	}
	r.flushing = true
	snapshot := r.events
	r.events = nil
	r.mu.Unlock()

	batch := Batch{
		SessionID:      r.opts.SessionID,
		Events:         snapshot,
		Metadata:       r.opts.Metadata,
		IdempotencyKey: uuid.NewString(),
	}

	err := r.sender.Send(ctx, batch)

	r.mu.Lock()
	if err != nil {
		// Ownership of the snapshot returns to the buffer, ahead of any
		// events recorded while the send was in flight.
		r.events = append(snapshot, r.events...)
	}
	r.flushing = false
	r.mu.Unlock()

	if err != nil && r.opts.Logger != nil {
		r.opts.Logger.Printf("session recording flush failed, %d events re-queued: %v", len(snapshot), err)
	}
}

// flushLoop flushes on a fixed interval until Cleanup is called.
func (r *Recorder) flushLoop() {
	defer close(r.done)

	t := time.NewTicker(r.opts.FlushInterval)
	defer t.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-t.C:
			r.Flush(context.Background())
		}
	}
}

// Cleanup stops the periodic flush loop and performs one best-effort final
// flush. Safe to call more than once.
func (r *Recorder) Cleanup(ctx context.Context) {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	<-r.done
	r.Flush(ctx)
}
