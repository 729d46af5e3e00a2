package recorder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeSender records delivered batches and can be told to fail.
type fakeSender struct {
	mu      sync.Mutex
	batches []Batch
	fail    bool
	sent    chan struct{}
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(chan struct{}, 16)}
}

func (f *fakeSender) Send(_ context.Context, b Batch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { f.sent <- struct{}{} }()
	if f.fail {
		return errors.New("sink unreachable")
	}
	f.batches = append(f.batches, b)
	return nil
}

func (f *fakeSender) setFail(fail bool) {
	f.mu.Lock()
	f.fail = fail
	f.mu.Unlock()
}

func (f *fakeSender) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func (f *fakeSender) lastBatch() Batch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.batches[len(f.batches)-1]
}

func (f *fakeSender) waitSend(t *testing.T) {
	t.Helper()
	select {
	case <-f.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a send attempt")
	}
}

func newTestRecorder(t *testing.T, opts Options, sender Sender) *Recorder {
	t.Helper()
	if opts.FlushInterval == 0 {
		// Keep the periodic loop out of the way unless a test wants it.
		opts.FlushInterval = time.Hour
	}
	r := New(opts, sender)
	t.Cleanup(func() { r.Cleanup(context.Background()) })
	return r
}

func TestRecordEventBuffers(t *testing.T) {
	sender := newFakeSender()
	r := newTestRecorder(t, Options{SessionID: 1, BatchSize: 50}, sender)

	r.RecordEvent("click", map[string]any{"target": "next-button"})
	r.RecordEvent("click", nil)

	if got := r.Pending(); got != 2 {
		t.Errorf("Pending() = %d, want 2", got)
	}
	if sender.batchCount() != 0 {
		t.Error("no flush should happen below the batch size")
	}
}

func TestBatchSizeTriggersFlush(t *testing.T) {
	sender := newFakeSender()
	r := newTestRecorder(t, Options{SessionID: 7, BatchSize: 50}, sender)

	for i := 0; i < 50; i++ {
		r.RecordEvent("click", map[string]any{"i": i})
	}

	sender.waitSend(t)
	if got := sender.batchCount(); got != 1 {
		t.Fatalf("batchCount = %d, want exactly 1", got)
	}

	b := sender.lastBatch()
	if b.SessionID != 7 {
		t.Errorf("SessionID = %d, want 7", b.SessionID)
	}
	if len(b.Events) != 50 {
		t.Errorf("batch has %d events, want 50", len(b.Events))
	}
	if b.IdempotencyKey == "" {
		t.Error("batch should carry an idempotency key")
	}
	if got := r.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0 after flush", got)
	}
}

func TestFailedFlushRequeuesInOrder(t *testing.T) {
	sender := newFakeSender()
	sender.setFail(true)
	r := newTestRecorder(t, Options{SessionID: 1, BatchSize: 50}, sender)

	r.RecordEvent("first", nil)
	r.RecordEvent("second", nil)
	r.Flush(context.Background())

	if got := r.Pending(); got != 2 {
		t.Fatalf("Pending() = %d, want 2 after failed flush", got)
	}

	// Events recorded during the outage land behind the re-queued ones.
	r.RecordEvent("third", nil)
	sender.setFail(false)
	r.Flush(context.Background())

	if sender.batchCount() != 1 {
		t.Fatalf("batchCount = %d, want 1", sender.batchCount())
	}
	b := sender.lastBatch()
	want := []string{"first", "second", "third"}
	if len(b.Events) != len(want) {
		t.Fatalf("batch has %d events, want %d", len(b.Events), len(want))
	}
	for i, ev := range b.Events {
		if ev.Type != want[i] {
			t.Errorf("event %d = %q, want %q", i, ev.Type, want[i])
		}
	}
}

func TestFlushEmptyIsNoop(t *testing.T) {
	sender := newFakeSender()
	r := newTestRecorder(t, Options{SessionID: 1, BatchSize: 50}, sender)

	r.Flush(context.Background())
	if sender.batchCount() != 0 {
		t.Error("flushing an empty buffer should not send")
	}
}

func TestPeriodicFlush(t *testing.T) {
	sender := newFakeSender()
	r := newTestRecorder(t, Options{
		SessionID:     1,
		BatchSize:     50,
		FlushInterval: 20 * time.Millisecond,
	}, sender)

	r.RecordEvent("click", nil)
	sender.waitSend(t)

	if sender.lastBatch().Events[0].Type != "click" {
		t.Error("periodic flush should deliver the buffered event")
	}
}

func TestCleanupFlushesRemainder(t *testing.T) {
	sender := newFakeSender()
	r := New(Options{SessionID: 2, BatchSize: 50, FlushInterval: time.Hour}, sender)

	r.RecordEvent("last-click", nil)
	r.Cleanup(context.Background())

	if sender.batchCount() != 1 {
		t.Fatalf("batchCount = %d, want 1 after Cleanup", sender.batchCount())
	}
	if sender.lastBatch().Events[0].Type != "last-click" {
		t.Error("Cleanup should flush the remaining events")
	}

	// Idempotent.
	r.Cleanup(context.Background())
}

func TestRecordSlideChange(t *testing.T) {
	sender := newFakeSender()
	r := newTestRecorder(t, Options{SessionID: 1, BatchSize: 50}, sender)

	r.RecordSlideChange(4, "slide-4")
	r.Flush(context.Background())

	ev := sender.lastBatch().Events[0]
	if ev.Type != "slide_change" {
		t.Errorf("Type = %q, want slide_change", ev.Type)
	}
	if ev.Data["slideIndex"] != 4 {
		t.Errorf("slideIndex = %v, want 4", ev.Data["slideIndex"])
	}
	if ev.Data["slideType"] != "slide-4" {
		t.Errorf("slideType = %v, want slide-4", ev.Data["slideType"])
	}
	if ev.Timestamp == 0 {
		t.Error("event should carry a timestamp")
	}
}

func TestRecordEngagement(t *testing.T) {
	sender := newFakeSender()
	r := newTestRecorder(t, Options{SessionID: 1, BatchSize: 50}, sender)

	r.RecordEngagement("poll_answered", map[string]any{"option": "b"})
	r.Flush(context.Background())

	ev := sender.lastBatch().Events[0]
	if ev.Type != "engagement" {
		t.Errorf("Type = %q, want engagement", ev.Type)
	}
	if ev.Data["type"] != "poll_answered" || ev.Data["option"] != "b" {
		t.Errorf("unexpected data: %v", ev.Data)
	}
}

func TestDefaultOptions(t *testing.T) {
	sender := newFakeSender()
	r := New(Options{SessionID: 1}, sender)
	defer r.Cleanup(context.Background())

	if r.opts.BatchSize != 50 {
		t.Errorf("BatchSize default = %d, want 50", r.opts.BatchSize)
	}
	if r.opts.FlushInterval != 10*time.Second {
		t.Errorf("FlushInterval default = %v, want 10s", r.opts.FlushInterval)
	}
}
