package demo

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jtreslo/slidecast/internal/config"
	"github.com/jtreslo/slidecast/internal/ws"
)

func TestSessionRecordingFeatureFlag(t *testing.T) {
	tests := []struct {
		name           string
		enabled        bool
		wantRecordings bool
	}{
		{"flag on posts recordings", true, true},
		{"flag off posts nothing", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var recordingPosts atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/session-recording" {
					recordingPosts.Add(1)
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
			}))
			defer srv.Close()

			cfg := config.Default()
			cfg.Demo.SlideCount = 2
			cfg.Features.SessionRecording = tt.enabled
			cfg.Features.PerformanceMonitoring = false
			cfg.Recorder.MaxRetries = 0

			r := New(Options{
				Hub:     ws.NewHub(),
				Cfg:     cfg,
				Log:     log.New(io.Discard, "", 0),
				BaseURL: srv.URL,
			})

			// One full session ends with a recorder flush, so by the time
			// runSession returns, any batch has been posted.
			r.runSession(context.Background(), func(string) {})

			got := recordingPosts.Load() > 0
			if got != tt.wantRecordings {
				t.Errorf("recording posts = %d, want posts: %v", recordingPosts.Load(), tt.wantRecordings)
			}
		})
	}
}
