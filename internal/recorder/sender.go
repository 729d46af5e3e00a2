package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPSender posts batches to the session-recording sink endpoint with
// bounded exponential backoff. One Send call retries up to MaxRetries times
// before giving up; the recorder then re-queues the batch's events.
type HTTPSender struct {
	URL        string
	MaxRetries int
	Backoff    time.Duration
	Client     *http.Client
}

// NewHTTPSender creates a sender for the given endpoint URL.
func NewHTTPSender(url string, maxRetries int, backoff time.Duration) *HTTPSender {
	return &HTTPSender{
		URL:        url,
		MaxRetries: maxRetries,
		Backoff:    backoff,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts b as JSON. Non-2xx responses count as failures. The backoff
// doubles after each attempt: backoff, 2*backoff, 4*backoff, ...
func (s *HTTPSender) Send(ctx context.Context, b Batch) error {
	body, err := json.Marshal(b)
	if err != nil {
		return err
	}

	var lastErr error
	delay := s.Backoff
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		lastErr = s.post(ctx, body)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", s.MaxRetries+1, lastErr)
}

func (s *HTTPSender) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %s", resp.Status)
	}
	return nil
}
