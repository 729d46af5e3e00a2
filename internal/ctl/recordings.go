package ctl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// RecordingsOptions controls the recordings command behavior.
type RecordingsOptions struct {
	Session int64 // filter by session id (0 = all)
	Limit   int
	JSON    bool
}

// RecordingRow mirrors one entry of the JSON returned by GET /api/recordings.
type RecordingRow struct {
	ID         string         `json:"recordingId"`
	SessionID  int64          `json:"sessionId"`
	EventCount int            `json:"eventCount"`
	Metadata   map[string]any `json:"metadata"`
	Timestamp  string         `json:"timestamp"`
}

// Recordings lists stored session-recording batches.
func Recordings(baseURL string, opts RecordingsOptions) error {
	q := url.Values{}
	if opts.Session != 0 {
		q.Set("session", strconv.FormatInt(opts.Session, 10))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/api/recordings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Recordings []RecordingRow `json:"recordings"`
	}
	if err := getJSON(baseURL, path, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp.Recordings)
	}

	if len(resp.Recordings) == 0 {
		fmt.Println("no recordings stored")
		return nil
	}

	fmt.Println()
	fmt.Println(header("  SESSION RECORDINGS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 64)))
	fmt.Printf("  %s %s %s %s\n",
		padRight("SESSION", 10), padRight("EVENTS", 8), padRight("DEVICE", 12), "TIME")
	for _, r := range resp.Recordings {
		device, _ := r.Metadata["deviceType"].(string)
		fmt.Printf("  %s %s %s %s\n",
			padRight(strconv.FormatInt(r.SessionID, 10), 10),
			padRight(strconv.Itoa(r.EventCount), 8),
			padRight(device, 12),
			colorize(dim, r.Timestamp),
		)
	}
	fmt.Println()

	return nil
}
