package ctl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// LogsOptions controls the logs command behavior.
type LogsOptions struct {
	Level string // filter by log level (info, warning, error)
	Limit int    // limit number of entries shown
	Tail  bool   // stream live log events instead of querying history
	JSON  bool
}

// LogRow mirrors one entry of the JSON returned by GET /api/logs.
type LogRow struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	SessionID int64          `json:"sessionId"`
	SlideType string         `json:"slideType"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp string         `json:"timestamp"`
}

// Logs lists persisted log entries, or streams live ones with --tail.
func Logs(baseURL string, opts LogsOptions) error {
	if opts.Tail {
		return Watch(baseURL, WatchOptions{Filter: []string{"log"}, JSON: opts.JSON})
	}

	q := url.Values{}
	if opts.Level != "" {
		q.Set("level", opts.Level)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/api/logs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Logs []LogRow `json:"logs"`
	}
	if err := getJSON(baseURL, path, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp.Logs)
	}

	if len(resp.Logs) == 0 {
		fmt.Println("no log entries")
		return nil
	}

	fmt.Println()
	for _, e := range resp.Logs {
		level := e.Type
		if level == "" {
			level = "info"
		}
		fmt.Printf("  %s %s %s\n",
			colorize(dim, e.Timestamp),
			colorize(levelColor(level), padRight(strings.ToUpper(level), 8)),
			e.Message,
		)
	}
	fmt.Println()

	return nil
}
