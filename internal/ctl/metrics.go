package ctl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MetricsOptions controls the metrics command behavior.
type MetricsOptions struct {
	Type  string // filter by metric type
	Limit int    // limit number of rows shown
	JSON  bool
}

// MetricRow mirrors one entry of the JSON returned by GET /api/metrics.
type MetricRow struct {
	ID         string  `json:"metricId"`
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	SessionID  int64   `json:"sessionId"`
	DeviceType string  `json:"deviceType"`
	Browser    string  `json:"browser"`
	OS         string  `json:"os"`
	Timestamp  string  `json:"timestamp"`
}

// Metrics lists recently ingested performance metrics.
func Metrics(baseURL string, opts MetricsOptions) error {
	q := url.Values{}
	if opts.Type != "" {
		q.Set("type", opts.Type)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/api/metrics"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Metrics []MetricRow `json:"metrics"`
	}
	if err := getJSON(baseURL, path, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp.Metrics)
	}

	if len(resp.Metrics) == 0 {
		fmt.Println("no metrics recorded")
		return nil
	}

	fmt.Println()
	fmt.Println(header("  RECENT METRICS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 64)))
	fmt.Printf("  %s %s %s %s\n",
		padRight("TYPE", 24), padRight("VALUE", 10), padRight("SESSION", 10), "TIME")
	for _, m := range resp.Metrics {
		fmt.Printf("  %s %s %s %s\n",
			padRight(truncate(m.Type, 24), 24),
			padRight(fmt.Sprintf("%.0fms", m.Value), 10),
			padRight(strconv.FormatInt(m.SessionID, 10), 10),
			colorize(dim, m.Timestamp),
		)
	}
	fmt.Println()

	return nil
}
