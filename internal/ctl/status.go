package ctl

import (
	"fmt"
	"strings"
	"time"
)

// StatusResponse mirrors the JSON returned by GET /api/status.
type StatusResponse struct {
	Name           string          `json:"name"`
	State          string          `json:"state"`
	UptimeSeconds  int64           `json:"uptime_seconds"`
	DataRoot       string          `json:"data_root"`
	DemoEnabled    bool            `json:"demo_enabled"`
	MonitorClients int64           `json:"monitor_clients"`
	Features       map[string]bool `json:"features"`
}

// Status fetches the daemon status and prints a formatted summary.
func Status(baseURL string, jsonOut bool) error {
	var s StatusResponse
	if err := getJSON(baseURL, "/api/status", &s); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(s)
	}

	uptime := formatDuration(time.Duration(s.UptimeSeconds) * time.Second)
	stateStr := colorize(stateColor(s.State), s.State)

	mode := "live"
	if s.DemoEnabled {
		mode = "demo"
	}

	var flags []string
	for name, on := range s.Features {
		if on {
			flags = append(flags, name)
		}
	}

	fmt.Println()
	fmt.Println(header("  SLIDECAST STATUS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	fmt.Printf("  %-12s %s\n", colorize(dim, "Daemon:"), s.Name)
	fmt.Printf("  %-12s %s\n", colorize(dim, "State:"), stateStr)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Mode:"), mode)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Uptime:"), uptime)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Data:"), s.DataRoot)
	fmt.Printf("  %-12s %d\n", colorize(dim, "Monitors:"), s.MonitorClients)
	if len(flags) > 0 {
		fmt.Printf("  %-12s %s\n", colorize(dim, "Features:"), strings.Join(flags, ", "))
	}
	fmt.Printf("  %-12s %s\n", colorize(dim, "Host:"), strings.TrimRight(baseURL, "/"))
	fmt.Println()

	return nil
}
