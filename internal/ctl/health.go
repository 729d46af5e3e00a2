package ctl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HealthResponse mirrors the JSON returned by GET /healthz with an
// application/json Accept header.
type HealthResponse struct {
	Healthy bool                      `json:"healthy"`
	Checks  map[string]map[string]any `json:"checks"`
}

// Health fetches the detailed health report and prints per-check results.
func Health(baseURL string, jsonOut bool) error {
	url := strings.TrimRight(baseURL, "/") + "/healthz"
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 503 still carries a useful body; anything else is a transport problem.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var h HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(h)
	}

	fmt.Println()
	fmt.Println(header("  SLIDECAST HEALTH"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))

	for name, check := range h.Checks {
		ok, _ := check["ok"].(bool)
		status := colorize(green, "ok")
		if !ok {
			status = colorize(red, "fail")
		}
		fmt.Printf("  %-16s %s", padRight(name+":", 16), status)
		if msg, has := check["error"].(string); has {
			fmt.Printf("  %s", colorize(dim, msg))
		}
		fmt.Println()
	}

	fmt.Println()
	if h.Healthy {
		fmt.Printf("  %s\n", colorize(green, "healthy"))
	} else {
		fmt.Printf("  %s\n", colorize(red, "unhealthy"))
	}
	fmt.Println()

	return nil
}
