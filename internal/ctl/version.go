package ctl

import "fmt"

// VersionResponse mirrors the JSON returned by GET /api/version.
type VersionResponse struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuiltAt   string `json:"built_at"`
}

// VersionInfo fetches and prints the daemon's build information.
func VersionInfo(baseURL string, jsonOut bool) error {
	var v VersionResponse
	if err := getJSON(baseURL, "/api/version", &v); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(v)
	}

	fmt.Printf("slidecastd %s (go %s, built %s)\n", v.Version, v.GoVersion, v.BuiltAt)
	return nil
}
