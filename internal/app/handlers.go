package app

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/jtreslo/slidecast/internal/store"
)

// ---------------------------------------------------------------------------
// Core handlers
// ---------------------------------------------------------------------------

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	// If the client asks for JSON, return component-level health checks.
	if r.Header.Get("Accept") == "application/json" {
		a.handleHealthDetailed(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"name":            "slidecast",
		"state":           a.state.Load().(string),
		"uptime_seconds":  int64(time.Since(a.startedAt).Seconds()),
		"data_root":       a.cfg.Data.Root,
		"demo_enabled":    a.cfg.Demo.Enabled,
		"monitor_clients": a.wsHub.ClientCount(),
		"features": map[string]bool{
			"performance_monitoring": a.cfg.Features.PerformanceMonitoring,
			"session_recording":      a.cfg.Features.SessionRecording,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleHealthDetailed(w http.ResponseWriter, _ *http.Request) {
	checks := map[string]any{}
	allOK := true

	// Store reachable: a trivial query exercises the SQLite handle.
	if _, err := a.store.ListMetrics("", 1); err != nil {
		checks["store"] = map[string]any{"ok": false, "error": err.Error()}
		allOK = false
	} else {
		checks["store"] = map[string]any{"ok": true}
	}

	checks["monitor_hub"] = map[string]any{
		"ok":      true,
		"clients": a.wsHub.ClientCount(),
	}

	checks["runtime"] = map[string]any{
		"ok":         true,
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"healthy": allOK,
		"checks":  checks,
	})
}

// ---------------------------------------------------------------------------
// Sink endpoints
// ---------------------------------------------------------------------------

// handleMonitor ingests one performance metric. Required fields: type
// (string) and value (number); anything else is optional.
func (a *App) handleMonitor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Type       string   `json:"type"`
		Value      *float64 `json:"value"`
		SessionID  int64    `json:"sessionId"`
		Rating     string   `json:"rating"`
		DeviceInfo struct {
			Type    string `json:"type"`
			Browser string `json:"browser"`
			OS      string `json:"os"`
		} `json:"deviceInfo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.Type == "" || req.Value == nil {
		jsonError(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	m := store.Metric{
		Type:       req.Type,
		Value:      *req.Value,
		SessionID:  req.SessionID,
		DeviceType: req.DeviceInfo.Type,
		Browser:    req.DeviceInfo.Browser,
		OS:         req.DeviceInfo.OS,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	metricID, err := a.store.InsertMetric(m)
	if err != nil {
		a.log.Printf("metric insert failed: %v", err)
		jsonError(w, "Failed to process metric data", http.StatusInternalServerError)
		return
	}

	// Slow page loads trip a performance alert over and above normal
	// metric handling.
	if req.Type == "page_load" && *req.Value > float64(a.cfg.Monitor.SlowPageLoadMS) {
		a.log.Printf("PERFORMANCE ALERT: slow page load detected: value=%.0fms session=%d device=%s",
			*req.Value, req.SessionID, req.DeviceInfo.Type)
		a.emit("monitor", map[string]any{
			"type":       "alert",
			"alert":      "slow_page_load",
			"value":      *req.Value,
			"session_id": req.SessionID,
		})
	}

	a.emit("monitor", map[string]any{
		"type":   "metric",
		"name":   req.Type,
		"value":  *req.Value,
		"rating": req.Rating,
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "metricId": metricID})
}

// handleLogger ingests one log record. Unlike the other sinks this endpoint
// performs no required-field validation; an empty message is accepted. That
// asymmetry is inherited behavior clients depend on.
func (a *App) handleLogger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Type      string         `json:"type"`
		Message   string         `json:"message"`
		SessionID int64          `json:"sessionId"`
		SlideType string         `json:"slideType"`
		Metadata  map[string]any `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	e := store.LogEntry{
		Type:      req.Type,
		Message:   req.Message,
		SessionID: req.SessionID,
		SlideType: req.SlideType,
		Metadata:  req.Metadata,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := a.store.InsertLog(e); err != nil {
		a.log.Printf("log insert failed: %v", err)
		jsonError(w, "Failed to log data", http.StatusInternalServerError)
		return
	}

	// Error-level entries trip an alert path for on-call visibility.
	if req.Type == "error" {
		a.log.Printf("ERROR ALERT: %s (session=%d)", req.Message, req.SessionID)
	}

	a.emit("logger", map[string]any{
		"type":    "log",
		"level":   req.Type,
		"message": req.Message,
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleSessionRecording ingests one batch of recorded session events.
// Required fields: a non-zero sessionId and an events array (which may be
// empty).
func (a *App) handleSessionRecording(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SessionID      int64            `json:"sessionId"`
		Events         []map[string]any `json:"events"`
		Metadata       map[string]any   `json:"metadata"`
		IdempotencyKey string           `json:"idempotencyKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.SessionID == 0 || req.Events == nil {
		jsonError(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	rec := store.Recording{
		SessionID:      req.SessionID,
		Events:         req.Events,
		Metadata:       req.Metadata,
		IdempotencyKey: req.IdempotencyKey,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}

	recordingID, err := a.store.InsertRecording(rec)
	if err != nil {
		a.log.Printf("recording insert failed: %v", err)
		jsonError(w, "Failed to process session recording data", http.StatusInternalServerError)
		return
	}

	a.emit("recording", map[string]any{
		"type":        "recording",
		"session_id":  req.SessionID,
		"event_count": len(req.Events),
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "recordingId": recordingID})
}

// handleSupport creates one support ticket. Required fields: sessionId,
// email, description.
func (a *App) handleSupport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SessionID   int64  `json:"sessionId"`
		Name        string `json:"name"`
		Email       string `json:"email"`
		IssueType   string `json:"issueType"`
		Description string `json:"description"`
		Urgency     string `json:"urgency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.SessionID == 0 || req.Email == "" || req.Description == "" {
		jsonError(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	t := store.Ticket{
		SessionID:   req.SessionID,
		Name:        req.Name,
		Email:       req.Email,
		IssueType:   req.IssueType,
		Description: req.Description,
		Urgency:     req.Urgency,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	ticketID, err := a.store.InsertTicket(t)
	if err != nil {
		a.log.Printf("ticket insert failed: %v", err)
		jsonError(w, "Failed to process support request", http.StatusInternalServerError)
		return
	}

	// High-urgency tickets get immediate operator attention.
	if req.Urgency == "high" {
		a.log.Printf("URGENT SUPPORT REQUEST: ticket=%s session=%d issue=%s email=%s",
			ticketID, req.SessionID, req.IssueType, req.Email)
		a.emit("support", map[string]any{
			"type":       "alert",
			"alert":      "urgent_ticket",
			"ticket_id":  ticketID,
			"session_id": req.SessionID,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "ticketId": ticketID})
}

// ---------------------------------------------------------------------------
// Query handlers (consumed by slidectl)
// ---------------------------------------------------------------------------

func (a *App) handleMetricsList(w http.ResponseWriter, r *http.Request) {
	metrics, err := a.store.ListMetrics(r.URL.Query().Get("type"), queryLimit(r))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if metrics == nil {
		metrics = []store.Metric{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"metrics": metrics})
}

func (a *App) handleLogsList(w http.ResponseWriter, r *http.Request) {
	logs, err := a.store.ListLogs(r.URL.Query().Get("level"), queryLimit(r))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []store.LogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

func (a *App) handleRecordingsList(w http.ResponseWriter, r *http.Request) {
	var sessionID int64
	if s := r.URL.Query().Get("session"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			sessionID = n
		}
	}
	recs, err := a.store.ListRecordings(sessionID, queryLimit(r))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []store.Recording{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recordings": recs})
}

func (a *App) handleTicketsList(w http.ResponseWriter, r *http.Request) {
	tickets, err := a.store.ListTickets(queryLimit(r))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if tickets == nil {
		tickets = []store.Ticket{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tickets": tickets})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// queryLimit parses the limit query parameter; 0 means no limit.
func queryLimit(r *http.Request) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
