// Package app wires together the HTTP server, the WebSocket monitor hub,
// the SQLite store, and the optional demo presentation driver. It owns the
// daemon's lifecycle and is the single source of truth for the current
// operating state.
package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jtreslo/slidecast/internal/config"
	"github.com/jtreslo/slidecast/internal/demo"
	"github.com/jtreslo/slidecast/internal/store"
	"github.com/jtreslo/slidecast/internal/ws"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger     *log.Logger
	Cfg        config.Config
	Bind       string
	ConfigPath string
	Store      *store.Store
}

// App is the top-level daemon process. It manages the HTTP server, the
// WebSocket monitor hub, and the persisted telemetry sinks.
type App struct {
	log        *log.Logger
	cfg        config.Config
	bind       string
	configPath string
	server     *http.Server
	store      *store.Store

	startedAt time.Time
	state     atomic.Value // current state string (BOOTING, IDLE, etc.)

	wsHub *ws.Hub
}

// New creates an App in the BOOTING state. Call Run to start serving.
func New(opts Options) *App {
	a := &App{
		log:        opts.Logger,
		cfg:        opts.Cfg,
		bind:       opts.Bind,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		startedAt:  time.Now(),
		wsHub:      ws.NewHub(),
	}
	a.state.Store("BOOTING")
	return a
}

// Run starts the HTTP server, monitor hub, heartbeat ticker, and, when
// enabled, the demo presentation driver. It blocks until the context is
// cancelled or the server returns an error.
func (a *App) Run(ctx context.Context) error {
	bind := a.bind
	if bind == "" && a.cfg.Server.Bind != "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/monitor", a.handleMonitor)
	mux.HandleFunc("/api/logger", a.handleLogger)
	mux.HandleFunc("/api/session-recording", a.handleSessionRecording)
	mux.HandleFunc("/api/support", a.handleSupport)
	mux.HandleFunc("/api/metrics", a.handleMetricsList)
	mux.HandleFunc("/api/logs", a.handleLogsList)
	mux.HandleFunc("/api/recordings", a.handleRecordingsList)
	mux.HandleFunc("/api/tickets", a.handleTicketsList)
	mux.Handle("/ws", a.wsHub.Handler())

	a.server = &http.Server{
		Addr:              bind,
		Handler:           a.recoverMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("listening on http://%s", bind)

	go a.wsHub.Run(ctx)
	a.transition("IDLE")
	go a.heartbeatLoop(ctx)

	if a.cfg.Demo.Enabled {
		r := demo.New(demo.Options{
			Hub:     a.wsHub,
			Cfg:     a.cfg,
			Log:     a.log,
			BaseURL: localBaseURL(ln.Addr()),
		})
		go r.Run(ctx, a.transition)
	}

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

// transition atomically updates the daemon state and broadcasts the change
// to all connected monitoring clients.
func (a *App) transition(newState string) {
	old := a.state.Load().(string)
	if old == newState {
		return
	}
	a.state.Store(newState)

	a.wsHub.BroadcastJSON(map[string]any{
		"type":      "state",
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"from":      old,
		"to":        newState,
		"component": "slidecastd",
	})
}

// heartbeatLoop sends a periodic heartbeat event so monitoring clients can
// detect connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.wsHub.BroadcastJSON(map[string]any{
				"type":           "heartbeat",
				"ts":             time.Now().UTC().Format(time.RFC3339Nano),
				"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
				"state":          a.state.Load().(string),
			})
		}
	}
}

// recoverMiddleware turns a handler panic into a 500 so one bad request
// cannot take the daemon down.
func (a *App) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				a.log.Printf("panic in %s %s: %v", r.Method, r.URL.Path, rec)
				jsonError(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// emit stamps a payload with a timestamp and component name, then pushes it
// to every connected monitoring client.
func (a *App) emit(component string, payload map[string]any) {
	payload["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	payload["component"] = component
	a.wsHub.BroadcastJSON(payload)
}

// localBaseURL derives a loopback HTTP URL for the listener, so in-process
// clients (the demo driver) can reach the daemon's own endpoints.
func localBaseURL(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return "http://" + addr.String()
	}
	return fmt.Sprintf("http://127.0.0.1:%d", tcp.Port)
}
