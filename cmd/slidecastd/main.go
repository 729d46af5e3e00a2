// Slidecastd is the main daemon for the slidecast presentation telemetry
// service.
//
// It loads configuration, opens the SQLite store, and starts the HTTP
// server with the metric, log, session-recording, and support sink
// endpoints plus the WebSocket monitor channel. Shutdown is handled
// gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/jtreslo/slidecast/internal/app"
	"github.com/jtreslo/slidecast/internal/config"
	"github.com/jtreslo/slidecast/internal/store"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "/etc/slidecast/slidecast.toml", "Path to config TOML")
		bind       = pflag.String("bind", "0.0.0.0:8080", "HTTP bind address")
	)
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := log.New(os.Stdout, "slidecastd ", log.LstdFlags|log.Lmicroseconds)

	if err := os.MkdirAll(cfg.Data.Root, 0o755); err != nil {
		logger.Fatalf("data root unavailable: %v", err)
	}

	st, err := store.Open(filepath.Join(cfg.Data.Root, cfg.Data.Database))
	if err != nil {
		logger.Fatalf("store open failed: %v", err)
	}
	defer st.Close()

	a := app.New(app.Options{
		Logger:     logger,
		Cfg:        cfg,
		Bind:       *bind,
		ConfigPath: *configPath,
		Store:      st,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("slidecastd failed: %v", err)
	}

	// Brief pause so in-flight log writes can flush before exit.
	time.Sleep(50 * time.Millisecond)
}
