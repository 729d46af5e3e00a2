// Slidectl is the command-line client for monitoring a running slidecastd
// instance. It connects over HTTP and WebSocket to query stored telemetry
// and stream live events from the daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jtreslo/slidecast/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Slidecast daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,metric)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --limit are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// ── Query commands ────────────────────────────────────────────
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "metrics":
		opts := ctl.MetricsOptions{JSON: *jsonOut}
		metricFlags := pflag.NewFlagSet("metrics", pflag.ContinueOnError)
		metricFlags.StringVar(&opts.Type, "type", "", "Filter by metric type (e.g. slide-transition)")
		metricFlags.IntVar(&opts.Limit, "limit", 0, "Limit number of metrics shown")
		_ = metricFlags.Parse(subArgs)
		err = ctl.Metrics(*host, opts)

	case "logs":
		opts := ctl.LogsOptions{JSON: *jsonOut}
		logFlags := pflag.NewFlagSet("logs", pflag.ContinueOnError)
		logFlags.StringVar(&opts.Level, "level", "", "Filter by log level (info, warning, error)")
		logFlags.IntVar(&opts.Limit, "limit", 0, "Limit number of log entries shown")
		logFlags.BoolVar(&opts.Tail, "tail", false, "Stream live log events (like watch --filter log)")
		_ = logFlags.Parse(subArgs)
		err = ctl.Logs(*host, opts)

	case "recordings":
		opts := ctl.RecordingsOptions{JSON: *jsonOut}
		recFlags := pflag.NewFlagSet("recordings", pflag.ContinueOnError)
		recFlags.Int64Var(&opts.Session, "session", 0, "Filter by session ID")
		recFlags.IntVar(&opts.Limit, "limit", 0, "Limit number of recordings shown")
		_ = recFlags.Parse(subArgs)
		err = ctl.Recordings(*host, opts)

	case "tickets":
		opts := ctl.TicketsOptions{JSON: *jsonOut}
		ticketFlags := pflag.NewFlagSet("tickets", pflag.ContinueOnError)
		ticketFlags.IntVar(&opts.Limit, "limit", 0, "Limit number of tickets shown")
		_ = ticketFlags.Parse(subArgs)
		err = ctl.Tickets(*host, opts)

	// ── Control commands ──────────────────────────────────────────
	case "support":
		opts := ctl.SupportOptions{JSON: *jsonOut}
		supportFlags := pflag.NewFlagSet("support", pflag.ContinueOnError)
		supportFlags.Int64Var(&opts.SessionID, "session", 0, "Session ID the issue occurred in")
		supportFlags.StringVar(&opts.Name, "name", "", "Reporter name")
		supportFlags.StringVar(&opts.Email, "email", "", "Reporter email address")
		supportFlags.StringVar(&opts.IssueType, "issue-type", "technical", "Issue category")
		supportFlags.StringVar(&opts.Urgency, "urgency", "medium", "Urgency (low, medium, high)")
		_ = supportFlags.Parse(subArgs)
		if supportFlags.NArg() > 0 {
			opts.Description = supportFlags.Arg(0)
		}
		err = ctl.Support(*host, opts)

	// ── Live streaming ────────────────────────────────────────────
	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  slidectl — Slidecast control CLI

  USAGE
    slidectl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show daemon state, uptime, and current activity
    health          Check daemon and component health
    version         Show CLI and daemon version information
    metrics         List stored performance metrics
    logs            Show recent client log messages
    recordings      List stored session recordings
    tickets         List submitted support tickets

  COMMANDS (control)
    support         Submit a support ticket ("description" as argument)

  COMMANDS (live)
    watch           Stream live events from the daemon (Ctrl-C to stop)

  FLAGS
    -H, --host      Daemon URL (default http://127.0.0.1:8080)
        --json      Output raw JSON instead of formatted text
        --filter    Event types to show in watch

`)
}
