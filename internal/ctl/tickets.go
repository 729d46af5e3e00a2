package ctl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// TicketsOptions controls the tickets command behavior.
type TicketsOptions struct {
	Limit int
	JSON  bool
}

// TicketRow mirrors one entry of the JSON returned by GET /api/tickets.
type TicketRow struct {
	ID          string `json:"ticketId"`
	SessionID   int64  `json:"sessionId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	IssueType   string `json:"issueType"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	Timestamp   string `json:"timestamp"`
}

// Tickets lists recent support tickets.
func Tickets(baseURL string, opts TicketsOptions) error {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/api/tickets"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Tickets []TicketRow `json:"tickets"`
	}
	if err := getJSON(baseURL, path, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp.Tickets)
	}

	if len(resp.Tickets) == 0 {
		fmt.Println("no support tickets")
		return nil
	}

	fmt.Println()
	fmt.Println(header("  SUPPORT TICKETS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 72)))
	for _, t := range resp.Tickets {
		urgency := t.Urgency
		if urgency == "" {
			urgency = "low"
		}
		uc := dim
		if urgency == "high" {
			uc = red
		}
		fmt.Printf("  %s %s session=%d %s\n",
			colorize(dim, t.Timestamp),
			colorize(uc, padRight(strings.ToUpper(urgency), 7)),
			t.SessionID,
			t.Email,
		)
		fmt.Printf("    %s\n", truncate(t.Description, 68))
	}
	fmt.Println()

	return nil
}
