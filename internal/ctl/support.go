package ctl

import "fmt"

// SupportOptions carries the fields for a new support ticket.
type SupportOptions struct {
	SessionID   int64
	Name        string
	Email       string
	IssueType   string
	Description string
	Urgency     string
	JSON        bool
}

// Support files a support ticket against the daemon's support endpoint.
func Support(baseURL string, opts SupportOptions) error {
	body := map[string]any{
		"sessionId":   opts.SessionID,
		"name":        opts.Name,
		"email":       opts.Email,
		"issueType":   opts.IssueType,
		"description": opts.Description,
		"urgency":     opts.Urgency,
	}

	var resp struct {
		Success  bool   `json:"success"`
		TicketID string `json:"ticketId"`
	}
	if err := postJSON(baseURL, "/api/support", body, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Printf("ticket created: %s\n", resp.TicketID)
	return nil
}
