package cmsl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// List queries the catalog for softpaqs applicable to q.
//
// The structured listing is the primary contract; the legacy free-text
// simulate report is scraped only when the structured form is
// unavailable (older clients, or output that does not parse). Platform
// rejection and a missing client are authoritative and never trigger
// the fallback.
func (c *Client) List(ctx context.Context, q Query) (*Listing, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	stdout, _, err := c.run(ctx, "list",
		"--platform", q.Platform,
		"--os", q.OS,
		"--osver", q.OSVersion,
		"--format", "json",
	)
	if err == nil {
		ids, perr := parseListJSON(stdout)
		if perr == nil {
			return &Listing{IDs: ids, Raw: stdout}, nil
		}
	} else if errors.Is(err, ErrClientNotFound) || errors.Is(err, ErrPlatformRejected) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	return c.simulate(ctx, q)
}

// simulate runs the legacy dry-run report and scrapes identifiers out
// of its text.
func (c *Client) simulate(ctx context.Context, q Query) (*Listing, error) {
	stdout, _, err := c.run(ctx, "simulate",
		"--platform", q.Platform,
		"--os", q.OS,
		"--osver", q.OSVersion,
	)
	if err != nil {
		return nil, err
	}

	return &Listing{IDs: ScrapeIDs(stdout), Raw: stdout, Scraped: true}, nil
}

// listEntry is the subset of a structured listing entry paqman needs.
type listEntry struct {
	ID string `json:"id"`
}

// parseListJSON extracts identifiers from a structured listing,
// deduplicated in encounter order.
func parseListJSON(raw string) ([]string, error) {
	var entries []listEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("parse structured listing: %w", err)
	}

	seen := make(map[string]bool)
	ids := []string{}
	for _, entry := range entries {
		id := strings.ToLower(strings.TrimSpace(entry.ID))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	return ids, nil
}

// validate rejects incomplete queries before they reach the client.
func (q Query) validate() error {
	if strings.TrimSpace(q.Platform) == "" {
		return fmt.Errorf("%w: empty platform", ErrClientInvocation)
	}
	if strings.TrimSpace(q.OS) == "" || strings.TrimSpace(q.OSVersion) == "" {
		return fmt.Errorf("%w: empty os/os-version", ErrClientInvocation)
	}
	return nil
}
