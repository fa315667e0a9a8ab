package cmsl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Metadata fetches descriptive metadata for one softpaq.
func (c *Client) Metadata(ctx context.Context, id string) (*Metadata, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	stdout, _, err := c.run(ctx, "metadata", id, "--format", "json")
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal([]byte(stdout), &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", id, err)
	}

	if meta.ID == "" {
		meta.ID = id
	}
	if meta.Title == "" {
		return nil, fmt.Errorf("%w: metadata for %s has no title", ErrClientInvocation, id)
	}

	return &meta, nil
}

// Download asks the client to download one softpaq installer to dest.
// The client reports success through its exit status; the destination
// is stat-checked because some client versions exit zero on a partial
// failure.
func (c *Client) Download(ctx context.Context, id, dest string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if _, _, err := c.run(ctx, "download", id, "--output", dest); err != nil {
		return err
	}

	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("%w: %s produced no file", ErrClientInvocation, id)
	}
	if info.IsDir() || info.Size() == 0 {
		return fmt.Errorf("%w: %s produced an empty download", ErrClientInvocation, id)
	}

	return nil
}
