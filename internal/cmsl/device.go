package cmsl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// DeviceDetails returns the hardware family names matching a platform
// identifier.
func (c *Client) DeviceDetails(ctx context.Context, platformID string) ([]Device, error) {
	if strings.TrimSpace(platformID) == "" {
		return nil, fmt.Errorf("%w: empty platform", ErrClientInvocation)
	}

	stdout, _, err := c.run(ctx, "device",
		"--platform", platformID,
		"--format", "json",
	)
	if err != nil {
		return nil, err
	}

	var devices []Device
	if err := json.Unmarshal([]byte(stdout), &devices); err != nil {
		return nil, fmt.Errorf("parse device details for %s: %w", platformID, err)
	}

	return devices, nil
}
