package client

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/Kilat-Hospitality/service-reservation/internal/domain/guest"
)

// GuestClient talks to the guest directory over HTTP.
type GuestClient struct {
	http *httpClient
}

var _ guest.Directory = (*GuestClient)(nil)

// NewGuestClient creates a new GuestClient.
func NewGuestClient(cfg Config, logger *zap.Logger) *GuestClient {
	return &GuestClient{http: newHTTPClient(cfg, logger.Named("guest-client"))}
}

// GetGuest fetches a guest profile. A 404 is reported as guest.ErrNotFound.
func (c *GuestClient) GetGuest(ctx context.Context, id int64) (*guest.Guest, error) {
	var g guest.Guest
	if err := c.http.getJSON(ctx, "/api/guests/"+strconv.FormatInt(id, 10), &g, guest.ErrNotFound); err != nil {
		return nil, fmt.Errorf("get guest %d: %w", id, err)
	}
	return &g, nil
}
