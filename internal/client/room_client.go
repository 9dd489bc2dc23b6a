package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/Kilat-Hospitality/service-reservation/internal/domain/room"
)

// RoomClient talks to the room registry over HTTP.
type RoomClient struct {
	http *httpClient
}

var _ room.Registry = (*RoomClient)(nil)

// NewRoomClient creates a new RoomClient.
func NewRoomClient(cfg Config, logger *zap.Logger) *RoomClient {
	return &RoomClient{http: newHTTPClient(cfg, logger.Named("room-client"))}
}

// ListRooms returns every room known to the registry, in registry order.
func (c *RoomClient) ListRooms(ctx context.Context) ([]room.Room, error) {
	var rooms []room.Room
	if err := c.http.getJSON(ctx, "/api/rooms", &rooms, nil); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// SetAvailability sets the room's availability flag. It is attempted once.
func (c *RoomClient) SetAvailability(ctx context.Context, roomID int64, available bool) error {
	path := "/api/rooms/" + strconv.FormatInt(roomID, 10) + "/availability"
	query := url.Values{"available": []string{strconv.FormatBool(available)}}
	if err := c.http.put(ctx, path, query); err != nil {
		return fmt.Errorf("set availability of room %d: %w", roomID, err)
	}
	return nil
}
