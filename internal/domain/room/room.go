package room

import "context"

// Room is a snapshot of a room as reported by the room registry. The
// registry owns it; this service never persists it.
type Room struct {
	ID            int64   `json:"id"`
	RoomNumber    string  `json:"roomNumber"`
	RoomType      string  `json:"roomType"`
	Capacity      int     `json:"capacity"`
	PricePerNight float64 `json:"pricePerNight"`
	Available     bool    `json:"available"`
}

// Registry is the external authority for the room catalogue and each room's
// availability flag.
type Registry interface {
	ListRooms(ctx context.Context) ([]Room, error)
	SetAvailability(ctx context.Context, roomID int64, available bool) error
}

// Find returns the room with the given id from a registry listing.
func Find(rooms []Room, id int64) (Room, bool) {
	for _, r := range rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// Fits reports whether the room's type and capacity match a search exactly.
func (r Room) Fits(roomType string, guests int) bool {
	return r.RoomType == roomType && r.Capacity == guests
}
