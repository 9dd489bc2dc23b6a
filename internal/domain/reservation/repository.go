package reservation

import (
	"context"

	"github.com/google/uuid"
)

// ReservationRepository defines the persistence contract for reservations.
type ReservationRepository interface {
	// Insert persists a new reservation and returns it with its assigned ID.
	// A store that enforces per-room exclusivity reports a clash as
	// ErrRoomUnavailable.
	Insert(ctx context.Context, r *Reservation) (*Reservation, error)

	// FindAll returns every reservation.
	FindAll(ctx context.Context) ([]*Reservation, error)

	// FindByID returns ErrReservationNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// FindByCode returns ErrReservationNotFound when absent.
	FindByCode(ctx context.Context, code string) (*Reservation, error)

	// FindByRoomID returns the room's reservations ordered by check-in.
	FindByRoomID(ctx context.Context, roomID int64) ([]*Reservation, error)

	// DeleteByID removes a reservation; deleting a missing ID is not an error.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// CountByRoom returns the number of reservations held per room.
	CountByRoom(ctx context.Context) (map[int64]int64, error)
}
