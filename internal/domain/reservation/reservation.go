package reservation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Reservation is the aggregate root for a room booking. It is immutable once
// created; cancelling deletes it.
type Reservation struct {
	id           uuid.UUID
	code         string
	guestID      int64
	roomID       int64
	checkInDate  Date
	checkOutDate Date
	adults       int
	children     int
	nights       int
	status       Status
	createdAt    time.Time
}

// NewReservation builds a confirmed reservation with a fresh code, created at
// now. The id is left nil; the store assigns it on insert.
func NewReservation(guestID, roomID int64, checkIn, checkOut Date, adults, children int, now time.Time) (*Reservation, error) {
	if guestID <= 0 {
		return nil, invalidArgument("guest ID is required")
	}
	if roomID <= 0 {
		return nil, invalidArgument("room ID is required")
	}
	if checkIn.IsZero() || checkOut.IsZero() {
		return nil, invalidArgument("check-in and check-out dates are required")
	}
	if !checkOut.After(checkIn) {
		return nil, invalidArgument("check-out date must be after check-in date")
	}
	if adults < 1 {
		return nil, invalidArgument("at least one adult is required")
	}
	if children < 0 {
		return nil, invalidArgument("number of children cannot be negative")
	}

	return &Reservation{
		code:         GenerateCode(),
		guestID:      guestID,
		roomID:       roomID,
		checkInDate:  checkIn,
		checkOutDate: checkOut,
		adults:       adults,
		children:     children,
		nights:       checkIn.DaysUntil(checkOut),
		status:       StatusConfirmed,
		createdAt:    now.UTC(),
	}, nil
}

// ReconstructReservation rebuilds a Reservation from persistence data (no validation).
func ReconstructReservation(
	id uuid.UUID,
	code string,
	guestID int64,
	roomID int64,
	checkIn Date,
	checkOut Date,
	adults int,
	children int,
	nights int,
	status Status,
	createdAt time.Time,
) *Reservation {
	return &Reservation{
		id:           id,
		code:         code,
		guestID:      guestID,
		roomID:       roomID,
		checkInDate:  checkIn,
		checkOutDate: checkOut,
		adults:       adults,
		children:     children,
		nights:       nights,
		status:       status,
		createdAt:    createdAt,
	}
}

// WithID returns a copy carrying the store-assigned id.
func (r *Reservation) WithID(id uuid.UUID) *Reservation {
	cp := *r
	cp.id = id
	return &cp
}

// --- Getters ---

// ID returns the store-assigned identifier.
func (r *Reservation) ID() uuid.UUID { return r.id }

// Code returns the human-facing reservation code.
func (r *Reservation) Code() string { return r.code }

// GuestID returns the guest's identifier in the guest directory.
func (r *Reservation) GuestID() int64 { return r.guestID }

// RoomID returns the room's identifier in the room registry.
func (r *Reservation) RoomID() int64 { return r.roomID }

// CheckInDate returns the first night of the stay.
func (r *Reservation) CheckInDate() Date { return r.checkInDate }

// CheckOutDate returns the departure day (exclusive).
func (r *Reservation) CheckOutDate() Date { return r.checkOutDate }

func (r *Reservation) Adults() int   { return r.adults }
func (r *Reservation) Children() int { return r.children }

// Guests returns adults plus children.
func (r *Reservation) Guests() int { return r.adults + r.children }

// Nights returns the number of nights booked.
func (r *Reservation) Nights() int { return r.nights }

func (r *Reservation) Status() Status { return r.status }

func (r *Reservation) CreatedAt() time.Time { return r.createdAt }

func (r *Reservation) String() string {
	return fmt.Sprintf("%s room=%d [%s, %s)", r.code, r.roomID, r.checkInDate, r.checkOutDate)
}
