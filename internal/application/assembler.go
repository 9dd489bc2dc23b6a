package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kilat-Hospitality/service-reservation/internal/domain/guest"
	"github.com/Kilat-Hospitality/service-reservation/internal/domain/reservation"
	"github.com/Kilat-Hospitality/service-reservation/internal/domain/room"
)

// Placeholder values used when the room can no longer be resolved.
const (
	UnknownRoomNumber = "N/A"
	UnknownRoomType   = "Unknown"
)

// maxGuestLookups bounds concurrent guest lookups when assembling a list.
const maxGuestLookups = 8

// ReservationDTO is the response representation of a reservation joined
// with its guest and room.
type ReservationDTO struct {
	ID               uuid.UUID        `json:"id"`
	Code             string           `json:"code"`
	NumberOfChildren int              `json:"numberOfChildren"`
	NumberOfAdults   int              `json:"numberOfAdults"`
	CheckInDate      reservation.Date `json:"checkInDate"`
	CheckOutDate     reservation.Date `json:"checkOutDate"`
	Status           string           `json:"status"`
	NumberOfNights   int              `json:"numberOfNights"`
	GuestID          int64            `json:"guestId"`
	RoomID           int64            `json:"roomId"`
	GuestName        string           `json:"guestName"`
	GuestEmail       string           `json:"guestEmail"`
	RoomNumber       string           `json:"roomNumber"`
	RoomType         string           `json:"roomType"`
	Rate             float64          `json:"rate"`
	TotalPrice       float64          `json:"totalPrice"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// ResponseAssembler joins reservations with guest and room snapshots. A
// guest that cannot be resolved fails the read; a room that cannot be
// resolved degrades to placeholder values.
type ResponseAssembler struct {
	rooms   room.Registry
	guests  guest.Directory
	pricing reservation.PricingStrategy
	logger  *zap.Logger
}

// NewResponseAssembler creates a new ResponseAssembler.
func NewResponseAssembler(
	rooms room.Registry,
	guests guest.Directory,
	pricing reservation.PricingStrategy,
	logger *zap.Logger,
) *ResponseAssembler {
	return &ResponseAssembler{rooms: rooms, guests: guests, pricing: pricing, logger: logger}
}

// Assemble builds the view of a single reservation. The guest and the room
// list are fetched concurrently.
func (a *ResponseAssembler) Assemble(ctx context.Context, res *reservation.Reservation) (*ReservationDTO, error) {
	var (
		g     *guest.Guest
		rooms []room.Room
		ok    bool
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		g, err = resolveGuest(egCtx, a.guests, res.GuestID())
		return err
	})
	eg.Go(func() error {
		rooms, ok = a.listRooms(egCtx, res)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var rm *room.Room
	if ok {
		if found, exists := room.Find(rooms, res.RoomID()); exists {
			rm = &found
		}
	}
	return a.build(res, g, rm), nil
}

// AssembleAll builds views for many reservations, fetching the room list
// once and each distinct guest once.
func (a *ResponseAssembler) AssembleAll(ctx context.Context, rs []*reservation.Reservation) ([]ReservationDTO, error) {
	if len(rs) == 0 {
		return []ReservationDTO{}, nil
	}

	var (
		mu     sync.Mutex
		guests = make(map[int64]*guest.Guest)
		rooms  []room.Room
		ok     bool
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		rooms, ok = a.listRooms(egCtx, rs[0])
		return nil
	})

	lookups, lookupCtx := errgroup.WithContext(egCtx)
	lookups.SetLimit(maxGuestLookups)
	seen := make(map[int64]struct{})
	for _, res := range rs {
		id := res.GuestID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		lookups.Go(func() error {
			g, err := resolveGuest(lookupCtx, a.guests, id)
			if err != nil {
				return err
			}
			mu.Lock()
			guests[id] = g
			mu.Unlock()
			return nil
		})
	}
	eg.Go(lookups.Wait)

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]ReservationDTO, len(rs))
	for i, res := range rs {
		var rm *room.Room
		if ok {
			if found, exists := room.Find(rooms, res.RoomID()); exists {
				rm = &found
			}
		}
		out[i] = *a.build(res, guests[res.GuestID()], rm)
	}
	return out, nil
}

// build joins the parts; rm may be nil.
func (a *ResponseAssembler) build(res *reservation.Reservation, g *guest.Guest, rm *room.Room) *ReservationDTO {
	dto := &ReservationDTO{
		ID:               res.ID(),
		Code:             res.Code(),
		NumberOfChildren: res.Children(),
		NumberOfAdults:   res.Adults(),
		CheckInDate:      res.CheckInDate(),
		CheckOutDate:     res.CheckOutDate(),
		Status:           res.Status().String(),
		NumberOfNights:   res.Nights(),
		GuestID:          res.GuestID(),
		RoomID:           res.RoomID(),
		GuestName:        g.Name,
		GuestEmail:       g.Email,
		RoomNumber:       UnknownRoomNumber,
		RoomType:         UnknownRoomType,
		CreatedAt:        res.CreatedAt(),
	}

	if rm == nil {
		a.logger.Warn("room not resolvable, using placeholders",
			zap.String("reservation_id", res.ID().String()),
			zap.Int64("room_id", res.RoomID()),
		)
		return dto
	}

	dto.RoomNumber = rm.RoomNumber
	dto.RoomType = rm.RoomType
	dto.Rate = rm.PricePerNight

	total, err := a.pricing.Calculate(reservation.PricingParams{
		Nights:        res.Nights(),
		PricePerNight: rm.PricePerNight,
	})
	if err != nil {
		a.logger.Warn("failed to price stay",
			zap.String("reservation_id", res.ID().String()),
			zap.Error(err),
		)
	} else {
		dto.TotalPrice = total
	}
	return dto
}

// listRooms returns false instead of an error so the caller can degrade.
func (a *ResponseAssembler) listRooms(ctx context.Context, res *reservation.Reservation) ([]room.Room, bool) {
	rooms, err := a.rooms.ListRooms(ctx)
	if err != nil {
		a.logger.Warn("room registry unavailable during assembly",
			zap.String("reservation_id", res.ID().String()),
			zap.Error(err),
		)
		return nil, false
	}
	return rooms, true
}

// resolveGuest maps any directory failure to the guest-not-found kind.
func resolveGuest(ctx context.Context, dir guest.Directory, id int64) (*guest.Guest, error) {
	g, err := dir.GetGuest(ctx, id)
	if err != nil {
		if errors.Is(err, guest.ErrNotFound) {
			return nil, reservation.ErrGuestNotFound.WithMessage(fmt.Sprintf("guest not found: %d", id))
		}
		return nil, reservation.ErrGuestNotFound.Wrap(fmt.Sprintf("could not resolve guest %d", id), err)
	}
	return g, nil
}
