package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Kilat-Hospitality/service-reservation/internal/domain/reservation"
)

// MemoryReservationRepository keeps reservations in process memory. It does
// not check for overlaps on insert; callers serialise bookings per room.
type MemoryReservationRepository struct {
	mu     sync.RWMutex
	order  []uuid.UUID
	byID   map[uuid.UUID]*reservation.Reservation
	byCode map[string]uuid.UUID
	byRoom map[int64][]*reservation.Reservation // sorted by check-in
}

// NewMemoryReservationRepository creates an empty store.
func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{
		byID:   make(map[uuid.UUID]*reservation.Reservation),
		byCode: make(map[string]uuid.UUID),
		byRoom: make(map[int64][]*reservation.Reservation),
	}
}

func (r *MemoryReservationRepository) Insert(_ context.Context, res *reservation.Reservation) (*reservation.Reservation, error) {
	stored := res.WithID(uuid.New())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byCode[stored.Code()]; dup {
		return nil, fmt.Errorf("failed to save reservation: duplicate code %s", stored.Code())
	}

	r.order = append(r.order, stored.ID())
	r.byID[stored.ID()] = stored
	r.byCode[stored.Code()] = stored.ID()

	list := r.byRoom[stored.RoomID()]
	i := sort.Search(len(list), func(i int) bool {
		return list[i].CheckInDate().After(stored.CheckInDate())
	})
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = stored
	r.byRoom[stored.RoomID()] = list

	return stored, nil
}

func (r *MemoryReservationRepository) FindAll(_ context.Context) ([]*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*reservation.Reservation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *MemoryReservationRepository) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.byID[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound.WithMessage("reservation not found: " + id.String())
	}
	return res, nil
}

func (r *MemoryReservationRepository) FindByCode(_ context.Context, code string) (*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[code]
	if !ok {
		return nil, reservation.ErrReservationNotFound.WithMessage("reservation not found: " + code)
	}
	return r.byID[id], nil
}

func (r *MemoryReservationRepository) FindByRoomID(_ context.Context, roomID int64) ([]*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byRoom[roomID]
	out := make([]*reservation.Reservation, len(list))
	copy(out, list)
	return out, nil
}

func (r *MemoryReservationRepository) DeleteByID(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	delete(r.byCode, res.Code())

	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	list := r.byRoom[res.RoomID()]
	for i, other := range list {
		if other.ID() == id {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.byRoom, res.RoomID())
	} else {
		r.byRoom[res.RoomID()] = list
	}
	return nil
}

func (r *MemoryReservationRepository) CountByRoom(_ context.Context) (map[int64]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[int64]int64, len(r.byRoom))
	for roomID, list := range r.byRoom {
		counts[roomID] = int64(len(list))
	}
	return counts, nil
}
