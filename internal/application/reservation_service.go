package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kilat-Hospitality/service-reservation/internal/domain/guest"
	"github.com/Kilat-Hospitality/service-reservation/internal/domain/reservation"
	"github.com/Kilat-Hospitality/service-reservation/internal/domain/room"
	"github.com/Kilat-Hospitality/service-reservation/internal/lock"
	"github.com/Kilat-Hospitality/service-reservation/pkg/domain"
)

// maxConcurrentReconciles bounds registry calls during a full sweep.
const maxConcurrentReconciles = 4

// SearchRoomsRequest holds the criteria for an availability search.
type SearchRoomsRequest struct {
	CheckInDate    reservation.Date `json:"checkInDate"`
	CheckOutDate   reservation.Date `json:"checkOutDate"`
	NumberOfGuests int              `json:"numberOfGuests"`
	RoomType       string           `json:"roomType"`
}

// MakeReservationRequest holds the data needed to book a room.
type MakeReservationRequest struct {
	GuestID          int64            `json:"guestId"`
	RoomID           int64            `json:"roomId"`
	CheckInDate      reservation.Date `json:"checkInDate"`
	CheckOutDate     reservation.Date `json:"checkOutDate"`
	NumberOfAdults   int              `json:"numberOfAdults"`
	NumberOfChildren int              `json:"numberOfChildren"`
}

// ReservationStatsDTO holds aggregate reservation counts (admin).
type ReservationStatsDTO struct {
	TotalReservations int64           `json:"totalReservations"`
	ByRoom            map[int64]int64 `json:"byRoom"`
}

// ReconcileSummary reports the outcome of a full availability sweep.
type ReconcileSummary struct {
	Rooms     int `json:"rooms"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
	Failed    int `json:"failed"`
}

// ReservationService coordinates bookings between the reservation ledger,
// the room registry and the guest directory.
type ReservationService struct {
	repo      reservation.ReservationRepository
	rooms     room.Registry
	guests    guest.Directory
	locker    lock.RoomLocker
	assembler *ResponseAssembler
	publisher EventPublisher
	clock     Clock
	logger    *zap.Logger
}

// NewReservationService creates a new ReservationService.
func NewReservationService(
	repo reservation.ReservationRepository,
	rooms room.Registry,
	guests guest.Directory,
	locker lock.RoomLocker,
	pricing reservation.PricingStrategy,
	publisher EventPublisher,
	clock Clock,
	logger *zap.Logger,
) *ReservationService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &ReservationService{
		repo:      repo,
		rooms:     rooms,
		guests:    guests,
		locker:    locker,
		assembler: NewResponseAssembler(rooms, guests, pricing, logger),
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// SearchAvailableRooms returns the rooms of the requested type whose
// capacity equals the guest count and which have no reservation overlapping
// the requested stay. Registry order is preserved.
func (s *ReservationService) SearchAvailableRooms(ctx context.Context, req SearchRoomsRequest) ([]room.Room, error) {
	if err := s.validateSearch(req); err != nil {
		return nil, err
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, domain.NewUnavailableError("room registry unavailable", err)
	}

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	occupied := reservation.OccupiedRoomIDs(all, req.CheckInDate, req.CheckOutDate)

	s.logger.Debug("availability scan",
		zap.Int("rooms", len(rooms)),
		zap.Int("reservations", len(all)),
		zap.Int("occupied", len(occupied)),
	)

	available := make([]room.Room, 0, len(rooms))
	for _, rm := range rooms {
		if _, taken := occupied[rm.ID]; taken {
			continue
		}
		if rm.Fits(req.RoomType, req.NumberOfGuests) {
			available = append(available, rm)
		}
	}
	return available, nil
}

// MakeReservation books a room for a guest. The conflict check and the
// insert run under the room's lock; once the lock is held the commit is not
// abandoned if the caller goes away.
func (s *ReservationService) MakeReservation(ctx context.Context, req MakeReservationRequest) (*ReservationDTO, error) {
	if err := s.validateReservation(req); err != nil {
		return nil, err
	}

	g, err := resolveGuest(ctx, s.guests, req.GuestID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, req.RoomID)
	if err != nil {
		return nil, domain.NewUnavailableError("room is busy, please retry", err)
	}

	commitCtx := context.WithoutCancel(ctx)
	res, rm, err := s.reserveLocked(commitCtx, req)
	unlock()
	if err != nil {
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", res.ID().String()),
		zap.String("code", res.Code()),
		zap.Int64("room_id", res.RoomID()),
		zap.Int64("guest_id", res.GuestID()),
	)

	s.pushAvailability(commitCtx, res.RoomID(), false, "make_reservation")

	publishEvent(commitCtx, s.publisher, s.logger, ReservationCreated, res.ID().String(), ReservationCreatedEvent{
		ReservationID: res.ID(),
		Code:          res.Code(),
		GuestID:       res.GuestID(),
		RoomID:        res.RoomID(),
		CheckInDate:   res.CheckInDate(),
		CheckOutDate:  res.CheckOutDate(),
		Nights:        res.Nights(),
		OccurredAt:    s.clock.Now().UTC(),
	})

	return s.assembler.build(res, g, &rm), nil
}

// reserveLocked runs the gated part of a booking. The caller holds the
// room lock.
func (s *ReservationService) reserveLocked(ctx context.Context, req MakeReservationRequest) (*reservation.Reservation, room.Room, error) {
	existing, err := s.repo.FindByRoomID(ctx, req.RoomID)
	if err != nil {
		return nil, room.Room{}, fmt.Errorf("failed to load room reservations: %w", err)
	}
	if len(reservation.Conflicting(existing, req.RoomID, req.CheckInDate, req.CheckOutDate)) > 0 {
		return nil, room.Room{}, reservation.ErrRoomUnavailable.WithMessage("room is already reserved for the selected dates")
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, room.Room{}, domain.NewUnavailableError("room registry unavailable", err)
	}
	rm, ok := room.Find(rooms, req.RoomID)
	if !ok {
		return nil, room.Room{}, reservation.ErrRoomNotFound.WithMessage(fmt.Sprintf("room not found: %d", req.RoomID))
	}

	if req.NumberOfAdults+req.NumberOfChildren > rm.Capacity {
		return nil, room.Room{}, reservation.ErrRoomUnavailable.WithMessage(
			fmt.Sprintf("room capacity is insufficient: room %s holds %d guests", rm.RoomNumber, rm.Capacity))
	}

	if !req.CheckOutDate.After(req.CheckInDate) {
		return nil, room.Room{}, reservation.ErrInvalidArgument.WithMessage("check-out date must be after check-in date")
	}

	res, err := reservation.NewReservation(
		req.GuestID,
		req.RoomID,
		req.CheckInDate,
		req.CheckOutDate,
		req.NumberOfAdults,
		req.NumberOfChildren,
		s.clock.Now(),
	)
	if err != nil {
		return nil, room.Room{}, err
	}

	stored, err := s.repo.Insert(ctx, res)
	if err != nil {
		if errors.Is(err, reservation.ErrRoomUnavailable) {
			return nil, room.Room{}, err
		}
		return nil, room.Room{}, fmt.Errorf("failed to save reservation: %w", err)
	}
	return stored, rm, nil
}

// GetAllReservations returns the view of every reservation.
func (s *ReservationService) GetAllReservations(ctx context.Context) ([]ReservationDTO, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return s.assembler.AssembleAll(ctx, all)
}

// GetReservationByID returns a reservation's view.
func (s *ReservationService) GetReservationByID(ctx context.Context, id uuid.UUID) (*ReservationDTO, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, res)
}

// GetReservationByCode returns a reservation's view looked up by its code.
func (s *ReservationService) GetReservationByCode(ctx context.Context, code string) (*ReservationDTO, error) {
	res, err := s.repo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, res)
}

// CancelReservation marks the room available, deletes the reservation and
// announces the cancellation. The availability push is best-effort.
func (s *ReservationService) CancelReservation(ctx context.Context, id uuid.UUID) error {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	s.pushAvailability(ctx, res.RoomID(), true, "cancel_reservation")

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.logger.Info("reservation cancelled",
		zap.String("reservation_id", id.String()),
		zap.String("code", res.Code()),
		zap.Int64("room_id", res.RoomID()),
	)

	publishEvent(ctx, s.publisher, s.logger, ReservationCancelled, id.String(), ReservationCancelledEvent{
		ReservationID: id,
		Code:          res.Code(),
		RoomID:        res.RoomID(),
		OccurredAt:    s.clock.Now().UTC(),
	})
	return nil
}

// UpdateRoomAvailability recomputes a room's availability flag from the
// ledger and pushes it to the registry. The requested value only triggers
// the recomputation; the room is available exactly when none of its
// reservations checks out after today. It returns the value pushed.
func (s *ReservationService) UpdateRoomAvailability(ctx context.Context, roomID int64, requested bool) (bool, error) {
	unlock, err := s.locker.Lock(ctx, roomID)
	if err != nil {
		return false, domain.NewUnavailableError("room is busy, please retry", err)
	}
	defer unlock()

	available, err := s.LedgerAvailability(ctx, roomID)
	if err != nil {
		return false, err
	}

	if err := s.rooms.SetAvailability(ctx, roomID, available); err != nil {
		s.logger.Error("failed to reconcile room availability",
			zap.Int64("room_id", roomID),
			zap.Bool("available", available),
			zap.Error(err),
		)
		return false, domain.NewUnavailableError(fmt.Sprintf("could not update availability of room %d", roomID), err)
	}

	s.logger.Info("room availability reconciled",
		zap.Int64("room_id", roomID),
		zap.Bool("requested", requested),
		zap.Bool("available", available),
	)

	publishEvent(ctx, s.publisher, s.logger, RoomAvailabilityReconciled, fmt.Sprint(roomID), RoomAvailabilityReconciledEvent{
		RoomID:     roomID,
		Available:  available,
		OccurredAt: s.clock.Now().UTC(),
	})
	return available, nil
}

// LedgerAvailability reports whether the ledger leaves roomID free: none of
// its reservations checks out after today. Nothing is pushed.
func (s *ReservationService) LedgerAvailability(ctx context.Context, roomID int64) (bool, error) {
	rs, err := s.repo.FindByRoomID(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("failed to load room reservations: %w", err)
	}
	today := reservation.DateOf(s.clock.Now())
	return !reservation.HasStayEndingAfter(rs, roomID, today), nil
}

// ReconcileAllRooms reconciles every room the registry knows about. One
// room failing does not stop the others.
func (s *ReservationService) ReconcileAllRooms(ctx context.Context) (*ReconcileSummary, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, domain.NewUnavailableError("room registry unavailable", err)
	}

	results := make([]error, len(rooms))
	availability := make([]bool, len(rooms))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentReconciles)
	for i, rm := range rooms {
		eg.Go(func() error {
			availability[i], results[i] = s.UpdateRoomAvailability(egCtx, rm.ID, rm.Available)
			return nil
		})
	}
	_ = eg.Wait()

	summary := &ReconcileSummary{Rooms: len(rooms)}
	for i := range rooms {
		switch {
		case results[i] != nil:
			summary.Failed++
		case availability[i]:
			summary.Available++
		default:
			summary.Occupied++
		}
	}

	s.logger.Info("room availability sweep finished",
		zap.Int("rooms", summary.Rooms),
		zap.Int("available", summary.Available),
		zap.Int("occupied", summary.Occupied),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// GetReservationStats returns reservation counts per room (admin).
func (s *ReservationService) GetReservationStats(ctx context.Context) (*ReservationStatsDTO, error) {
	counts, err := s.repo.CountByRoom(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &ReservationStatsDTO{
		TotalReservations: total,
		ByRoom:            counts,
	}, nil
}

// --- Helpers ---

// pushAvailability sets the registry flag without failing the caller.
func (s *ReservationService) pushAvailability(ctx context.Context, roomID int64, available bool, operation string) {
	err := s.rooms.SetAvailability(ctx, roomID, available)
	if err == nil {
		return
	}

	s.logger.Warn("failed to push room availability",
		zap.Int64("room_id", roomID),
		zap.Bool("available", available),
		zap.String("operation", operation),
		zap.Error(err),
	)
	publishEvent(ctx, s.publisher, s.logger, RoomAvailabilityPushFailed, fmt.Sprint(roomID), AvailabilityPushFailedEvent{
		RoomID:     roomID,
		Available:  available,
		Operation:  operation,
		Error:      err.Error(),
		OccurredAt: s.clock.Now().UTC(),
	})
}

func (s *ReservationService) validateSearch(req SearchRoomsRequest) error {
	if req.CheckInDate.IsZero() {
		return reservation.ErrInvalidArgument.WithMessage("check-in date is required")
	}
	if req.CheckOutDate.IsZero() {
		return reservation.ErrInvalidArgument.WithMessage("check-out date is required")
	}
	if req.NumberOfGuests < 1 {
		return reservation.ErrInvalidArgument.WithMessage("at least one guest is required")
	}
	if strings.TrimSpace(req.RoomType) == "" {
		return reservation.ErrInvalidArgument.WithMessage("room type is required")
	}
	return s.checkNotPast(req.CheckInDate)
}

func (s *ReservationService) validateReservation(req MakeReservationRequest) error {
	if req.GuestID <= 0 {
		return reservation.ErrInvalidArgument.WithMessage("guest ID is required")
	}
	if req.RoomID <= 0 {
		return reservation.ErrInvalidArgument.WithMessage("room ID is required")
	}
	if req.CheckInDate.IsZero() {
		return reservation.ErrInvalidArgument.WithMessage("check-in date is required")
	}
	if req.CheckOutDate.IsZero() {
		return reservation.ErrInvalidArgument.WithMessage("check-out date is required")
	}
	if req.NumberOfAdults < 1 {
		return reservation.ErrInvalidArgument.WithMessage("at least one adult is required")
	}
	if req.NumberOfChildren < 0 {
		return reservation.ErrInvalidArgument.WithMessage("number of children cannot be negative")
	}
	return s.checkNotPast(req.CheckInDate)
}

func (s *ReservationService) checkNotPast(checkIn reservation.Date) error {
	if checkIn.Before(reservation.DateOf(s.clock.Now())) {
		return reservation.ErrInvalidArgument.WithMessage("check-in date must be today or later")
	}
	return nil
}
