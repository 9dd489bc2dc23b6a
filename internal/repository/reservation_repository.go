package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Kilat-Hospitality/service-reservation/internal/domain/reservation"
)

// exclusionViolation is the SQLSTATE raised by reservations_room_no_overlap.
const exclusionViolation = "23P01"

// ReservationModel is the GORM model for the reservations table.
type ReservationModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code         string    `gorm:"uniqueIndex;not null;size:20"`
	GuestID      int64     `gorm:"index;not null"`
	RoomID       int64     `gorm:"index;not null"`
	CheckInDate  time.Time `gorm:"type:date;not null"`
	CheckOutDate time.Time `gorm:"type:date;not null"`
	Adults       int       `gorm:"not null"`
	Children     int       `gorm:"not null;default:0"`
	Nights       int       `gorm:"not null"`
	Status       string    `gorm:"not null;size:20"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReservationModel) TableName() string {
	return "reservations"
}

// GormReservationRepository is the PostgreSQL implementation of ReservationRepository.
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository.
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// Insert persists a new reservation under a fresh UUID. A stay that overlaps
// another one in the same room is rejected by the exclusion constraint and
// reported as ErrRoomUnavailable.
func (r *GormReservationRepository) Insert(ctx context.Context, res *reservation.Reservation) (*reservation.Reservation, error) {
	stored := res.WithID(uuid.New())
	model := toReservationModel(stored)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			return nil, reservation.ErrRoomUnavailable.Wrap("room is already reserved for the selected dates", err)
		}
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}
	return stored, nil
}

// FindAll retrieves every reservation, oldest first.
func (r *GormReservationRepository) FindAll(ctx context.Context) ([]*reservation.Reservation, error) {
	var models []ReservationModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return toDomainReservations(models)
}

// FindByID retrieves a reservation by its identifier.
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	var model ReservationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservation.ErrReservationNotFound.WithMessage("reservation not found: " + id.String())
		}
		return nil, fmt.Errorf("failed to find reservation by ID: %w", err)
	}
	return toDomainReservation(&model)
}

// FindByCode retrieves a reservation by its code.
func (r *GormReservationRepository) FindByCode(ctx context.Context, code string) (*reservation.Reservation, error) {
	var model ReservationModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservation.ErrReservationNotFound.WithMessage("reservation not found: " + code)
		}
		return nil, fmt.Errorf("failed to find reservation by code: %w", err)
	}
	return toDomainReservation(&model)
}

// FindByRoomID retrieves a room's reservations ordered by check-in.
func (r *GormReservationRepository) FindByRoomID(ctx context.Context, roomID int64) ([]*reservation.Reservation, error) {
	var models []ReservationModel
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("check_in_date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find room reservations: %w", err)
	}
	return toDomainReservations(models)
}

// DeleteByID removes a reservation. Deleting a missing row is a no-op.
func (r *GormReservationRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ReservationModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return nil
}

// CountByRoom returns reservation counts grouped by room (admin).
func (r *GormReservationRepository) CountByRoom(ctx context.Context) (map[int64]int64, error) {
	type roomCount struct {
		RoomID int64
		Count  int64
	}
	var results []roomCount
	if err := r.db.WithContext(ctx).Model(&ReservationModel{}).
		Select("room_id, count(*) as count").
		Group("room_id").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by room: %w", err)
	}

	counts := make(map[int64]int64, len(results))
	for _, rc := range results {
		counts[rc.RoomID] = rc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toReservationModel(res *reservation.Reservation) *ReservationModel {
	return &ReservationModel{
		ID:           res.ID(),
		Code:         res.Code(),
		GuestID:      res.GuestID(),
		RoomID:       res.RoomID(),
		CheckInDate:  res.CheckInDate().Time(),
		CheckOutDate: res.CheckOutDate().Time(),
		Adults:       res.Adults(),
		Children:     res.Children(),
		Nights:       res.Nights(),
		Status:       string(res.Status()),
		CreatedAt:    res.CreatedAt(),
	}
}

func toDomainReservation(m *ReservationModel) (*reservation.Reservation, error) {
	status, err := reservation.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(
		m.ID,
		m.Code,
		m.GuestID,
		m.RoomID,
		reservation.DateOf(m.CheckInDate),
		reservation.DateOf(m.CheckOutDate),
		m.Adults,
		m.Children,
		m.Nights,
		status,
		m.CreatedAt,
	), nil
}

func toDomainReservations(models []ReservationModel) ([]*reservation.Reservation, error) {
	out := make([]*reservation.Reservation, len(models))
	for i := range models {
		res, err := toDomainReservation(&models[i])
		if err != nil {
			return nil, err
		}
		out[i] = res
	}
	return out, nil
}
