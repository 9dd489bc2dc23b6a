package reservation

import "github.com/Kilat-Hospitality/service-reservation/pkg/domain"

// Kinds of reservation failures. Callers match them with errors.Is.
var (
	ErrGuestNotFound = &domain.DomainError{Code: domain.CodeNotFound, Reason: "GUEST_NOT_FOUND"}
	ErrRoomNotFound  = &domain.DomainError{Code: domain.CodeNotFound, Reason: "ROOM_NOT_FOUND"}
	// ErrRoomUnavailable covers both a date conflict and insufficient
	// capacity; the message tells them apart.
	ErrRoomUnavailable     = &domain.DomainError{Code: domain.CodeConflict, Reason: "ROOM_UNAVAILABLE"}
	ErrInvalidArgument     = &domain.DomainError{Code: domain.CodeValidation, Reason: "INVALID_ARGUMENT"}
	ErrReservationNotFound = &domain.DomainError{Code: domain.CodeNotFound, Reason: "RESERVATION_NOT_FOUND"}
)

func invalidArgument(msg string) error {
	return ErrInvalidArgument.WithMessage(msg)
}
