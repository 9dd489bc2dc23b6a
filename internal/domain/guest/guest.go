package guest

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Directory when the guest does not exist.
var ErrNotFound = errors.New("guest not found")

// Guest is a snapshot of a guest profile from the guest directory.
type Guest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	MemberCode  string `json:"memberCode,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Directory resolves guests by id.
type Directory interface {
	GetGuest(ctx context.Context, id int64) (*Guest, error)
}
