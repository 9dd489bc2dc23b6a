package reservation

import "fmt"

// Status is the lifecycle state of a reservation. Only confirmed
// reservations exist; cancellation removes the record instead of moving it
// to another state.
type Status string

const StatusConfirmed Status = "CONFIRMED"

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	return s == StatusConfirmed
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a stored string to a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid reservation status: %s", s)
	}
	return status, nil
}
