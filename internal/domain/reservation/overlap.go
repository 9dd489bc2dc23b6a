package reservation

// Overlaps reports whether the half-open stays [existingStart, existingEnd)
// and [newStart, newEnd) share at least one night. A checkout on the same
// day as another stay's check-in is not an overlap.
func Overlaps(existingStart, existingEnd, newStart, newEnd Date) bool {
	return existingStart.Before(newEnd) && newStart.Before(existingEnd)
}

// Conflicting returns the reservations among rs that occupy roomID for any
// night of [checkIn, checkOut).
func Conflicting(rs []*Reservation, roomID int64, checkIn, checkOut Date) []*Reservation {
	var out []*Reservation
	for _, r := range rs {
		if r.RoomID() == roomID && Overlaps(r.CheckInDate(), r.CheckOutDate(), checkIn, checkOut) {
			out = append(out, r)
		}
	}
	return out
}

// OccupiedRoomIDs returns the set of rooms having a reservation overlapping
// [checkIn, checkOut).
func OccupiedRoomIDs(rs []*Reservation, checkIn, checkOut Date) map[int64]struct{} {
	occupied := make(map[int64]struct{})
	for _, r := range rs {
		if Overlaps(r.CheckInDate(), r.CheckOutDate(), checkIn, checkOut) {
			occupied[r.RoomID()] = struct{}{}
		}
	}
	return occupied
}

// HasStayEndingAfter reports whether any reservation for roomID checks out
// strictly after day.
func HasStayEndingAfter(rs []*Reservation, roomID int64, day Date) bool {
	for _, r := range rs {
		if r.RoomID() == roomID && r.CheckOutDate().After(day) {
			return true
		}
	}
	return false
}
