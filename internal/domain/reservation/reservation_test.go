package reservation

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^RESV-[0-9A-F]{8}$`)

func TestGenerateCode_Format(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code := GenerateCode()
		assert.Regexp(t, codePattern, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)
}

func TestNewReservation(t *testing.T) {
	in := NewDate(2030, time.March, 10)
	out := NewDate(2030, time.March, 13)

	created := time.Date(2030, time.March, 1, 9, 30, 0, 0, time.UTC)
	r, err := NewReservation(7, 101, in, out, 2, 1, created)
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, r.ID())
	assert.Regexp(t, codePattern, r.Code())
	assert.Equal(t, int64(7), r.GuestID())
	assert.Equal(t, int64(101), r.RoomID())
	assert.Equal(t, 3, r.Nights())
	assert.Equal(t, 3, r.Guests())
	assert.Equal(t, StatusConfirmed, r.Status())
	assert.Equal(t, created, r.CreatedAt())

	id := uuid.New()
	stored := r.WithID(id)
	assert.Equal(t, id, stored.ID())
	assert.Equal(t, uuid.Nil, r.ID(), "WithID must not mutate the receiver")
	assert.Equal(t, r.Code(), stored.Code())
}

func TestNewReservation_Validation(t *testing.T) {
	in := NewDate(2030, time.March, 10)
	out := in.AddDays(2)

	tests := []struct {
		name     string
		guestID  int64
		roomID   int64
		in, out  Date
		adults   int
		children int
	}{
		{"missing guest", 0, 101, in, out, 1, 0},
		{"missing room", 7, 0, in, out, 1, 0},
		{"zero dates", 7, 101, Date{}, out, 1, 0},
		{"checkout equals checkin", 7, 101, in, in, 1, 0},
		{"checkout before checkin", 7, 101, out, in, 1, 0},
		{"no adults", 7, 101, in, out, 0, 2},
		{"negative children", 7, 101, in, out, 1, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReservation(tc.guestID, tc.roomID, tc.in, tc.out, tc.adults, tc.children, time.Now())
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("CANCELLED")
	assert.Error(t, err)
}

func TestStayPricing(t *testing.T) {
	p := NewStayPricing()

	total, err := p.Calculate(PricingParams{Nights: 3, PricePerNight: 99.99})
	require.NoError(t, err)
	assert.Equal(t, 299.97, total)

	total, err = p.Calculate(PricingParams{Nights: 0, PricePerNight: 150})
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)

	_, err = p.Calculate(PricingParams{Nights: -1, PricePerNight: 150})
	assert.Error(t, err)
	_, err = p.Calculate(PricingParams{Nights: 1, PricePerNight: -5})
	assert.Error(t, err)
}
