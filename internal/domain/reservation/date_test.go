package reservation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2030-02-28")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2030, time.February, 28), d)
	assert.Equal(t, "2030-02-28", d.String())

	_, err = ParseDate("28/02/2030")
	assert.Error(t, err)
}

func TestDate_DaysUntil(t *testing.T) {
	in := NewDate(2030, time.February, 27)
	assert.Equal(t, 3, in.DaysUntil(NewDate(2030, time.March, 2)))
	assert.Equal(t, -1, in.DaysUntil(in.AddDays(-1)))
	assert.Equal(t, 0, in.DaysUntil(in))
}

func TestDateOf_IgnoresClockTime(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	d := DateOf(time.Date(2030, time.May, 1, 23, 59, 0, 0, loc))
	assert.Equal(t, NewDate(2030, time.May, 1), d)
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		CheckIn  Date `json:"checkIn"`
		CheckOut Date `json:"checkOut"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"checkIn":"2030-06-01","checkOut":null}`), &payload))
	assert.Equal(t, NewDate(2030, time.June, 1), payload.CheckIn)
	assert.True(t, payload.CheckOut.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"checkIn":"2030-06-01","checkOut":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"checkIn":"June 1"}`), &payload))
	assert.Error(t, json.Unmarshal([]byte(`{"checkIn":20300601}`), &payload))
}
