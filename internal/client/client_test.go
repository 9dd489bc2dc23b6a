package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Hospitality/service-reservation/internal/domain/guest"
)

func testConfig(url string) Config {
	return Config{BaseURL: url, Timeout: 500 * time.Millisecond, MaxRetries: 2}
}

func TestRoomClient_ListRooms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/rooms", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":101,"roomNumber":"101","roomType":"Deluxe","capacity":2,"pricePerNight":150.5,"available":true},
			{"id":102,"roomNumber":"102","roomType":"Suite","capacity":4,"pricePerNight":300,"available":false}
		]`))
	}))
	defer srv.Close()

	c := NewRoomClient(testConfig(srv.URL), zap.NewNop())
	rooms, err := c.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, int64(101), rooms[0].ID)
	assert.Equal(t, "Deluxe", rooms[0].RoomType)
	assert.Equal(t, 150.5, rooms[0].PricePerNight)
	assert.False(t, rooms[1].Available)
}

func TestRoomClient_ListRoomsRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewRoomClient(testConfig(srv.URL), zap.NewNop())
	rooms, err := c.ListRooms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRoomClient_ListRoomsGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewRoomClient(testConfig(srv.URL), zap.NewNop())
	_, err := c.ListRooms(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, int32(3), calls.Load())
}

func TestRoomClient_ListRoomsDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewRoomClient(testConfig(srv.URL), zap.NewNop())
	_, err := c.ListRooms(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRoomClient_SetAvailability(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/rooms/101/availability", r.URL.Path)
		if r.URL.Query().Get("available") != "false" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewRoomClient(testConfig(srv.URL), zap.NewNop())
	require.NoError(t, c.SetAvailability(context.Background(), 101, false))

	err := c.SetAvailability(context.Background(), 101, true)
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load(), "availability pushes are not retried")
}

func TestRoomClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewRoomClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, zap.NewNop())

	start := time.Now()
	err := c.SetAvailability(context.Background(), 1, true)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}

func TestGuestClient_GetGuest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/guests/7":
			_, _ = w.Write([]byte(`{"id":7,"name":"Ana","email":"ana@example.com","memberCode":"M-7"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewGuestClient(testConfig(srv.URL), zap.NewNop())

	g, err := c.GetGuest(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Ana", g.Name)
	assert.Equal(t, "M-7", g.MemberCode)

	_, err = c.GetGuest(context.Background(), 8)
	assert.ErrorIs(t, err, guest.ErrNotFound)
}

func TestGuestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewGuestClient(Config{BaseURL: url, Timeout: 100 * time.Millisecond, MaxRetries: 1}, zap.NewNop())
	_, err := c.GetGuest(context.Background(), 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, guest.ErrNotFound)
}
