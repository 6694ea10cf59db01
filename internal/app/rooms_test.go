package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hotelops/internal/app"
	"hotelops/internal/domain"
)

func TestCreateRoom_Validation(t *testing.T) {
	store := newMemStore()
	svc := app.NewRoomService(store, newFakeCache(), 10*time.Minute)
	ctx := context.Background()

	base := app.RoomInput{RoomNumber: "201", RoomType: "SUITE", Floor: 2, Price: 300, MaxOccupancy: 4}

	room, err := svc.CreateRoom(ctx, staff, base)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if room.Status != domain.RoomAvailable {
		t.Fatalf("new room should default to AVAILABLE, got %s", room.Status)
	}

	for name, mutate := range map[string]func(*app.RoomInput){
		"blank number":   func(in *app.RoomInput) { in.RoomNumber = "  " },
		"blank type":     func(in *app.RoomInput) { in.RoomType = "" },
		"zero price":     func(in *app.RoomInput) { in.Price = 0 },
		"zero occupancy": func(in *app.RoomInput) { in.MaxOccupancy = 0 },
	} {
		in := base
		mutate(&in)
		if _, err := svc.CreateRoom(ctx, staff, in); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("%s: expected invalid argument, got %v", name, err)
		}
	}
}

func TestAvailableRooms_CachedWithShortTTL(t *testing.T) {
	store := newMemStore()
	if _, err := store.CreateRoom(context.Background(), domain.Room{
		RoomNumber: "101", RoomType: "DOUBLE", Floor: 1, Price: 120,
		Status: domain.RoomAvailable, MaxOccupancy: 2,
	}); err != nil {
		t.Fatalf("seed room: %v", err)
	}
	cache := newFakeCache()
	svc := app.NewRoomService(store, cache, 15*time.Minute)
	ctx := context.Background()

	checkIn, checkOut := day("2026-09-01"), day("2026-09-03")
	out, err := svc.AvailableRooms(ctx, checkIn, checkOut)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 available room, got %d", len(out))
	}

	// per-range keys cannot be invalidated by bookings, so they must not
	// inherit the long service-wide TTL
	key := fmt.Sprintf("rooms:available:%s:%s", "2026-09-01", "2026-09-03")
	cache.mu.Lock()
	ttl, ok := cache.ttls[key]
	cache.mu.Unlock()
	if !ok {
		t.Fatalf("availability response not cached under %s", key)
	}
	if ttl > 60 {
		t.Fatalf("availability TTL must be capped at 60s, got %d", ttl)
	}

	// second read is served from the cache
	store.mu.Lock()
	store.rooms = map[int64]domain.Room{}
	store.mu.Unlock()
	out, err = svc.AvailableRooms(ctx, checkIn, checkOut)
	if err != nil {
		t.Fatalf("available (cached): %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected cached response with 1 room, got %d", len(out))
	}
}
