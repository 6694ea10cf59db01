package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "hotelops/internal/adapters/redis"
	"hotelops/internal/domain"
)

func TestCache_RoundTripAndDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	in := domain.Reservation{ID: 7, ReservationNumber: "RSV-abc", GuestID: 1, RoomID: 2,
		NumberOfGuests: 2, Status: domain.ReservationConfirmed, TotalAmount: 400}
	if err := c.Set(ctx, "reservation:7", in, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out domain.Reservation
	ok, err := c.Get(ctx, "reservation:7", &out)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if out.ID != 7 || out.Status != domain.ReservationConfirmed || out.TotalAmount != 400 {
		t.Fatalf("unexpected cached value: %+v", out)
	}

	if err := c.Del(ctx, "reservation:7"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	ok, err = c.Get(ctx, "reservation:7", &out)
	if err != nil {
		t.Fatalf("Get after Del: %v", err)
	}
	if ok {
		t.Fatal("expected miss after Del")
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)

	var dst float64
	ok, err := c.Get(context.Background(), "revenue:2025-01-01", &dst)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}
}
