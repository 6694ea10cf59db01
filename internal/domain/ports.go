package domain

import (
	"context"
	"time"
)

type RoomRepository interface {
	CreateRoom(ctx context.Context, r Room) (Room, error)
	UpdateRoom(ctx context.Context, r Room) (Room, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)

	// ListAvailableRooms returns rooms with no active reservation overlapping
	// [checkIn, checkOut). Occupancy is always derived from reservations,
	// never from the status column.
	ListAvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]Room, error)
	// ListOccupiedRooms returns rooms whose active reservation covers `on`.
	ListOccupiedRooms(ctx context.Context, on time.Time) ([]Room, error)
}

type GuestRepository interface {
	CreateGuest(ctx context.Context, g Guest) (Guest, error)
	GetGuest(ctx context.Context, id int64) (Guest, error)
	ListGuests(ctx context.Context) ([]Guest, error)
}

// ReservationsQuery filters ListReservations; nil fields match everything.
type ReservationsQuery struct {
	GuestID *int64
	RoomID  *int64
	Status  *ReservationStatus
}

type ReservationRepository interface {
	// CreateReservation persists r atomically: the room row is locked, the
	// overlap count re-checked, and the insert performed in one transaction.
	// Returns ErrConflict when an active reservation overlaps.
	CreateReservation(ctx context.Context, r Reservation) (Reservation, error)

	// UpdateReservation replaces the mutable fields of an existing
	// reservation under the same room lock, excluding the reservation's own
	// row from the overlap count.
	UpdateReservation(ctx context.Context, r Reservation) (Reservation, error)

	// TransitionReservation moves id from `from` to `to` with compare-and-set
	// semantics; ErrConflict when the stored status no longer matches.
	TransitionReservation(ctx context.Context, id int64, from, to ReservationStatus, actualCheckIn, actualCheckOut *time.Time) (Reservation, error)

	GetReservation(ctx context.Context, id int64) (Reservation, error)
	ListReservations(ctx context.Context, q ReservationsQuery) ([]Reservation, error)
	// ListCurrentReservations returns active reservations whose stay covers `on`.
	ListCurrentReservations(ctx context.Context, on time.Time) ([]Reservation, error)
	// ListNoShowCandidates returns CONFIRMED reservations with a check-in
	// date before `before` (night-audit input).
	ListNoShowCandidates(ctx context.Context, before time.Time) ([]Reservation, error)

	CountOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (int, error)

	// DeleteReservation hard-deletes a row; administrative cleanup only, the
	// lifecycle path cancels instead.
	DeleteReservation(ctx context.Context, id int64) error
}

type PaymentRepository interface {
	// CreatePayment inserts p and recalculates the reservation's paid amount
	// in the same transaction.
	CreatePayment(ctx context.Context, p Payment) (Payment, error)
	// UpdatePaymentStatus sets the status and recalculates the reservation's
	// paid amount in the same transaction.
	UpdatePaymentStatus(ctx context.Context, id int64, status PaymentStatus) (Payment, error)

	GetPayment(ctx context.Context, id int64) (Payment, error)
	ListPaymentsByReservation(ctx context.Context, reservationID int64) ([]Payment, error)
	ListPaymentsByGuest(ctx context.Context, guestID int64) ([]Payment, error)
	// ListPaymentsOn returns payments whose paid_at falls on the given
	// calendar day.
	ListPaymentsOn(ctx context.Context, day time.Time) ([]Payment, error)
	// RevenueOn sums non-FAILED payment amounts for the given calendar day.
	RevenueOn(ctx context.Context, day time.Time) (float64, error)
}

type InvoiceRepository interface {
	CreateInvoice(ctx context.Context, inv Invoice) (Invoice, error)
	GetInvoice(ctx context.Context, id int64) (Invoice, error)
	ListInvoicesByReservation(ctx context.Context, reservationID int64) ([]Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id int64, status InvoiceStatus) (Invoice, error)
	// MarkOverdueInvoices flips PENDING/SENT invoices past their due date to
	// OVERDUE and reports how many rows changed (night-audit input).
	MarkOverdueInvoices(ctx context.Context, now time.Time) (int64, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
