package domain

import (
	"fmt"
	"time"
)

type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "PENDING"
	ReservationConfirmed  ReservationStatus = "CONFIRMED"
	ReservationCheckedIn  ReservationStatus = "CHECKED_IN"
	ReservationCheckedOut ReservationStatus = "CHECKED_OUT"
	ReservationCancelled  ReservationStatus = "CANCELLED"
	ReservationNoShow     ReservationStatus = "NO_SHOW"
)

func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch ReservationStatus(s) {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn,
		ReservationCheckedOut, ReservationCancelled, ReservationNoShow:
		return ReservationStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown reservation status %q", ErrInvalidArgument, s)
}

// ActiveReservationStatuses are the statuses that occupy a room and block
// overlapping bookings. PENDING does not hold inventory.
var ActiveReservationStatuses = []ReservationStatus{ReservationConfirmed, ReservationCheckedIn}

func (s ReservationStatus) Active() bool {
	return s == ReservationConfirmed || s == ReservationCheckedIn
}

// Terminal statuses admit no further transitions.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationCheckedOut, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// CanTransitionTo encodes the lifecycle state machine:
// PENDING → CONFIRMED, CONFIRMED → CHECKED_IN, CHECKED_IN → CHECKED_OUT,
// any non-terminal → CANCELLED, CONFIRMED → NO_SHOW.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	if s == next {
		return false
	}
	switch next {
	case ReservationConfirmed:
		return s == ReservationPending
	case ReservationCheckedIn:
		return s == ReservationConfirmed
	case ReservationCheckedOut:
		return s == ReservationCheckedIn
	case ReservationCancelled:
		return !s.Terminal()
	case ReservationNoShow:
		return s == ReservationConfirmed
	}
	return false
}

type Reservation struct {
	ID                 int64
	ReservationNumber  string
	GuestID            int64
	RoomID             int64
	CheckInDate        time.Time // calendar date, UTC midnight
	CheckOutDate       time.Time // calendar date, UTC midnight; stay is [in, out)
	NumberOfGuests     int
	Status             ReservationStatus
	TotalAmount        float64
	PaidAmount         float64
	SpecialRequests    *string
	ActualCheckInDate  *time.Time
	ActualCheckOutDate *time.Time
	AuditedRecord
}

func (r Reservation) Nights() int {
	return int(r.CheckOutDate.Sub(r.CheckInDate).Hours() / 24)
}

// Overlaps reports whether two half-open date ranges [a1,b1) and [a2,b2)
// share at least one night. Equal checkout/checkin dates do not overlap,
// which permits same-day turnover.
func Overlaps(a1, b1, a2, b2 time.Time) bool {
	return a1.Before(b2) && a2.Before(b1)
}

// TruncateToDay normalizes t to UTC midnight; reservation ranges carry no
// time-of-day.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateStayRange enforces checkIn < checkOut on whole days.
func ValidateStayRange(checkIn, checkOut time.Time) error {
	if !checkIn.Before(checkOut) {
		return fmt.Errorf("%w: check-out must be after check-in", ErrInvalidArgument)
	}
	return nil
}
