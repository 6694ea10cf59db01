package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotelops/internal/adapters/observability"
	"hotelops/internal/domain"
)

// ReservationService is the lifecycle manager: it owns booking creation,
// amendments, and status transitions, and fronts the availability checker.
type ReservationService struct {
	reservations domain.ReservationRepository
	rooms        domain.RoomRepository
	guests       domain.GuestRepository
	cache        domain.Cache
	cacheTTL     time.Duration
}

func NewReservationService(res domain.ReservationRepository, rooms domain.RoomRepository, guests domain.GuestRepository, cache domain.Cache, ttl time.Duration) *ReservationService {
	return &ReservationService{reservations: res, rooms: rooms, guests: guests, cache: cache, cacheTTL: ttl}
}

type CreateReservationInput struct {
	GuestID         int64
	RoomID          int64
	CheckInDate     time.Time
	CheckOutDate    time.Time
	NumberOfGuests  int
	TotalAmount     *float64 // derived from nights × room price when nil
	SpecialRequests *string
}

type UpdateReservationInput struct {
	GuestID         int64
	RoomID          int64
	CheckInDate     time.Time
	CheckOutDate    time.Time
	NumberOfGuests  int
	Status          domain.ReservationStatus
	TotalAmount     float64
	SpecialRequests *string
}

func newReservationNumber() string { return "RSV-" + uuid.NewString() }

func (s *ReservationService) CreateReservation(ctx context.Context, actor domain.Principal, in CreateReservationInput) (domain.Reservation, error) {
	if !actor.Valid() {
		return domain.Reservation{}, fmt.Errorf("%w: missing principal", domain.ErrInvalidArgument)
	}

	checkIn := domain.TruncateToDay(in.CheckInDate)
	checkOut := domain.TruncateToDay(in.CheckOutDate)
	if err := domain.ValidateStayRange(checkIn, checkOut); err != nil {
		return domain.Reservation{}, err
	}
	if in.NumberOfGuests < 1 {
		return domain.Reservation{}, fmt.Errorf("%w: number of guests must be positive", domain.ErrInvalidArgument)
	}

	if _, err := s.guests.GetGuest(ctx, in.GuestID); err != nil {
		return domain.Reservation{}, fmt.Errorf("guest %d: %w", in.GuestID, err)
	}
	room, err := s.rooms.GetRoom(ctx, in.RoomID)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("room %d: %w", in.RoomID, err)
	}
	if in.NumberOfGuests > room.MaxOccupancy {
		return domain.Reservation{}, fmt.Errorf("%w: %d guests exceed room capacity %d",
			domain.ErrInvalidArgument, in.NumberOfGuests, room.MaxOccupancy)
	}

	total := float64(0)
	if in.TotalAmount != nil {
		total = *in.TotalAmount
	} else {
		nights := int(checkOut.Sub(checkIn).Hours() / 24)
		total = float64(nights) * room.Price
	}

	rv := domain.Reservation{
		ReservationNumber: newReservationNumber(),
		GuestID:           in.GuestID,
		RoomID:            in.RoomID,
		CheckInDate:       checkIn,
		CheckOutDate:      checkOut,
		NumberOfGuests:    in.NumberOfGuests,
		Status:            domain.ReservationPending,
		TotalAmount:       total,
		PaidAmount:        0,
		SpecialRequests:   in.SpecialRequests,
	}

	// The repository re-checks the overlap under the room lock; this is the
	// authoritative availability decision.
	created, err := s.reservations.CreateReservation(ctx, rv)
	if err != nil {
		observability.ObserveBooking(outcomeLabel(err))
		return domain.Reservation{}, err
	}
	observability.ObserveBooking("created")
	return created, nil
}

func (s *ReservationService) UpdateReservation(ctx context.Context, actor domain.Principal, id int64, in UpdateReservationInput) (domain.Reservation, error) {
	if !actor.Valid() {
		return domain.Reservation{}, fmt.Errorf("%w: missing principal", domain.ErrInvalidArgument)
	}

	existing, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}

	checkIn := domain.TruncateToDay(in.CheckInDate)
	checkOut := domain.TruncateToDay(in.CheckOutDate)
	if err := domain.ValidateStayRange(checkIn, checkOut); err != nil {
		return domain.Reservation{}, err
	}
	if in.NumberOfGuests < 1 {
		return domain.Reservation{}, fmt.Errorf("%w: number of guests must be positive", domain.ErrInvalidArgument)
	}
	if in.Status != existing.Status && !existing.Status.CanTransitionTo(in.Status) {
		return domain.Reservation{}, fmt.Errorf("%w: cannot move reservation from %s to %s",
			domain.ErrConflict, existing.Status, in.Status)
	}

	if _, err := s.guests.GetGuest(ctx, in.GuestID); err != nil {
		return domain.Reservation{}, fmt.Errorf("guest %d: %w", in.GuestID, err)
	}
	room, err := s.rooms.GetRoom(ctx, in.RoomID)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("room %d: %w", in.RoomID, err)
	}
	if in.NumberOfGuests > room.MaxOccupancy {
		return domain.Reservation{}, fmt.Errorf("%w: %d guests exceed room capacity %d",
			domain.ErrInvalidArgument, in.NumberOfGuests, room.MaxOccupancy)
	}

	updated := existing
	updated.GuestID = in.GuestID
	updated.RoomID = in.RoomID
	updated.CheckInDate = checkIn
	updated.CheckOutDate = checkOut
	updated.NumberOfGuests = in.NumberOfGuests
	updated.Status = in.Status
	updated.TotalAmount = in.TotalAmount
	updated.SpecialRequests = in.SpecialRequests

	// A status change through an update carries the same side effects as a
	// dedicated transition: stamp the actual dates.
	if in.Status != existing.Status {
		today := domain.TruncateToDay(time.Now())
		switch in.Status {
		case domain.ReservationCheckedIn:
			updated.ActualCheckInDate = &today
		case domain.ReservationCheckedOut:
			updated.ActualCheckOutDate = &today
		}
	}

	// The repository excludes the reservation's own row when it re-checks the
	// overlap, so amendments that keep the same range pass.
	out, err := s.reservations.UpdateReservation(ctx, updated)
	if err != nil {
		observability.ObserveBooking(outcomeLabel(err))
		return domain.Reservation{}, err
	}
	s.invalidate(ctx, id)
	return out, nil
}

// Transition advances the lifecycle. Checking in stamps the actual arrival
// date; checking out stamps the actual departure date.
func (s *ReservationService) Transition(ctx context.Context, actor domain.Principal, id int64, to domain.ReservationStatus) (domain.Reservation, error) {
	if !actor.Valid() {
		return domain.Reservation{}, fmt.Errorf("%w: missing principal", domain.ErrInvalidArgument)
	}

	cur, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !cur.Status.CanTransitionTo(to) {
		return domain.Reservation{}, fmt.Errorf("%w: cannot move reservation from %s to %s",
			domain.ErrConflict, cur.Status, to)
	}

	var actualIn, actualOut *time.Time
	today := domain.TruncateToDay(time.Now())
	switch to {
	case domain.ReservationCheckedIn:
		actualIn = &today
	case domain.ReservationCheckedOut:
		actualOut = &today
	}

	out, err := s.reservations.TransitionReservation(ctx, id, cur.Status, to, actualIn, actualOut)
	if err != nil {
		return domain.Reservation{}, err
	}
	s.invalidate(ctx, id)
	return out, nil
}

// Cancel is a status change, never a row delete.
func (s *ReservationService) Cancel(ctx context.Context, actor domain.Principal, id int64) (domain.Reservation, error) {
	return s.Transition(ctx, actor, id, domain.ReservationCancelled)
}

// Delete hard-deletes a reservation row. Administrative cleanup only.
func (s *ReservationService) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	if !actor.Valid() {
		return fmt.Errorf("%w: missing principal", domain.ErrInvalidArgument)
	}
	if err := s.reservations.DeleteReservation(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	key := fmt.Sprintf("reservation:%d", id)
	var rv domain.Reservation
	if ok, _ := s.cache.Get(ctx, key, &rv); ok {
		return rv, nil
	}
	rv, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	_ = s.cache.Set(ctx, key, rv, int(s.cacheTTL.Seconds()))
	return rv, nil
}

func (s *ReservationService) ListReservations(ctx context.Context, q domain.ReservationsQuery) ([]domain.Reservation, error) {
	return s.reservations.ListReservations(ctx, q)
}

// CurrentReservations returns the active reservations whose stay covers `on`.
func (s *ReservationService) CurrentReservations(ctx context.Context, on time.Time) ([]domain.Reservation, error) {
	return s.reservations.ListCurrentReservations(ctx, domain.TruncateToDay(on))
}

// RoomAvailable is the read-only availability check: true when no active
// reservation overlaps [checkIn, checkOut) for the room.
func (s *ReservationService) RoomAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	checkIn = domain.TruncateToDay(checkIn)
	checkOut = domain.TruncateToDay(checkOut)
	if err := domain.ValidateStayRange(checkIn, checkOut); err != nil {
		return false, err
	}
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return false, fmt.Errorf("room %d: %w", roomID, err)
	}
	n, err := s.reservations.CountOverlapping(ctx, roomID, checkIn, checkOut, 0)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (s *ReservationService) invalidate(ctx context.Context, id int64) {
	_ = s.cache.Del(ctx, fmt.Sprintf("reservation:%d", id))
}
