package app

import (
	"context"
	"fmt"
	"strings"

	"hotelops/internal/domain"
)

type GuestService struct {
	guests       domain.GuestRepository
	reservations domain.ReservationRepository
}

func NewGuestService(g domain.GuestRepository, r domain.ReservationRepository) *GuestService {
	return &GuestService{guests: g, reservations: r}
}

type CreateGuestInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      *string
	IDDocument *string
	VIP        bool
}

func (s *GuestService) CreateGuest(ctx context.Context, actor domain.Principal, in CreateGuestInput) (domain.Guest, error) {
	if !actor.Valid() {
		return domain.Guest{}, fmt.Errorf("%w: missing principal", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return domain.Guest{}, fmt.Errorf("%w: guest name is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Email) == "" {
		return domain.Guest{}, fmt.Errorf("%w: guest email is required", domain.ErrInvalidArgument)
	}
	return s.guests.CreateGuest(ctx, domain.Guest{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      in.Phone,
		IDDocument: in.IDDocument,
		VIP:        in.VIP,
	})
}

func (s *GuestService) GetGuest(ctx context.Context, id int64) (domain.Guest, error) {
	return s.guests.GetGuest(ctx, id)
}

func (s *GuestService) ListGuests(ctx context.Context) ([]domain.Guest, error) {
	return s.guests.ListGuests(ctx)
}

func (s *GuestService) GuestReservations(ctx context.Context, guestID int64) ([]domain.Reservation, error) {
	if _, err := s.guests.GetGuest(ctx, guestID); err != nil {
		return nil, err
	}
	return s.reservations.ListReservations(ctx, domain.ReservationsQuery{GuestID: &guestID})
}
