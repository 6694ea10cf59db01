package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelops/internal/domain"
)

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid"
	default:
		return "error"
	}
}

const dateKeyLayout = "2006-01-02"

// RoomService manages the room catalog and the reservation-derived
// availability projections.
type RoomService struct {
	rooms    domain.RoomRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewRoomService(rooms domain.RoomRepository, cache domain.Cache, ttl time.Duration) *RoomService {
	return &RoomService{rooms: rooms, cache: cache, cacheTTL: ttl}
}

type RoomInput struct {
	RoomNumber   string
	RoomType     string
	Floor        int
	Price        float64
	Status       domain.RoomStatus
	MaxOccupancy int
	Description  *string
	Amenities    []string
	Images       []string
}

func (in RoomInput) validate() error {
	if strings.TrimSpace(in.RoomNumber) == "" {
		return fmt.Errorf("%w: room number is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.RoomType) == "" {
		return fmt.Errorf("%w: room type is required", domain.ErrInvalidArgument)
	}
	if in.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrInvalidArgument)
	}
	if in.MaxOccupancy < 1 {
		return fmt.Errorf("%w: max occupancy must be positive", domain.ErrInvalidArgument)
	}
	return nil
}

func (s *RoomService) CreateRoom(ctx context.Context, actor domain.Principal, in RoomInput) (domain.Room, error) {
	if !actor.Valid() {
		return domain.Room{}, fmt.Errorf("%w: missing principal", domain.ErrInvalidArgument)
	}
	if err := in.validate(); err != nil {
		return domain.Room{}, err
	}
	status := in.Status
	if status == "" {
		status = domain.RoomAvailable
	}
	return s.rooms.CreateRoom(ctx, domain.Room{
		RoomNumber:   in.RoomNumber,
		RoomType:     in.RoomType,
		Floor:        in.Floor,
		Price:        in.Price,
		Status:       status,
		MaxOccupancy: in.MaxOccupancy,
		Description:  in.Description,
		Amenities:    in.Amenities,
		Images:       in.Images,
	})
}

func (s *RoomService) UpdateRoom(ctx context.Context, actor domain.Principal, id int64, in RoomInput) (domain.Room, error) {
	if !actor.Valid() {
		return domain.Room{}, fmt.Errorf("%w: missing principal", domain.ErrInvalidArgument)
	}
	if err := in.validate(); err != nil {
		return domain.Room{}, err
	}
	existing, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}
	existing.RoomNumber = in.RoomNumber
	existing.RoomType = in.RoomType
	existing.Floor = in.Floor
	existing.Price = in.Price
	if in.Status != "" {
		existing.Status = in.Status
	}
	existing.MaxOccupancy = in.MaxOccupancy
	existing.Description = in.Description
	existing.Amenities = in.Amenities
	existing.Images = in.Images
	return s.rooms.UpdateRoom(ctx, existing)
}

func (s *RoomService) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	return s.rooms.GetRoom(ctx, id)
}

func (s *RoomService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.ListRooms(ctx)
}

// Per-range availability keys cannot be invalidated from the booking path
// (a write touches every range overlapping the stay), so they carry a short
// TTL of their own instead of the service-wide one.
const availabilityTTL = 60 * time.Second

// AvailableRooms lists rooms with no active reservation overlapping
// [checkIn, checkOut). The response is cached briefly; the booking path
// never trusts it and re-checks under the room lock.
func (s *RoomService) AvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	checkIn = domain.TruncateToDay(checkIn)
	checkOut = domain.TruncateToDay(checkOut)
	if err := domain.ValidateStayRange(checkIn, checkOut); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("rooms:available:%s:%s", checkIn.Format(dateKeyLayout), checkOut.Format(dateKeyLayout))
	var out []domain.Room
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.rooms.ListAvailableRooms(ctx, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	ttl := s.cacheTTL
	if ttl > availabilityTTL {
		ttl = availabilityTTL
	}
	_ = s.cache.Set(ctx, key, out, int(ttl.Seconds()))
	return out, nil
}

// OccupiedRooms lists rooms whose active reservation covers `on`. This is the
// single definition of "occupied"; the room status column is never consulted.
func (s *RoomService) OccupiedRooms(ctx context.Context, on time.Time) ([]domain.Room, error) {
	return s.rooms.ListOccupiedRooms(ctx, domain.TruncateToDay(on))
}
