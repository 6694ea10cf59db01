package domain

import (
	"fmt"
	"time"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomMaintenance RoomStatus = "MAINTENANCE"
)

// ParseRoomStatus rejects unknown values at the boundary instead of storing
// an unchecked string.
func ParseRoomStatus(s string) (RoomStatus, error) {
	switch RoomStatus(s) {
	case RoomAvailable, RoomOccupied, RoomMaintenance:
		return RoomStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown room status %q", ErrInvalidArgument, s)
}

// AuditedRecord carries the audit timestamps every persisted entity embeds.
type AuditedRecord struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Room struct {
	ID           int64
	RoomNumber   string
	RoomType     string
	Floor        int
	Price        float64
	Status       RoomStatus
	MaxOccupancy int
	Description  *string
	Amenities    []string
	Images       []string
	AuditedRecord
}
