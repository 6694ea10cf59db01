package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"hotelops/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(rs rowScanner) (domain.Room, error) {
	var rm domain.Room
	var desc sql.NullString
	var amenitiesJSON, imagesJSON []byte
	if err := rs.Scan(
		&rm.ID,
		&rm.RoomNumber,
		&rm.RoomType,
		&rm.Floor,
		&rm.Price,
		&rm.Status,
		&rm.MaxOccupancy,
		&desc,
		&amenitiesJSON,
		&imagesJSON,
		&rm.CreatedAt,
		&rm.UpdatedAt,
	); err != nil {
		return domain.Room{}, err
	}
	rm.Description = strPtr(desc)
	_ = json.Unmarshal(amenitiesJSON, &rm.Amenities)
	_ = json.Unmarshal(imagesJSON, &rm.Images)
	return rm, nil
}

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) (domain.Room, error) {
	amen, _ := json.Marshal(rm.Amenities)
	imgs, _ := json.Marshal(rm.Images)
	res, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.RoomNumber,
		rm.RoomType,
		rm.Floor,
		rm.Price,
		string(rm.Status),
		rm.MaxOccupancy,
		valStr(rm.Description),
		string(amen),
		string(imgs),
	)
	if err != nil {
		return domain.Room{}, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Room{}, err
	}
	return r.GetRoom(ctx, id)
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) (domain.Room, error) {
	amen, _ := json.Marshal(rm.Amenities)
	imgs, _ := json.Marshal(rm.Images)
	res, err := r.db.ExecContext(ctx, updateRoomSQL,
		rm.RoomNumber,
		rm.RoomType,
		rm.Floor,
		rm.Price,
		string(rm.Status),
		rm.MaxOccupancy,
		valStr(rm.Description),
		string(amen),
		string(imgs),
		rm.ID,
	)
	if err != nil {
		return domain.Room{}, translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// zero rows can also mean a no-op update; confirm existence
		if _, err := r.GetRoom(ctx, rm.ID); err != nil {
			return domain.Room{}, err
		}
	}
	return r.GetRoom(ctx, rm.ID)
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, selectRoomCols+`WHERE id = ?`, id))
	if err != nil {
		return domain.Room{}, translate(err)
	}
	return rm, nil
}

func (r *Repo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return r.queryRooms(ctx, selectRoomCols+`ORDER BY room_number`)
}

func (r *Repo) ListAvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	return r.queryRooms(ctx, listAvailableRoomsSQL, checkOut, checkIn)
}

func (r *Repo) ListOccupiedRooms(ctx context.Context, on time.Time) ([]domain.Room, error) {
	return r.queryRooms(ctx, listOccupiedRoomsSQL, on, on)
}

func (r *Repo) queryRooms(ctx context.Context, q string, args ...any) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}
