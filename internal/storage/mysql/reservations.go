package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hotelops/internal/domain"
)

func scanReservation(rs rowScanner) (domain.Reservation, error) {
	var rv domain.Reservation
	var special sql.NullString
	var actualIn, actualOut sql.NullTime
	if err := rs.Scan(
		&rv.ID,
		&rv.ReservationNumber,
		&rv.GuestID,
		&rv.RoomID,
		&rv.CheckInDate,
		&rv.CheckOutDate,
		&rv.NumberOfGuests,
		&rv.Status,
		&rv.TotalAmount,
		&rv.PaidAmount,
		&special,
		&actualIn,
		&actualOut,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	); err != nil {
		return domain.Reservation{}, err
	}
	rv.SpecialRequests = strPtr(special)
	rv.ActualCheckInDate = timePtr(actualIn)
	rv.ActualCheckOutDate = timePtr(actualOut)
	return rv, nil
}

// CreateReservation serializes racing bookings on the room row: the
// SELECT ... FOR UPDATE blocks a concurrent transaction for the same room
// until this one commits, so its overlap count sees the inserted row.
func (r *Repo) CreateReservation(ctx context.Context, rv domain.Reservation) (domain.Reservation, error) {
	var out domain.Reservation
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var maxOccupancy int
		if err := tx.QueryRowContext(ctx, lockRoomSQL, rv.RoomID).Scan(&maxOccupancy); err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("%w: room %d", domain.ErrNotFound, rv.RoomID)
			}
			return err
		}

		var overlapping int
		if err := tx.QueryRowContext(ctx, countOverlappingSQL,
			rv.RoomID, rv.CheckOutDate, rv.CheckInDate, int64(0)).Scan(&overlapping); err != nil {
			return err
		}
		if overlapping > 0 {
			return fmt.Errorf("%w: room %d already booked in range", domain.ErrConflict, rv.RoomID)
		}

		res, err := tx.ExecContext(ctx, insertReservationSQL,
			rv.ReservationNumber,
			rv.GuestID,
			rv.RoomID,
			rv.CheckInDate,
			rv.CheckOutDate,
			rv.NumberOfGuests,
			string(rv.Status),
			rv.TotalAmount,
			rv.PaidAmount,
			valStr(rv.SpecialRequests),
			valDate(rv.ActualCheckInDate),
			valDate(rv.ActualCheckOutDate),
		)
		if err != nil {
			return translate(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		out, err = scanReservation(tx.QueryRowContext(ctx, selectReservationCols+`WHERE id = ?`, id))
		return err
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return out, nil
}

// UpdateReservation replaces the mutable fields under the target room's lock,
// excluding the reservation's own row from the overlap count.
func (r *Repo) UpdateReservation(ctx context.Context, rv domain.Reservation) (domain.Reservation, error) {
	var out domain.Reservation
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := scanReservation(tx.QueryRowContext(ctx, selectReservationCols+`WHERE id = ? FOR UPDATE`, rv.ID)); err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("%w: reservation %d", domain.ErrNotFound, rv.ID)
			}
			return err
		}

		var maxOccupancy int
		if err := tx.QueryRowContext(ctx, lockRoomSQL, rv.RoomID).Scan(&maxOccupancy); err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("%w: room %d", domain.ErrNotFound, rv.RoomID)
			}
			return err
		}

		// Re-check availability whenever the updated row would hold inventory.
		if rv.Status.Active() {
			var overlapping int
			if err := tx.QueryRowContext(ctx, countOverlappingSQL,
				rv.RoomID, rv.CheckOutDate, rv.CheckInDate, rv.ID).Scan(&overlapping); err != nil {
				return err
			}
			if overlapping > 0 {
				return fmt.Errorf("%w: room %d already booked in range", domain.ErrConflict, rv.RoomID)
			}
		}

		if _, err := tx.ExecContext(ctx, updateReservationSQL,
			rv.GuestID,
			rv.RoomID,
			rv.CheckInDate,
			rv.CheckOutDate,
			rv.NumberOfGuests,
			string(rv.Status),
			rv.TotalAmount,
			valStr(rv.SpecialRequests),
			valDate(rv.ActualCheckInDate),
			valDate(rv.ActualCheckOutDate),
			rv.ID,
		); err != nil {
			return translate(err)
		}

		var err error
		out, err = scanReservation(tx.QueryRowContext(ctx, selectReservationCols+`WHERE id = ?`, rv.ID))
		return err
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return out, nil
}

// TransitionReservation moves the status with compare-and-set semantics. A
// transition that starts holding inventory (PENDING → CONFIRMED) re-checks
// availability under the room lock first: PENDING rows were not counted when
// overlapping bookings were created, so this is the claim point.
func (r *Repo) TransitionReservation(ctx context.Context, id int64, from, to domain.ReservationStatus, actualCheckIn, actualCheckOut *time.Time) (domain.Reservation, error) {
	var out domain.Reservation
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if to.Active() && !from.Active() {
			rv, err := scanReservation(tx.QueryRowContext(ctx, selectReservationCols+`WHERE id = ? FOR UPDATE`, id))
			if err != nil {
				if err == sql.ErrNoRows {
					return fmt.Errorf("%w: reservation %d", domain.ErrNotFound, id)
				}
				return err
			}

			var maxOccupancy int
			if err := tx.QueryRowContext(ctx, lockRoomSQL, rv.RoomID).Scan(&maxOccupancy); err != nil {
				if err == sql.ErrNoRows {
					return fmt.Errorf("%w: room %d", domain.ErrNotFound, rv.RoomID)
				}
				return err
			}

			var overlapping int
			if err := tx.QueryRowContext(ctx, countOverlappingSQL,
				rv.RoomID, rv.CheckOutDate, rv.CheckInDate, id).Scan(&overlapping); err != nil {
				return err
			}
			if overlapping > 0 {
				return fmt.Errorf("%w: room %d already booked in range", domain.ErrConflict, rv.RoomID)
			}
		}

		res, err := tx.ExecContext(ctx, transitionReservationSQL,
			string(to),
			valDate(actualCheckIn),
			valDate(actualCheckOut),
			id,
			string(from),
		)
		if err != nil {
			return translate(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			// Either the row is gone or another transition won the race.
			var cur string
			err := tx.QueryRowContext(ctx, `SELECT status FROM reservations WHERE id = ?`, id).Scan(&cur)
			if err == sql.ErrNoRows {
				return fmt.Errorf("%w: reservation %d", domain.ErrNotFound, id)
			}
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: reservation %d is %s, expected %s", domain.ErrConflict, id, cur, from)
		}
		out, err = scanReservation(tx.QueryRowContext(ctx, selectReservationCols+`WHERE id = ?`, id))
		return err
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return out, nil
}

func (r *Repo) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	rv, err := scanReservation(r.db.QueryRowContext(ctx, selectReservationCols+`WHERE id = ?`, id))
	if err != nil {
		return domain.Reservation{}, translate(err)
	}
	return rv, nil
}

func (r *Repo) ListReservations(ctx context.Context, q domain.ReservationsQuery) ([]domain.Reservation, error) {
	var conds []string
	var args []any
	if q.GuestID != nil {
		conds = append(conds, "guest_id = ?")
		args = append(args, *q.GuestID)
	}
	if q.RoomID != nil {
		conds = append(conds, "room_id = ?")
		args = append(args, *q.RoomID)
	}
	if q.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*q.Status))
	}
	sqlStr := selectReservationCols
	if len(conds) > 0 {
		sqlStr += "WHERE " + strings.Join(conds, " AND ") + "\n"
	}
	sqlStr += "ORDER BY check_in_date, id"
	return r.queryReservations(ctx, sqlStr, args...)
}

func (r *Repo) ListCurrentReservations(ctx context.Context, on time.Time) ([]domain.Reservation, error) {
	return r.queryReservations(ctx, listCurrentReservationsSQL, on, on)
}

func (r *Repo) ListNoShowCandidates(ctx context.Context, before time.Time) ([]domain.Reservation, error) {
	return r.queryReservations(ctx, listNoShowCandidatesSQL, before)
}

func (r *Repo) CountOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countOverlappingSQL, roomID, checkOut, checkIn, excludeID).Scan(&n)
	return n, translate(err)
}

func (r *Repo) DeleteReservation(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteReservationSQL, id)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: reservation %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *Repo) queryReservations(ctx context.Context, q string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
