package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hotelops/internal/domain"
)

func scanPayment(rs rowScanner) (domain.Payment, error) {
	var p domain.Payment
	var invoiceID sql.NullInt64
	var txnID, notes sql.NullString
	if err := rs.Scan(
		&p.ID,
		&p.ReservationID,
		&invoiceID,
		&p.Amount,
		&p.Method,
		&p.PaidAt,
		&p.Status,
		&txnID,
		&notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return domain.Payment{}, err
	}
	p.InvoiceID = int64Ptr(invoiceID)
	p.TransactionID = strPtr(txnID)
	p.Notes = strPtr(notes)
	return p, nil
}

// CreatePayment writes the payment and the reservation's derived paid_amount
// in one transaction; the reservation row is locked so racing payment writes
// recalculate sequentially.
func (r *Repo) CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	var out domain.Payment
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var resID int64
		if err := tx.QueryRowContext(ctx, lockReservationSQL, p.ReservationID).Scan(&resID); err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("%w: reservation %d", domain.ErrNotFound, p.ReservationID)
			}
			return err
		}

		res, err := tx.ExecContext(ctx, insertPaymentSQL,
			p.ReservationID,
			valInt64(p.InvoiceID),
			p.Amount,
			string(p.Method),
			p.PaidAt,
			string(p.Status),
			valStr(p.TransactionID),
			valStr(p.Notes),
		)
		if err != nil {
			return translate(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, recalcPaidAmountSQL, p.ReservationID, p.ReservationID); err != nil {
			return err
		}

		out, err = scanPayment(tx.QueryRowContext(ctx, selectPaymentCols+`WHERE id = ?`, id))
		return err
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return out, nil
}

func (r *Repo) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (domain.Payment, error) {
	var out domain.Payment
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanPayment(tx.QueryRowContext(ctx, selectPaymentCols+`WHERE id = ? FOR UPDATE`, id))
		if err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("%w: payment %d", domain.ErrNotFound, id)
			}
			return err
		}

		var resID int64
		if err := tx.QueryRowContext(ctx, lockReservationSQL, cur.ReservationID).Scan(&resID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, updatePaymentStatusSQL, string(status), id); err != nil {
			return translate(err)
		}
		if _, err := tx.ExecContext(ctx, recalcPaidAmountSQL, cur.ReservationID, cur.ReservationID); err != nil {
			return err
		}

		out, err = scanPayment(tx.QueryRowContext(ctx, selectPaymentCols+`WHERE id = ?`, id))
		return err
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return out, nil
}

func (r *Repo) GetPayment(ctx context.Context, id int64) (domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, selectPaymentCols+`WHERE id = ?`, id))
	if err != nil {
		return domain.Payment{}, translate(err)
	}
	return p, nil
}

func (r *Repo) ListPaymentsByReservation(ctx context.Context, reservationID int64) ([]domain.Payment, error) {
	return r.queryPayments(ctx, selectPaymentCols+`WHERE reservation_id = ? ORDER BY paid_at, id`, reservationID)
}

func (r *Repo) ListPaymentsByGuest(ctx context.Context, guestID int64) ([]domain.Payment, error) {
	return r.queryPayments(ctx, listPaymentsByGuestSQL, guestID)
}

func (r *Repo) ListPaymentsOn(ctx context.Context, day time.Time) ([]domain.Payment, error) {
	start := domain.TruncateToDay(day)
	return r.queryPayments(ctx, listPaymentsOnSQL, start, start.AddDate(0, 0, 1))
}

func (r *Repo) RevenueOn(ctx context.Context, day time.Time) (float64, error) {
	start := domain.TruncateToDay(day)
	var total float64
	err := r.db.QueryRowContext(ctx, revenueOnSQL, start, start.AddDate(0, 0, 1)).Scan(&total)
	return total, translate(err)
}

func (r *Repo) queryPayments(ctx context.Context, q string, args ...any) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
