package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hotelops/internal/domain"
)

func scanInvoice(rs rowScanner) (domain.Invoice, error) {
	var inv domain.Invoice
	var notes sql.NullString
	if err := rs.Scan(
		&inv.ID,
		&inv.InvoiceNumber,
		&inv.ReservationID,
		&inv.Subtotal,
		&inv.Tax,
		&inv.Discount,
		&inv.Total,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.Status,
		&notes,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	); err != nil {
		return domain.Invoice{}, err
	}
	inv.Notes = strPtr(notes)
	return inv, nil
}

func (r *Repo) CreateInvoice(ctx context.Context, inv domain.Invoice) (domain.Invoice, error) {
	res, err := r.db.ExecContext(ctx, insertInvoiceSQL,
		inv.InvoiceNumber,
		inv.ReservationID,
		inv.Subtotal,
		inv.Tax,
		inv.Discount,
		inv.Total,
		inv.IssueDate,
		inv.DueDate,
		string(inv.Status),
		valStr(inv.Notes),
	)
	if err != nil {
		return domain.Invoice{}, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Invoice{}, err
	}
	return r.GetInvoice(ctx, id)
}

func (r *Repo) GetInvoice(ctx context.Context, id int64) (domain.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, selectInvoiceCols+`WHERE id = ?`, id))
	if err != nil {
		return domain.Invoice{}, translate(err)
	}
	return inv, nil
}

func (r *Repo) ListInvoicesByReservation(ctx context.Context, reservationID int64) ([]domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, selectInvoiceCols+`WHERE reservation_id = ? ORDER BY issue_date, id`, reservationID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateInvoiceStatus(ctx context.Context, id int64, status domain.InvoiceStatus) (domain.Invoice, error) {
	res, err := r.db.ExecContext(ctx, updateInvoiceStatusSQL, string(status), id)
	if err != nil {
		return domain.Invoice{}, translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetInvoice(ctx, id); err != nil {
			return domain.Invoice{}, fmt.Errorf("%w: invoice %d", domain.ErrNotFound, id)
		}
	}
	return r.GetInvoice(ctx, id)
}

func (r *Repo) MarkOverdueInvoices(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, markOverdueInvoicesSQL, now)
	if err != nil {
		return 0, translate(err)
	}
	return res.RowsAffected()
}
