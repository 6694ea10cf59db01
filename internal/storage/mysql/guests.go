package mysql

import (
	"context"
	"database/sql"

	"hotelops/internal/domain"
)

func scanGuest(rs rowScanner) (domain.Guest, error) {
	var g domain.Guest
	var phone, doc sql.NullString
	if err := rs.Scan(
		&g.ID,
		&g.FirstName,
		&g.LastName,
		&g.Email,
		&phone,
		&doc,
		&g.VIP,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return domain.Guest{}, err
	}
	g.Phone = strPtr(phone)
	g.IDDocument = strPtr(doc)
	return g, nil
}

func (r *Repo) CreateGuest(ctx context.Context, g domain.Guest) (domain.Guest, error) {
	res, err := r.db.ExecContext(ctx, insertGuestSQL,
		g.FirstName,
		g.LastName,
		g.Email,
		valStr(g.Phone),
		valStr(g.IDDocument),
		g.VIP,
	)
	if err != nil {
		return domain.Guest{}, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Guest{}, err
	}
	return r.GetGuest(ctx, id)
}

func (r *Repo) GetGuest(ctx context.Context, id int64) (domain.Guest, error) {
	g, err := scanGuest(r.db.QueryRowContext(ctx, selectGuestCols+`WHERE id = ?`, id))
	if err != nil {
		return domain.Guest{}, translate(err)
	}
	return g, nil
}

func (r *Repo) ListGuests(ctx context.Context) ([]domain.Guest, error) {
	rows, err := r.db.QueryContext(ctx, selectGuestCols+`ORDER BY id`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []domain.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
