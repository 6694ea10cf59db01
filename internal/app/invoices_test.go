package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hotelops/internal/app"
	"hotelops/internal/domain"
)

type memInvoices struct {
	mu       sync.Mutex
	nextID   int64
	invoices map[int64]domain.Invoice
}

func newMemInvoices() *memInvoices { return &memInvoices{invoices: map[int64]domain.Invoice{}} }

func (m *memInvoices) CreateInvoice(ctx context.Context, inv domain.Invoice) (domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	inv.ID = m.nextID
	m.invoices[inv.ID] = inv
	return inv, nil
}

func (m *memInvoices) GetInvoice(ctx context.Context, id int64) (domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return inv, nil
}

func (m *memInvoices) ListInvoicesByReservation(ctx context.Context, reservationID int64) ([]domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Invoice
	for _, inv := range m.invoices {
		if inv.ReservationID == reservationID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memInvoices) UpdateInvoiceStatus(ctx context.Context, id int64, status domain.InvoiceStatus) (domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return domain.Invoice{}, domain.ErrNotFound
	}
	inv.Status = status
	m.invoices[id] = inv
	return inv, nil
}

func (m *memInvoices) MarkOverdueInvoices(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, inv := range m.invoices {
		if (inv.Status == domain.InvoicePending || inv.Status == domain.InvoiceSent) && inv.DueDate.Before(now) {
			inv.Status = domain.InvoiceOverdue
			m.invoices[id] = inv
			n++
		}
	}
	return n, nil
}

func TestCreateInvoice_TotalsAndDefaults(t *testing.T) {
	store := newMemStore()
	rv := seedReservation(t, store)
	invs := newMemInvoices()
	svc := app.NewInvoiceService(invs, store)
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, staff, app.CreateInvoiceInput{
		ReservationID: rv.ID, Subtotal: 200, Tax: 40, Discount: 20,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.Total != 220 {
		t.Fatalf("expected total 220 (200+40-20), got %v", inv.Total)
	}
	if inv.Status != domain.InvoicePending {
		t.Fatalf("expected PENDING, got %s", inv.Status)
	}
	if got, want := inv.DueDate, inv.IssueDate.AddDate(0, 0, 14); !got.Equal(want) {
		t.Fatalf("expected due date %v, got %v", want, got)
	}
	if inv.InvoiceNumber == "" {
		t.Fatal("invoice number not assigned")
	}

	// discount larger than the invoice
	if _, err := svc.CreateInvoice(ctx, staff, app.CreateInvoiceInput{
		ReservationID: rv.ID, Subtotal: 10, Discount: 50,
	}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for negative total, got %v", err)
	}

	// due date before issue date
	issue := time.Now().UTC()
	due := issue.AddDate(0, 0, -1)
	if _, err := svc.CreateInvoice(ctx, staff, app.CreateInvoiceInput{
		ReservationID: rv.ID, Subtotal: 100, IssueDate: &issue, DueDate: &due,
	}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for due < issue, got %v", err)
	}

	// unknown reservation
	if _, err := svc.CreateInvoice(ctx, staff, app.CreateInvoiceInput{
		ReservationID: 9999, Subtotal: 100,
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown reservation, got %v", err)
	}
}

func TestMarkOverdue(t *testing.T) {
	store := newMemStore()
	rv := seedReservation(t, store)
	invs := newMemInvoices()
	svc := app.NewInvoiceService(invs, store)
	ctx := context.Background()

	issue := time.Now().UTC().AddDate(0, 0, -30)
	pastDue := issue.AddDate(0, 0, 7)
	futureDue := time.Now().UTC().AddDate(0, 0, 7)

	overdue, err := svc.CreateInvoice(ctx, staff, app.CreateInvoiceInput{
		ReservationID: rv.ID, Subtotal: 100, IssueDate: &issue, DueDate: &pastDue,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	current, err := svc.CreateInvoice(ctx, staff, app.CreateInvoiceInput{
		ReservationID: rv.ID, Subtotal: 100, DueDate: &futureDue,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := svc.MarkOverdue(ctx, time.Now())
	if err != nil {
		t.Fatalf("mark overdue: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 invoice flipped, got %d", n)
	}
	if got, _ := svc.GetInvoice(ctx, overdue.ID); got.Status != domain.InvoiceOverdue {
		t.Fatalf("expected OVERDUE, got %s", got.Status)
	}
	if got, _ := svc.GetInvoice(ctx, current.ID); got.Status != domain.InvoicePending {
		t.Fatalf("future invoice must stay PENDING, got %s", got.Status)
	}
}
