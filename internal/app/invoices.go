package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotelops/internal/domain"
)

type InvoiceService struct {
	invoices     domain.InvoiceRepository
	reservations domain.ReservationRepository
}

func NewInvoiceService(i domain.InvoiceRepository, r domain.ReservationRepository) *InvoiceService {
	return &InvoiceService{invoices: i, reservations: r}
}

type CreateInvoiceInput struct {
	ReservationID int64
	Subtotal      float64
	Tax           float64
	Discount      float64
	IssueDate     *time.Time // defaults to now
	DueDate       *time.Time // defaults to issue date + 14 days
	Notes         *string
}

func (s *InvoiceService) CreateInvoice(ctx context.Context, actor domain.Principal, in CreateInvoiceInput) (domain.Invoice, error) {
	if !actor.Valid() {
		return domain.Invoice{}, fmt.Errorf("%w: missing principal", domain.ErrInvalidArgument)
	}
	if in.Subtotal < 0 || in.Tax < 0 || in.Discount < 0 {
		return domain.Invoice{}, fmt.Errorf("%w: invoice amounts must not be negative", domain.ErrInvalidArgument)
	}
	if _, err := s.reservations.GetReservation(ctx, in.ReservationID); err != nil {
		return domain.Invoice{}, fmt.Errorf("reservation %d: %w", in.ReservationID, err)
	}

	issue := time.Now().UTC()
	if in.IssueDate != nil {
		issue = in.IssueDate.UTC()
	}
	due := issue.AddDate(0, 0, 14)
	if in.DueDate != nil {
		due = in.DueDate.UTC()
	}
	if due.Before(issue) {
		return domain.Invoice{}, fmt.Errorf("%w: due date precedes issue date", domain.ErrInvalidArgument)
	}

	total := in.Subtotal + in.Tax - in.Discount
	if total < 0 {
		return domain.Invoice{}, fmt.Errorf("%w: discount exceeds invoice total", domain.ErrInvalidArgument)
	}

	return s.invoices.CreateInvoice(ctx, domain.Invoice{
		InvoiceNumber: "INV-" + uuid.NewString(),
		ReservationID: in.ReservationID,
		Subtotal:      in.Subtotal,
		Tax:           in.Tax,
		Discount:      in.Discount,
		Total:         total,
		IssueDate:     issue,
		DueDate:       due,
		Status:        domain.InvoicePending,
		Notes:         in.Notes,
	})
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id int64) (domain.Invoice, error) {
	return s.invoices.GetInvoice(ctx, id)
}

func (s *InvoiceService) InvoicesByReservation(ctx context.Context, reservationID int64) ([]domain.Invoice, error) {
	return s.invoices.ListInvoicesByReservation(ctx, reservationID)
}

func (s *InvoiceService) UpdateInvoiceStatus(ctx context.Context, actor domain.Principal, id int64, status domain.InvoiceStatus) (domain.Invoice, error) {
	if !actor.Valid() {
		return domain.Invoice{}, fmt.Errorf("%w: missing principal", domain.ErrInvalidArgument)
	}
	return s.invoices.UpdateInvoiceStatus(ctx, id, status)
}

// MarkOverdue flips unpaid invoices past their due date to OVERDUE.
// Called by the night audit.
func (s *InvoiceService) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	return s.invoices.MarkOverdueInvoices(ctx, now)
}
