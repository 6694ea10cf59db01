package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotelops/internal/adapters/observability"
	"hotelops/internal/domain"
)

// PaymentService is the payment ledger: it attaches payments to
// reservations, moves their status, and aggregates daily revenue.
type PaymentService struct {
	payments     domain.PaymentRepository
	reservations domain.ReservationRepository
	cache        domain.Cache
	cacheTTL     time.Duration
}

func NewPaymentService(p domain.PaymentRepository, r domain.ReservationRepository, cache domain.Cache, ttl time.Duration) *PaymentService {
	return &PaymentService{payments: p, reservations: r, cache: cache, cacheTTL: ttl}
}

type CreatePaymentInput struct {
	ReservationID int64
	InvoiceID     *int64
	Amount        float64
	Method        domain.PaymentMethod
	PaidAt        *time.Time // defaults to now
	Status        *domain.PaymentStatus
	TransactionID *string
	Notes         *string
}

func (s *PaymentService) CreatePayment(ctx context.Context, actor domain.Principal, in CreatePaymentInput) (domain.Payment, error) {
	if !actor.Valid() {
		return domain.Payment{}, fmt.Errorf("%w: missing principal", domain.ErrInvalidArgument)
	}
	if in.Amount <= 0 {
		return domain.Payment{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidArgument)
	}
	if _, err := s.reservations.GetReservation(ctx, in.ReservationID); err != nil {
		return domain.Payment{}, fmt.Errorf("reservation %d: %w", in.ReservationID, err)
	}

	status := domain.PaymentPending
	if in.Status != nil {
		status = *in.Status
	}
	paidAt := time.Now().UTC()
	if in.PaidAt != nil {
		paidAt = in.PaidAt.UTC()
	}
	txnID := in.TransactionID
	if txnID == nil {
		generated := "TXN-" + uuid.NewString()
		txnID = &generated
	}

	p, err := s.payments.CreatePayment(ctx, domain.Payment{
		ReservationID: in.ReservationID,
		InvoiceID:     in.InvoiceID,
		Amount:        in.Amount,
		Method:        in.Method,
		PaidAt:        paidAt,
		Status:        status,
		TransactionID: txnID,
		Notes:         in.Notes,
	})
	if err != nil {
		observability.ObservePayment(outcomeLabel(err))
		return domain.Payment{}, err
	}
	observability.ObservePayment(string(p.Status))
	s.invalidate(ctx, p)
	return p, nil
}

// UpdatePaymentStatus settles or fails a pending payment. Targets other than
// PAID/FAILED are rejected; settling an already settled payment conflicts.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, actor domain.Principal, id int64, status domain.PaymentStatus) (domain.Payment, error) {
	if !actor.Valid() {
		return domain.Payment{}, fmt.Errorf("%w: missing principal", domain.ErrInvalidArgument)
	}
	if status != domain.PaymentPaid && status != domain.PaymentFailed {
		return domain.Payment{}, fmt.Errorf("%w: payment status target must be PAID or FAILED", domain.ErrInvalidArgument)
	}
	cur, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if cur.Status != domain.PaymentPending && cur.Status != status {
		return domain.Payment{}, fmt.Errorf("%w: payment %d already %s", domain.ErrConflict, id, cur.Status)
	}

	p, err := s.payments.UpdatePaymentStatus(ctx, id, status)
	if err != nil {
		return domain.Payment{}, err
	}
	observability.ObservePayment(string(status))
	s.invalidate(ctx, p)
	return p, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id int64) (domain.Payment, error) {
	return s.payments.GetPayment(ctx, id)
}

func (s *PaymentService) PaymentsByReservation(ctx context.Context, reservationID int64) ([]domain.Payment, error) {
	return s.payments.ListPaymentsByReservation(ctx, reservationID)
}

func (s *PaymentService) PaymentsByGuest(ctx context.Context, guestID int64) ([]domain.Payment, error) {
	return s.payments.ListPaymentsByGuest(ctx, guestID)
}

func (s *PaymentService) PaymentsOn(ctx context.Context, day time.Time) ([]domain.Payment, error) {
	return s.payments.ListPaymentsOn(ctx, day)
}

// RevenueOn sums the day's non-FAILED payment amounts. The aggregate is
// cached per calendar day and evicted on every payment write for that day.
func (s *PaymentService) RevenueOn(ctx context.Context, day time.Time) (float64, error) {
	key := "revenue:" + domain.TruncateToDay(day).Format(dateKeyLayout)
	var total float64
	if ok, _ := s.cache.Get(ctx, key, &total); ok {
		return total, nil
	}
	total, err := s.payments.RevenueOn(ctx, day)
	if err != nil {
		return 0, err
	}
	_ = s.cache.Set(ctx, key, total, int(s.cacheTTL.Seconds()))
	return total, nil
}

func (s *PaymentService) invalidate(ctx context.Context, p domain.Payment) {
	_ = s.cache.Del(ctx, "revenue:"+domain.TruncateToDay(p.PaidAt).Format(dateKeyLayout))
	// paid_amount changed, drop the cached reservation view too
	_ = s.cache.Del(ctx, fmt.Sprintf("reservation:%d", p.ReservationID))
}
