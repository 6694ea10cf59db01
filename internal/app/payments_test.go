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

// memLedger backs PaymentRepository in memory and mirrors the MySQL
// contract: every write recalculates the reservation's paid amount.
type memLedger struct {
	mu       sync.Mutex
	store    *memStore
	nextID   int64
	payments map[int64]domain.Payment
}

func newMemLedger(store *memStore) *memLedger {
	return &memLedger{store: store, payments: map[int64]domain.Payment{}}
}

func (l *memLedger) recalcPaid(reservationID int64) {
	total := 0.0
	for _, p := range l.payments {
		if p.ReservationID == reservationID && p.Status == domain.PaymentPaid {
			total += p.Amount
		}
	}
	l.store.mu.Lock()
	if rv, ok := l.store.reservations[reservationID]; ok {
		rv.PaidAmount = total
		l.store.reservations[reservationID] = rv
	}
	l.store.mu.Unlock()
}

func (l *memLedger) CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.store.GetReservation(ctx, p.ReservationID); err != nil {
		return domain.Payment{}, err
	}
	l.nextID++
	p.ID = l.nextID
	l.payments[p.ID] = p
	l.recalcPaid(p.ReservationID)
	return p, nil
}

func (l *memLedger) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (domain.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.payments[id]
	if !ok {
		return domain.Payment{}, domain.ErrNotFound
	}
	p.Status = status
	l.payments[id] = p
	l.recalcPaid(p.ReservationID)
	return p, nil
}

func (l *memLedger) GetPayment(ctx context.Context, id int64) (domain.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.payments[id]
	if !ok {
		return domain.Payment{}, domain.ErrNotFound
	}
	return p, nil
}

func (l *memLedger) ListPaymentsByReservation(ctx context.Context, reservationID int64) ([]domain.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Payment
	for _, p := range l.payments {
		if p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (l *memLedger) ListPaymentsByGuest(ctx context.Context, guestID int64) ([]domain.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Payment
	for _, p := range l.payments {
		rv, err := l.store.GetReservation(ctx, p.ReservationID)
		if err != nil {
			continue
		}
		if rv.GuestID == guestID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (l *memLedger) ListPaymentsOn(ctx context.Context, dayStart time.Time) ([]domain.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	start := domain.TruncateToDay(dayStart)
	end := start.Add(24 * time.Hour)
	var out []domain.Payment
	for _, p := range l.payments {
		if !p.PaidAt.Before(start) && p.PaidAt.Before(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (l *memLedger) RevenueOn(ctx context.Context, dayStart time.Time) (float64, error) {
	ps, err := l.ListPaymentsOn(ctx, dayStart)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, p := range ps {
		if p.Status != domain.PaymentFailed {
			total += p.Amount
		}
	}
	return total, nil
}

// ---- fixtures ----

func seedReservation(t *testing.T, store *memStore) domain.Reservation {
	t.Helper()
	g, r := seedGuestAndRoom(t, store)
	rv, err := store.CreateReservation(context.Background(), domain.Reservation{
		ReservationNumber: "RSV-test",
		GuestID:           g.ID,
		RoomID:            r.ID,
		CheckInDate:       day("2026-09-01"),
		CheckOutDate:      day("2026-09-03"),
		NumberOfGuests:    1,
		Status:            domain.ReservationConfirmed,
		TotalAmount:       240,
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	return rv
}

// ---- tests ----

func TestCreatePayment_DefaultsAndValidation(t *testing.T) {
	store := newMemStore()
	rv := seedReservation(t, store)
	ledger := newMemLedger(store)
	svc := app.NewPaymentService(ledger, store, newFakeCache(), 10*time.Minute)
	ctx := context.Background()

	// amount must be positive
	if _, err := svc.CreatePayment(ctx, staff, app.CreatePaymentInput{
		ReservationID: rv.ID, Amount: 0, Method: domain.PayCash,
	}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for zero amount, got %v", err)
	}

	// unknown reservation
	if _, err := svc.CreatePayment(ctx, staff, app.CreatePaymentInput{
		ReservationID: 9999, Amount: 50, Method: domain.PayCash,
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown reservation, got %v", err)
	}

	p, err := svc.CreatePayment(ctx, staff, app.CreatePaymentInput{
		ReservationID: rv.ID, Amount: 120, Method: domain.PayCreditCard,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != domain.PaymentPending {
		t.Fatalf("expected default status PENDING, got %s", p.Status)
	}
	if p.TransactionID == nil || *p.TransactionID == "" {
		t.Fatal("transaction id not generated")
	}
	if p.PaidAt.IsZero() {
		t.Fatal("paidAt not defaulted")
	}
}

func TestUpdatePaymentStatus_SettlementGuards(t *testing.T) {
	store := newMemStore()
	rv := seedReservation(t, store)
	ledger := newMemLedger(store)
	svc := app.NewPaymentService(ledger, store, newFakeCache(), 10*time.Minute)
	ctx := context.Background()

	p, err := svc.CreatePayment(ctx, staff, app.CreatePaymentInput{
		ReservationID: rv.ID, Amount: 120, Method: domain.PayCash,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// target must be a settlement state
	if _, err := svc.UpdatePaymentStatus(ctx, staff, p.ID, domain.PaymentPending); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for PENDING target, got %v", err)
	}

	settled, err := svc.UpdatePaymentStatus(ctx, staff, p.ID, domain.PaymentPaid)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Status != domain.PaymentPaid {
		t.Fatalf("expected PAID, got %s", settled.Status)
	}
	// settled payments feed the reservation's paid amount
	got, _ := store.GetReservation(ctx, rv.ID)
	if got.PaidAmount != 120 {
		t.Fatalf("expected paid amount 120, got %v", got.PaidAmount)
	}

	// flipping a settled payment conflicts; re-settling the same way is idempotent
	if _, err := svc.UpdatePaymentStatus(ctx, staff, p.ID, domain.PaymentFailed); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict flipping PAID to FAILED, got %v", err)
	}
	if _, err := svc.UpdatePaymentStatus(ctx, staff, p.ID, domain.PaymentPaid); err != nil {
		t.Fatalf("re-settling PAID should be idempotent: %v", err)
	}
}

func TestRevenueOn_ExcludesFailed(t *testing.T) {
	store := newMemStore()
	rv := seedReservation(t, store)
	ledger := newMemLedger(store)
	svc := app.NewPaymentService(ledger, store, newFakeCache(), 10*time.Minute)
	ctx := context.Background()

	today := time.Now().UTC()
	paid := domain.PaymentPaid
	failed := domain.PaymentFailed

	mk := func(amount float64, status domain.PaymentStatus) {
		t.Helper()
		if _, err := svc.CreatePayment(ctx, staff, app.CreatePaymentInput{
			ReservationID: rv.ID, Amount: amount, Method: domain.PayCash,
			PaidAt: &today, Status: &status,
		}); err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}
	mk(100, paid)
	mk(40, domain.PaymentPending)
	mk(500, failed)

	total, err := svc.RevenueOn(ctx, today)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if total != 140 {
		t.Fatalf("expected revenue 140 (failed excluded), got %v", total)
	}

	// only PAID payments count toward the reservation's paid amount
	got, _ := store.GetReservation(ctx, rv.ID)
	if got.PaidAmount != 100 {
		t.Fatalf("expected paid amount 100, got %v", got.PaidAmount)
	}
}

func TestRevenueOn_CacheEvictedOnWrite(t *testing.T) {
	store := newMemStore()
	rv := seedReservation(t, store)
	ledger := newMemLedger(store)
	cache := newFakeCache()
	svc := app.NewPaymentService(ledger, store, cache, 10*time.Minute)
	ctx := context.Background()

	today := time.Now().UTC()
	paid := domain.PaymentPaid

	if _, err := svc.CreatePayment(ctx, staff, app.CreatePaymentInput{
		ReservationID: rv.ID, Amount: 100, Method: domain.PayCash,
		PaidAt: &today, Status: &paid,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if total, _ := svc.RevenueOn(ctx, today); total != 100 {
		t.Fatalf("expected 100, got %v", total)
	}

	// a new payment must evict the cached aggregate
	if _, err := svc.CreatePayment(ctx, staff, app.CreatePaymentInput{
		ReservationID: rv.ID, Amount: 60, Method: domain.PayCash,
		PaidAt: &today, Status: &paid,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if total, _ := svc.RevenueOn(ctx, today); total != 160 {
		t.Fatalf("expected recomputed revenue 160, got %v", total)
	}
}
