package domain

import (
	"fmt"
	"time"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown payment status %q", ErrInvalidArgument, s)
}

type PaymentMethod string

const (
	PayCash          PaymentMethod = "CASH"
	PayCreditCard    PaymentMethod = "CREDIT_CARD"
	PayDebitCard     PaymentMethod = "DEBIT_CARD"
	PayBankTransfer  PaymentMethod = "BANK_TRANSFER"
	PayMobilePayment PaymentMethod = "MOBILE_PAYMENT"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PayCash, PayCreditCard, PayDebitCard, PayBankTransfer, PayMobilePayment:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidArgument, s)
}

type Payment struct {
	ID            int64
	ReservationID int64
	InvoiceID     *int64
	Amount        float64
	Method        PaymentMethod
	PaidAt        time.Time
	Status        PaymentStatus
	TransactionID *string
	Notes         *string
	AuditedRecord
}
