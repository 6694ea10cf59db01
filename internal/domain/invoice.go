package domain

import (
	"fmt"
	"time"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch InvoiceStatus(s) {
	case InvoicePending, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return InvoiceStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown invoice status %q", ErrInvalidArgument, s)
}

// Invoice is a satellite record of a reservation; payments may reference it
// but neither side owns the other.
type Invoice struct {
	ID            int64
	InvoiceNumber string
	ReservationID int64
	Subtotal      float64
	Tax           float64
	Discount      float64
	Total         float64
	IssueDate     time.Time
	DueDate       time.Time
	Status        InvoiceStatus
	Notes         *string
	AuditedRecord
}
