package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"hotelops/internal/app"
	"hotelops/internal/domain"
)

type paymentDTO struct {
	ID            int64   `json:"id"`
	ReservationID int64   `json:"reservationId"`
	InvoiceID     *int64  `json:"invoiceId,omitempty"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	PaidAt        string  `json:"paidAt"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transactionId,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

func toPaymentDTO(p domain.Payment) paymentDTO {
	return paymentDTO{
		ID:            p.ID,
		ReservationID: p.ReservationID,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		PaidAt:        p.PaidAt.UTC().Format(time.RFC3339),
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		Notes:         p.Notes,
	}
}

func paymentDTOs(ps []domain.Payment) []paymentDTO {
	out := make([]paymentDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPaymentDTO(p))
	}
	return out
}

type createPaymentRequest struct {
	ReservationID int64   `json:"reservationId"`
	InvoiceID     *int64  `json:"invoiceId,omitempty"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	PaidAt        *string `json:"paidAt,omitempty"`
	Status        *string `json:"status,omitempty"`
	TransactionID *string `json:"transactionId,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

func (h *Handlers) createPayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	in := app.CreatePaymentInput{
		ReservationID: req.ReservationID,
		InvoiceID:     req.InvoiceID,
		Amount:        req.Amount,
		Method:        method,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}
	if req.Status != nil {
		st, err := domain.ParsePaymentStatus(*req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		in.Status = &st
	}
	if req.PaidAt != nil {
		ts, err := time.Parse(time.RFC3339, *req.PaidAt)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Argument", "paidAt must be RFC 3339")
			return
		}
		in.PaidAt = &ts
	}

	p, err := h.Payments.CreatePayment(r.Context(), principalFrom(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(p))
}

func (h *Handlers) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	status, err := domain.ParsePaymentStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.Payments.UpdatePaymentStatus(r.Context(), principalFrom(r), id, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(p))
}

func (h *Handlers) getPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	p, err := h.Payments.GetPayment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(p))
}

// listPayments filters by reservation or guest; one of the two is required
// to keep the endpoint from dumping the whole ledger.
func (h *Handlers) listPayments(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("reservationId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Argument", "reservationId must be a number")
			return
		}
		ps, err := h.Payments.PaymentsByReservation(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paymentDTOs(ps))
		return
	}
	if v := r.URL.Query().Get("guestId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Argument", "guestId must be a number")
			return
		}
		ps, err := h.Payments.PaymentsByGuest(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paymentDTOs(ps))
		return
	}
	writeProblem(w, http.StatusBadRequest, "Invalid Argument", "reservationId or guestId query parameter is required")
}

func (h *Handlers) todayPayments(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Payments.PaymentsOn(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentDTOs(ps))
}

func (h *Handlers) todayRevenue(w http.ResponseWriter, r *http.Request) {
	total, err := h.Payments.RevenueOn(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  time.Now().UTC().Format(dateLayout),
		"total": total,
	})
}
