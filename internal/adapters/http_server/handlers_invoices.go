package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"hotelops/internal/app"
	"hotelops/internal/domain"
)

type invoiceDTO struct {
	ID            int64   `json:"id"`
	InvoiceNumber string  `json:"invoiceNumber"`
	ReservationID int64   `json:"reservationId"`
	Subtotal      float64 `json:"subtotal"`
	Tax           float64 `json:"tax"`
	Discount      float64 `json:"discount"`
	Total         float64 `json:"total"`
	IssueDate     string  `json:"issueDate"`
	DueDate       string  `json:"dueDate"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes,omitempty"`
}

func toInvoiceDTO(inv domain.Invoice) invoiceDTO {
	return invoiceDTO{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ReservationID: inv.ReservationID,
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Discount:      inv.Discount,
		Total:         inv.Total,
		IssueDate:     inv.IssueDate.UTC().Format(time.RFC3339),
		DueDate:       inv.DueDate.UTC().Format(time.RFC3339),
		Status:        string(inv.Status),
		Notes:         inv.Notes,
	}
}

type createInvoiceRequest struct {
	ReservationID int64   `json:"reservationId"`
	Subtotal      float64 `json:"subtotal"`
	Tax           float64 `json:"tax"`
	Discount      float64 `json:"discount"`
	IssueDate     *string `json:"issueDate,omitempty"`
	DueDate       *string `json:"dueDate,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

func (h *Handlers) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	in := app.CreateInvoiceInput{
		ReservationID: req.ReservationID,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Discount:      req.Discount,
		Notes:         req.Notes,
	}
	if req.IssueDate != nil {
		ts, err := time.Parse(time.RFC3339, *req.IssueDate)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Argument", "issueDate must be RFC 3339")
			return
		}
		in.IssueDate = &ts
	}
	if req.DueDate != nil {
		ts, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Argument", "dueDate must be RFC 3339")
			return
		}
		in.DueDate = &ts
	}

	inv, err := h.Invoices.CreateInvoice(r.Context(), principalFrom(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceDTO(inv))
}

func (h *Handlers) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	inv, err := h.Invoices.GetInvoice(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceDTO(inv))
}

func (h *Handlers) listInvoices(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query().Get("reservationId")
	if v == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Argument", "reservationId query parameter is required")
		return
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Argument", "reservationId must be a number")
		return
	}
	invs, err := h.Invoices.InvoicesByReservation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]invoiceDTO, 0, len(invs))
	for _, inv := range invs {
		out = append(out, toInvoiceDTO(inv))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) updateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	status, err := domain.ParseInvoiceStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	inv, err := h.Invoices.UpdateInvoiceStatus(r.Context(), principalFrom(r), id, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceDTO(inv))
}
