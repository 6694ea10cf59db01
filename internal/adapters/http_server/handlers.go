package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotelops/internal/app"
	"hotelops/internal/domain"
)

const dateLayout = "2006-01-02"

type Handlers struct {
	Reservations *app.ReservationService
	Rooms        *app.RoomService
	Payments     *app.PaymentService
	Invoices     *app.InvoiceService
	Guests       *app.GuestService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/reservations", h.listReservations)
		r.Get("/reservations/current", h.currentReservations)
		r.Get("/reservations/{id}", h.getReservation)
		r.Post("/reservations", h.createReservation)
		r.Put("/reservations/{id}", h.updateReservation)
		r.Put("/reservations/{id}/status", h.transitionReservation)
		r.Delete("/reservations/{id}", h.cancelReservation)

		r.Get("/rooms", h.listRooms)
		r.Get("/rooms/available", h.availableRooms)
		r.Get("/rooms/occupied", h.occupiedRooms)
		r.Get("/rooms/{id}", h.getRoom)
		r.Get("/rooms/{id}/availability", h.roomAvailability)
		r.Post("/rooms", h.createRoom)
		r.Put("/rooms/{id}", h.updateRoom)

		r.Get("/payments/today", h.todayPayments)
		r.Get("/payments/{id}", h.getPayment)
		r.Get("/payments", h.listPayments)
		r.Post("/payments", h.createPayment)
		r.Put("/payments/{id}/status", h.updatePaymentStatus)
		r.Get("/reports/revenue/today", h.todayRevenue)

		r.Get("/invoices/{id}", h.getInvoice)
		r.Get("/invoices", h.listInvoices)
		r.Post("/invoices", h.createInvoice)
		r.Put("/invoices/{id}/status", h.updateInvoiceStatus)

		r.Get("/guests", h.listGuests)
		r.Get("/guests/{id}", h.getGuest)
		r.Get("/guests/{id}/reservations", h.guestReservations)
		r.Post("/guests", h.createGuest)
	})
}

// ---- response helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		writeProblem(w, http.StatusBadRequest, "Invalid Argument", err.Error())
	default:
		log.Error().Err(err).Msg("internal error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive number")
	}
	return id, nil
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

// ---- reservation DTOs ----

type reservationDTO struct {
	ID                 int64    `json:"id"`
	ReservationNumber  string   `json:"reservationNumber"`
	GuestID            int64    `json:"guestId"`
	RoomID             int64    `json:"roomId"`
	CheckInDate        string   `json:"checkInDate"`
	CheckOutDate       string   `json:"checkOutDate"`
	NumberOfGuests     int      `json:"numberOfGuests"`
	Status             string   `json:"status"`
	TotalAmount        float64  `json:"totalAmount"`
	PaidAmount         float64  `json:"paidAmount"`
	SpecialRequests    *string  `json:"specialRequests,omitempty"`
	ActualCheckInDate  *string  `json:"actualCheckInDate,omitempty"`
	ActualCheckOutDate *string  `json:"actualCheckOutDate,omitempty"`
}

func toReservationDTO(rv domain.Reservation) reservationDTO {
	d := reservationDTO{
		ID:                rv.ID,
		ReservationNumber: rv.ReservationNumber,
		GuestID:           rv.GuestID,
		RoomID:            rv.RoomID,
		CheckInDate:       rv.CheckInDate.Format(dateLayout),
		CheckOutDate:      rv.CheckOutDate.Format(dateLayout),
		NumberOfGuests:    rv.NumberOfGuests,
		Status:            string(rv.Status),
		TotalAmount:       rv.TotalAmount,
		PaidAmount:        rv.PaidAmount,
		SpecialRequests:   rv.SpecialRequests,
	}
	if rv.ActualCheckInDate != nil {
		s := rv.ActualCheckInDate.Format(dateLayout)
		d.ActualCheckInDate = &s
	}
	if rv.ActualCheckOutDate != nil {
		s := rv.ActualCheckOutDate.Format(dateLayout)
		d.ActualCheckOutDate = &s
	}
	return d
}
