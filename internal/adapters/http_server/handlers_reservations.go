package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"hotelops/internal/app"
	"hotelops/internal/domain"
)

type createReservationRequest struct {
	GuestID         int64    `json:"guestId"`
	RoomID          int64    `json:"roomId"`
	CheckInDate     string   `json:"checkInDate"`
	CheckOutDate    string   `json:"checkOutDate"`
	NumberOfGuests  int      `json:"numberOfGuests"`
	TotalAmount     *float64 `json:"totalAmount,omitempty"`
	SpecialRequests *string  `json:"specialRequests,omitempty"`
}

type updateReservationRequest struct {
	GuestID         int64   `json:"guestId"`
	RoomID          int64   `json:"roomId"`
	CheckInDate     string  `json:"checkInDate"`
	CheckOutDate    string  `json:"checkOutDate"`
	NumberOfGuests  int     `json:"numberOfGuests"`
	Status          string  `json:"status"`
	TotalAmount     float64 `json:"totalAmount"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	checkIn, ok := parseDate(req.CheckInDate)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Argument", "checkInDate must be YYYY-MM-DD")
		return
	}
	checkOut, ok := parseDate(req.CheckOutDate)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Argument", "checkOutDate must be YYYY-MM-DD")
		return
	}

	rv, err := h.Reservations.CreateReservation(r.Context(), principalFrom(r), app.CreateReservationInput{
		GuestID:         req.GuestID,
		RoomID:          req.RoomID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumberOfGuests:  req.NumberOfGuests,
		TotalAmount:     req.TotalAmount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationDTO(rv))
}

func (h *Handlers) updateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req updateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	checkIn, ok := parseDate(req.CheckInDate)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Argument", "checkInDate must be YYYY-MM-DD")
		return
	}
	checkOut, ok := parseDate(req.CheckOutDate)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Argument", "checkOutDate must be YYYY-MM-DD")
		return
	}
	status, err := domain.ParseReservationStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	rv, err := h.Reservations.UpdateReservation(r.Context(), principalFrom(r), id, app.UpdateReservationInput{
		GuestID:         req.GuestID,
		RoomID:          req.RoomID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumberOfGuests:  req.NumberOfGuests,
		Status:          status,
		TotalAmount:     req.TotalAmount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(rv))
}

func (h *Handlers) transitionReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	status, err := domain.ParseReservationStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	rv, err := h.Reservations.Transition(r.Context(), principalFrom(r), id, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(rv))
}

// cancelReservation is the logical delete: the row stays, status moves to
// CANCELLED. 204 mirrors the original API.
func (h *Handlers) cancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	if _, err := h.Reservations.Cancel(r.Context(), principalFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	rv, err := h.Reservations.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(rv))
}

func (h *Handlers) listReservations(w http.ResponseWriter, r *http.Request) {
	var q domain.ReservationsQuery
	if v := r.URL.Query().Get("guestId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Argument", "guestId must be a number")
			return
		}
		q.GuestID = &id
	}
	if v := r.URL.Query().Get("roomId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Argument", "roomId must be a number")
			return
		}
		q.RoomID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		st, err := domain.ParseReservationStatus(v)
		if err != nil {
			writeError(w, err)
			return
		}
		q.Status = &st
	}

	rvs, err := h.Reservations.ListReservations(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationDTOs(rvs))
}

func (h *Handlers) currentReservations(w http.ResponseWriter, r *http.Request) {
	rvs, err := h.Reservations.CurrentReservations(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationDTOs(rvs))
}

func (h *Handlers) roomAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	checkIn, ok := parseDate(r.URL.Query().Get("checkinDate"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Argument", "checkinDate must be YYYY-MM-DD")
		return
	}
	checkOut, ok := parseDate(r.URL.Query().Get("checkoutDate"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Argument", "checkoutDate must be YYYY-MM-DD")
		return
	}
	free, err := h.Reservations.RoomAvailable(r.Context(), id, checkIn, checkOut)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"roomId":       id,
		"checkinDate":  checkIn.Format(dateLayout),
		"checkoutDate": checkOut.Format(dateLayout),
		"available":    free,
	})
}

func reservationDTOs(rvs []domain.Reservation) []reservationDTO {
	out := make([]reservationDTO, 0, len(rvs))
	for _, rv := range rvs {
		out = append(out, toReservationDTO(rv))
	}
	return out
}
