package httpserver

import (
	"encoding/json"
	"net/http"

	"hotelops/internal/app"
	"hotelops/internal/domain"
)

type guestDTO struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	IDDocument *string `json:"idDocument,omitempty"`
	VIP        bool    `json:"vip"`
}

func toGuestDTO(g domain.Guest) guestDTO {
	return guestDTO{
		ID:         g.ID,
		FirstName:  g.FirstName,
		LastName:   g.LastName,
		Email:      g.Email,
		Phone:      g.Phone,
		IDDocument: g.IDDocument,
		VIP:        g.VIP,
	}
}

type createGuestRequest struct {
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	IDDocument *string `json:"idDocument,omitempty"`
	VIP        bool    `json:"vip"`
}

func (h *Handlers) createGuest(w http.ResponseWriter, r *http.Request) {
	var req createGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	g, err := h.Guests.CreateGuest(r.Context(), principalFrom(r), app.CreateGuestInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		IDDocument: req.IDDocument,
		VIP:        req.VIP,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGuestDTO(g))
}

func (h *Handlers) getGuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	g, err := h.Guests.GetGuest(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGuestDTO(g))
}

func (h *Handlers) listGuests(w http.ResponseWriter, r *http.Request) {
	gs, err := h.Guests.ListGuests(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]guestDTO, 0, len(gs))
	for _, g := range gs {
		out = append(out, toGuestDTO(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) guestReservations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	rvs, err := h.Guests.GuestReservations(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationDTOs(rvs))
}
