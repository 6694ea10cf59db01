package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"hotelops/internal/app"
	"hotelops/internal/domain"
)

type roomDTO struct {
	ID           int64    `json:"id"`
	RoomNumber   string   `json:"roomNumber"`
	RoomType     string   `json:"roomType"`
	Floor        int      `json:"floor"`
	Price        float64  `json:"price"`
	Status       string   `json:"status"`
	MaxOccupancy int      `json:"maxOccupancy"`
	Description  *string  `json:"description,omitempty"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
}

func toRoomDTO(rm domain.Room) roomDTO {
	amenities := rm.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := rm.Images
	if images == nil {
		images = []string{}
	}
	return roomDTO{
		ID:           rm.ID,
		RoomNumber:   rm.RoomNumber,
		RoomType:     rm.RoomType,
		Floor:        rm.Floor,
		Price:        rm.Price,
		Status:       string(rm.Status),
		MaxOccupancy: rm.MaxOccupancy,
		Description:  rm.Description,
		Amenities:    amenities,
		Images:       images,
	}
}

func roomDTOs(rms []domain.Room) []roomDTO {
	out := make([]roomDTO, 0, len(rms))
	for _, rm := range rms {
		out = append(out, toRoomDTO(rm))
	}
	return out
}

type roomRequest struct {
	RoomNumber   string   `json:"roomNumber"`
	RoomType     string   `json:"roomType"`
	Floor        int      `json:"floor"`
	Price        float64  `json:"price"`
	Status       string   `json:"status,omitempty"`
	MaxOccupancy int      `json:"maxOccupancy"`
	Description  *string  `json:"description,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
	Images       []string `json:"images,omitempty"`
}

func (req roomRequest) toInput() (app.RoomInput, error) {
	in := app.RoomInput{
		RoomNumber:   req.RoomNumber,
		RoomType:     req.RoomType,
		Floor:        req.Floor,
		Price:        req.Price,
		MaxOccupancy: req.MaxOccupancy,
		Description:  req.Description,
		Amenities:    req.Amenities,
		Images:       req.Images,
	}
	if req.Status != "" {
		st, err := domain.ParseRoomStatus(req.Status)
		if err != nil {
			return app.RoomInput{}, err
		}
		in.Status = st
	}
	return in, nil
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}
	rm, err := h.Rooms.CreateRoom(r.Context(), principalFrom(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomDTO(rm))
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}
	rm, err := h.Rooms.UpdateRoom(r.Context(), principalFrom(r), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(rm))
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	rm, err := h.Rooms.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(rm))
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	rms, err := h.Rooms.ListRooms(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roomDTOs(rms))
}

func (h *Handlers) availableRooms(w http.ResponseWriter, r *http.Request) {
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
	rms, err := h.Rooms.AvailableRooms(r.Context(), checkIn, checkOut)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roomDTOs(rms))
}

func (h *Handlers) occupiedRooms(w http.ResponseWriter, r *http.Request) {
	rms, err := h.Rooms.OccupiedRooms(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roomDTOs(rms))
}
