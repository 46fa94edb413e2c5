package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/airline-booking/internal/model"
	"github.com/mmeshcher/airline-booking/internal/service"
)

type seatRequest struct {
	SeatNumber string          `json:"seatNumber"`
	Class      string          `json:"class"`
	Occupied   json.RawMessage `json:"occupied"`
}

// input разбирает флаг занятости: отсутствующий или null флаг остаётся nil,
// любое значение кроме true/false считается ошибкой.
func (s seatRequest) input() (service.SeatInput, error) {
	in := service.SeatInput{SeatNumber: s.SeatNumber, Class: model.SeatClass(s.Class)}

	raw := bytes.TrimSpace(s.Occupied)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return in, nil
	}

	var occupied bool
	if err := json.Unmarshal(raw, &occupied); err != nil {
		return service.SeatInput{}, model.ErrInvalidOccupied
	}
	in.Occupied = &occupied
	return in, nil
}

func seatInputs(seats []seatRequest) ([]service.SeatInput, error) {
	res := make([]service.SeatInput, 0, len(seats))
	for _, s := range seats {
		in, err := s.input()
		if err != nil {
			return nil, err
		}
		res = append(res, in)
	}
	return res, nil
}

type flightRequest struct {
	FlightNumber  string        `json:"flightNumber"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DepartureTime time.Time     `json:"departureTime"`
	ArrivalTime   time.Time     `json:"arrivalTime"`
	Price         float64       `json:"price"`
	Airline       string        `json:"airline"`
	Seats         []seatRequest `json:"seats"`
}

type flightPatchRequest struct {
	FlightNumber  *string        `json:"flightNumber"`
	Origin        *string        `json:"origin"`
	Destination   *string        `json:"destination"`
	DepartureTime *time.Time     `json:"departureTime"`
	ArrivalTime   *time.Time     `json:"arrivalTime"`
	Price         *float64       `json:"price"`
	Airline       *string        `json:"airline"`
	Seats         *[]seatRequest `json:"seats"`
}

// FindFlights ищет рейсы по пунктам отправления и назначения.
func (h *Handler) FindFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	flights, err := h.svc.Flights.FindFlights(r.Context(), service.FlightFilter{
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, flights)
}

// GetFlight возвращает рейс вместе с картой мест.
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Flights.GetFlight(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, f)
}

// AddFlight добавляет рейс в инвентарь.
func (h *Handler) AddFlight(w http.ResponseWriter, r *http.Request) {
	var req flightRequest
	if !h.decode(w, r, &req) {
		return
	}

	seats, err := seatInputs(req.Seats)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	f, err := h.svc.Flights.AddFlight(r.Context(), service.FlightInput{
		FlightNumber:  req.FlightNumber,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Price:         req.Price,
		Airline:       req.Airline,
		Seats:         seats,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, f)
}

// UpdateFlight частично изменяет рейс.
func (h *Handler) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	var req flightPatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	patch := service.FlightPatch{
		FlightNumber:  req.FlightNumber,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Price:         req.Price,
		Airline:       req.Airline,
	}
	if req.Seats != nil {
		seats, err := seatInputs(*req.Seats)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		patch.Seats = &seats
	}

	f, err := h.svc.Flights.UpdateFlight(r.Context(), chi.URLParam(r, "number"), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, f)
}

// DeleteFlight удаляет рейс и возвращает удалённую запись.
func (h *Handler) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Flights.DeleteFlight(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, f)
}
