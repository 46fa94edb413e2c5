package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/airline-booking/internal/model"
	"github.com/mmeshcher/airline-booking/internal/service"
)

type bookingRequest struct {
	FlightNumber    string                `json:"flightNumber"`
	SeatNumber      string                `json:"seatNumber"`
	SeatClass       string                `json:"seatClass"`
	Meal            *model.Meal           `json:"meal"`
	SpecialRequest  *model.SpecialRequest `json:"specialRequest"`
	Baggage         []model.Baggage       `json:"baggage"`
	BoardingPassURL string                `json:"boardingPassUrl"`
}

type seatBookingRequest struct {
	FlightNumber string `json:"flightNumber"`
	SeatNumber   string `json:"seatNumber"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// BookFlight создаёт бронирование для текущего клиента.
func (h *Handler) BookFlight(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req bookingRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FlightNumber) == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	opts := service.BookingOptions{
		SeatNumber:      req.SeatNumber,
		SeatClass:       model.SeatClass(req.SeatClass),
		Baggage:         req.Baggage,
		BoardingPassURL: req.BoardingPassURL,
	}
	if req.Meal != nil {
		opts.MealType = req.Meal.Type
	}
	if req.SpecialRequest != nil {
		opts.SpecialRequestType = req.SpecialRequest.Type
		opts.SpecialRequestNote = req.SpecialRequest.Note
	}

	b, err := h.svc.Bookings.BookFlight(r.Context(), userID, req.FlightNumber, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, b)
}

// BookSeat бронирует только место на рейсе.
func (h *Handler) BookSeat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req seatBookingRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FlightNumber) == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	b, err := h.svc.Bookings.BookSeatOnly(r.Context(), userID, req.FlightNumber, req.SeatNumber)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, b)
}

// ListBookings возвращает бронирования текущего клиента.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	bookings, err := h.svc.Bookings.ListBookings(r.Context(), userID, service.BookingFilter{
		Status: q.Get("status"),
		SortBy: q.Get("sortBy"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bookings)
}

// CancelBooking отменяет бронирование. Тело запроса с причиной необязательно.
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	res, err := h.svc.Bookings.CancelBooking(r.Context(), userID, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// AddBaggage добавляет багаж к бронированию на рейс. Тело может быть объектом или массивом объектов.
func (h *Handler) AddBaggage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	items, err := decodeBaggage(body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	b, err := h.svc.Bookings.AddBaggage(r.Context(), userID, chi.URLParam(r, "number"), items)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, b)
}

func decodeBaggage(body []byte) ([]model.Baggage, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var items []model.Baggage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var item model.Baggage
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, err
	}
	return []model.Baggage{item}, nil
}
