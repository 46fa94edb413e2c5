package handler

import (
	"net/http"
	"strings"

	"github.com/mmeshcher/airline-booking/internal/service"
)

type paymentRequest struct {
	FlightNumber string  `json:"flightNumber"`
	Amount       float64 `json:"amount"`
	CardNumber   string  `json:"cardNumber"`
	CVV          string  `json:"cvv"`
}

// Pay оплачивает бронирование текущего клиента.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FlightNumber) == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	res, err := h.svc.Payments.Pay(r.Context(), userID, service.PaymentRequest{
		FlightNumber: req.FlightNumber,
		Amount:       req.Amount,
		CardNumber:   req.CardNumber,
		CVV:          req.CVV,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// ListPayments возвращает платежи текущего клиента.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	payments, err := h.svc.Payments.ListPayments(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, payments)
}

// ListRefunds возвращает возвраты текущего клиента.
func (h *Handler) ListRefunds(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	refunds, err := h.svc.Payments.ListRefunds(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, refunds)
}
