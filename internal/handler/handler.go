// Package handler содержит HTTP-обработчики API сервиса бронирования авиабилетов.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/airline-booking/internal/middleware"
	"github.com/mmeshcher/airline-booking/internal/model"
	"github.com/mmeshcher/airline-booking/internal/service"
)

// Accounts регистрирует пользователей и проверяет вход.
type Accounts interface {
	Register(ctx context.Context, name, email, password string) (*model.Customer, error)
	Authenticate(ctx context.Context, email, password string) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
}

// Flights управляет инвентарём рейсов.
type Flights interface {
	AddFlight(ctx context.Context, in service.FlightInput) (*model.Flight, error)
	UpdateFlight(ctx context.Context, flightNumber string, patch service.FlightPatch) (*model.Flight, error)
	DeleteFlight(ctx context.Context, flightNumber string) (*model.Flight, error)
	GetFlight(ctx context.Context, flightNumber string) (*model.Flight, error)
	FindFlights(ctx context.Context, filter service.FlightFilter) ([]model.Flight, error)
}

// Bookings управляет жизненным циклом бронирований.
type Bookings interface {
	BookFlight(ctx context.Context, customerID, flightNumber string, opts service.BookingOptions) (*model.Booking, error)
	BookSeatOnly(ctx context.Context, customerID, flightNumber, seatNumber string) (*model.Booking, error)
	AddBaggage(ctx context.Context, customerID, flightNumber string, items []model.Baggage) (*model.Booking, error)
	CancelBooking(ctx context.Context, customerID, bookingID, reason string) (*service.CancelResult, error)
	ListBookings(ctx context.Context, customerID string, filter service.BookingFilter) ([]model.BookingView, error)
}

// Payments принимает оплату и возвращает историю возвратов.
type Payments interface {
	Pay(ctx context.Context, customerID string, req service.PaymentRequest) (*service.PaymentResult, error)
	ListPayments(ctx context.Context, customerID string) ([]model.Payment, error)
	ListRefunds(ctx context.Context, customerID string) ([]model.Refund, error)
}

// Loyalty работает со счётом лояльности клиента.
type Loyalty interface {
	Enroll(ctx context.Context, customerID string) (*model.LoyaltyMembership, error)
	Status(ctx context.Context, customerID string) (*model.LoyaltyStatus, error)
	Redeem(ctx context.Context, customerID string, points int64, rewardType model.RewardType) (*model.Redemption, error)
	ListRedemptions(ctx context.Context, customerID string) ([]model.Redemption, error)
}

// Programs хранит описания программ лояльности.
type Programs interface {
	ListPrograms(ctx context.Context) ([]model.LoyaltyProgram, error)
	CreateProgram(ctx context.Context, in service.ProgramInput) (*model.LoyaltyProgram, error)
	UpdateProgram(ctx context.Context, programID string, in service.ProgramInput) (*model.LoyaltyProgram, error)
	DeleteProgram(ctx context.Context, programID string) error
}

// Services объединяет бизнес-логику, используемую HTTP-обработчиками.
type Services struct {
	Accounts Accounts
	Flights  Flights
	Bookings Bookings
	Payments Payments
	Loyalty  Loyalty
	Programs Programs
}

// Handler реализует HTTP-обработчики API.
type Handler struct {
	svc            Services
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(svc Services, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		svc:            svc,
		logger:         logger,
		authMiddleware: auth,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError переводит класс доменной ошибки в HTTP-статус.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, model.ErrValidation):
		status = http.StatusUnprocessableEntity
	default:
		h.logger.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode response", zap.Error(err))
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}
